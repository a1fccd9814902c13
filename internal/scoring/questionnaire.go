package scoring

// Bracket 表示一个闭区间的严重程度分段
// 各分段互不重叠且按分值升序排列，共同覆盖量表的全部取值范围
type Bracket struct {
	Min            int
	Max            int
	Level          string
	Color          string
	Recommendation string
}

// Instrument 描述一份筛查量表：题目、选项权重与严重程度分段表
type Instrument struct {
	Name      string
	Questions []string
	MaxScore  int
	Brackets  []Bracket
}

// QuestionnaireResult 是一次量表计分的完整结果
type QuestionnaireResult struct {
	Total          int    `json:"total"`
	Level          string `json:"level"`
	Color          string `json:"color"`
	Recommendation string `json:"recommendation"`
}

// ResponseOptions 是 PHQ-9 与 GAD-7 共用的选项文案，键为选项权重
var ResponseOptions = map[int]string{
	0: "Not at all",
	1: "Several days",
	2: "More than half the days",
	3: "Nearly every day",
}

// PHQ9 是抑郁筛查量表（9 题，总分 0-27）
var PHQ9 = Instrument{
	Name: "PHQ-9",
	Questions: []string{
		"Little interest or pleasure in doing things",
		"Feeling down, depressed, or hopeless",
		"Trouble falling or staying asleep, or sleeping too much",
		"Feeling tired or having little energy",
		"Poor appetite or overeating",
		"Feeling bad about yourself - or that you are a failure or have let yourself or your family down",
		"Trouble concentrating on things, such as reading the newspaper or watching television",
		"Moving or speaking so slowly that other people could have noticed, or the opposite - being so fidgety or restless that you have been moving around a lot more than usual",
		"Thoughts that you would be better off dead, or of hurting yourself in some way",
	},
	MaxScore: 27,
	Brackets: []Bracket{
		{0, 4, "Minimal", ColorSuccessGreen, "Continue maintaining your mental wellness routine."},
		{5, 9, "Mild", ColorAccentTeal, "Consider daily mindfulness exercises and monitor your mood."},
		{10, 14, "Moderate", ColorWarningOrange, "Professional consultation recommended. Practice stress-reduction techniques."},
		{15, 19, "Moderately Severe", ColorWarningOrange, "Strongly consider speaking with a mental health professional."},
		{20, 27, "Severe", ColorErrorRed, "Please seek professional help. Contact a mental health provider."},
	},
}

// GAD7 是焦虑筛查量表（7 题，总分 0-21）
var GAD7 = Instrument{
	Name: "GAD-7",
	Questions: []string{
		"Feeling nervous, anxious, or on edge",
		"Not being able to stop or control worrying",
		"Worrying too much about different things",
		"Trouble relaxing",
		"Being so restless that it's hard to sit still",
		"Becoming easily annoyed or irritable",
		"Feeling afraid as if something awful might happen",
	},
	MaxScore: 21,
	Brackets: []Bracket{
		{0, 4, "Minimal", ColorSuccessGreen, "Your anxiety levels are within normal range. Keep up healthy habits."},
		{5, 9, "Mild", ColorAccentTeal, "Practice breathing exercises and consider journaling your thoughts."},
		{10, 14, "Moderate", ColorWarningOrange, "Consider speaking with a counselor. Implement daily relaxation techniques."},
		{15, 21, "Severe", ColorErrorRed, "Professional support is recommended. Please consult a mental health provider."},
	},
}

// ScoreQuestionnaire 累加各题所选选项的权重并查表得到严重程度。
// responses 的键是题目下标，值是选项权重（0-3）。
// 所有有效总分都落在某个分段；查不到时退回最高严重程度的分段。
func ScoreQuestionnaire(responses map[int]int, inst Instrument) QuestionnaireResult {
	total := 0
	for _, weight := range responses {
		total += weight
	}
	return ScoreTotal(total, inst)
}

// ScoreTotal 按总分查找严重程度分段，纯函数：同一总分永远得到同一分段。
func ScoreTotal(total int, inst Instrument) QuestionnaireResult {
	for _, b := range inst.Brackets {
		if total >= b.Min && total <= b.Max {
			return QuestionnaireResult{
				Total:          total,
				Level:          b.Level,
				Color:          b.Color,
				Recommendation: b.Recommendation,
			}
		}
	}

	// 超出量表范围时落到最高严重程度
	last := inst.Brackets[len(inst.Brackets)-1]
	return QuestionnaireResult{
		Total:          total,
		Level:          last.Level,
		Color:          last.Color,
		Recommendation: last.Recommendation,
	}
}
