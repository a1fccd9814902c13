// Package scoring 实现所有纯函数的评分逻辑：量表计分、文本洞察、
// 语音紧张度、倦怠风险与周报生成。包内不做任何持久化或网络调用，
// 输入输出均为普通数据结构，便于上层独立测试。
package scoring

// 主题色（Mindify 配色）
const (
	ColorSuccessGreen  = "#66BB6A"
	ColorAccentTeal    = "#80CBC4"
	ColorWarningOrange = "#FFA726"
	ColorErrorRed      = "#EF5350"
)

// MoodScale 将 1-10 的心情分映射为文案
var MoodScale = map[int]string{
	1:  "Very Low",
	2:  "Low",
	3:  "Somewhat Low",
	4:  "Below Average",
	5:  "Average",
	6:  "Above Average",
	7:  "Good",
	8:  "Very Good",
	9:  "Excellent",
	10: "Outstanding",
}

// SleepQualityScale 将 1-5 的睡眠质量分映射为文案
var SleepQualityScale = map[int]string{
	1: "Very Poor",
	2: "Poor",
	3: "Fair",
	4: "Good",
	5: "Excellent",
}

// HealthGoals 是引导流程可选的健康目标
var HealthGoals = []string{
	"Reduce anxiety",
	"Manage depression symptoms",
	"Improve sleep quality",
	"Build emotional resilience",
	"Practice mindfulness",
	"Track mood patterns",
	"Develop coping strategies",
	"Maintain work-life balance",
}

// ProfessionCategories 是引导流程可选的职业类别
var ProfessionCategories = []string{
	"Student",
	"Healthcare Professional",
	"Technology/IT",
	"Education",
	"Business/Finance",
	"Creative/Arts",
	"Service Industry",
	"Self-employed",
	"Retired",
	"Other",
}

// BurnoutThreshold 描述倦怠风险分段的上界与展示信息
type BurnoutThreshold struct {
	MaxScore float64
	Color    string
	Message  string
}

// BurnoutThresholds 按风险从低到高排列，闭区间上界
var BurnoutThresholds = []BurnoutThreshold{
	{MaxScore: 30, Color: ColorSuccessGreen, Message: "Low burnout risk"},
	{MaxScore: 60, Color: ColorWarningOrange, Message: "Moderate burnout risk - consider taking breaks"},
	{MaxScore: 100, Color: ColorErrorRed, Message: "High burnout risk - prioritize self-care"},
}
