package scoring

// MoodSummary 是周报中的心情小结
type MoodSummary struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// WeeklyReport 是一份周度心理健康报告，
// 仅由分析结果确定性拼装，不做任何新计算。
type WeeklyReport struct {
	Period          string      `json:"period"`
	MoodSummary     MoodSummary `json:"mood_summary"`
	Achievements    []string    `json:"achievements"`
	Recommendations []string    `json:"recommendations"`
}

// BuildWeeklyReport 由周均心情、周日记数与倦怠分生成周报。
func BuildWeeklyReport(weeklyMoodAvg float64, totalJournals int, burnoutScore float64) WeeklyReport {
	report := WeeklyReport{
		Period:          "Last 7 days",
		Achievements:    []string{},
		Recommendations: []string{},
	}

	switch {
	case weeklyMoodAvg >= 8:
		report.MoodSummary = MoodSummary{Level: "Excellent", Message: "You've been feeling great this week!"}
	case weeklyMoodAvg >= 6:
		report.MoodSummary = MoodSummary{Level: "Good", Message: "You've maintained a positive mood this week."}
	case weeklyMoodAvg >= 4:
		report.MoodSummary = MoodSummary{Level: "Fair", Message: "There's room for improvement, but you're doing okay."}
	default:
		report.MoodSummary = MoodSummary{Level: "Concerning", Message: "Consider reaching out for additional support."}
	}

	if totalJournals >= 5 {
		report.Achievements = append(report.Achievements, "Consistent journaling habit")
	} else if totalJournals >= 3 {
		report.Achievements = append(report.Achievements, "Regular reflection practice")
	}

	if burnoutScore > BurnoutThresholds[1].MaxScore {
		report.Recommendations = append(report.Recommendations, "Consider taking a break and practicing self-care")
	} else if burnoutScore > BurnoutThresholds[0].MaxScore {
		report.Recommendations = append(report.Recommendations, "Monitor your stress levels and ensure adequate rest")
	}

	if weeklyMoodAvg < 5 {
		report.Recommendations = append(report.Recommendations, "Try incorporating daily mindfulness or exercise")
	}

	return report
}
