package scoring

import "math"

// 倦怠风险四因子的权重，合计 100
const (
	burnoutMoodWeight      = 40.0
	burnoutSleepWeight     = 30.0
	burnoutSentimentWeight = 20.0
	burnoutTensionWeight   = 10.0
)

// DayEntry 是倦怠计算所需的单日数据切片，可选字段为 nil 表示未记录
type DayEntry struct {
	MoodScore    *int
	SleepHours   *float64
	Sentiment    string
	VocalTension *float64
}

// BurnoutRisk 基于最近 7 天的日志计算 0-100 的倦怠风险。
// 无任何日志时风险为 0；睡眠与声音紧张度因子只在有记录时参与。
func BurnoutRisk(entries []DayEntry) float64 {
	if len(entries) == 0 {
		return 0
	}

	// 心情因子：平均心情越低风险越高
	var moodSum float64
	moodCount := 0
	for _, e := range entries {
		if e.MoodScore != nil {
			moodSum += float64(*e.MoodScore)
			moodCount++
		}
	}
	moodFactor := 0.0
	if moodCount > 0 {
		avgMood := moodSum / float64(moodCount)
		moodFactor = math.Max(0, (6-avgMood)/5) * burnoutMoodWeight
	}

	// 睡眠因子：不足 8 小时开始累积风险
	var sleepSum float64
	sleepCount := 0
	for _, e := range entries {
		if e.SleepHours != nil {
			sleepSum += *e.SleepHours
			sleepCount++
		}
	}
	sleepFactor := 0.0
	if sleepCount > 0 {
		avgSleep := sleepSum / float64(sleepCount)
		sleepFactor = math.Max(0, (8-avgSleep)/8) * burnoutSleepWeight
	}

	// 情感因子：负向日记占比
	negative := 0
	for _, e := range entries {
		if e.Sentiment == SentimentNegative {
			negative++
		}
	}
	sentimentFactor := float64(negative) / float64(len(entries)) * burnoutSentimentWeight

	// 声音紧张度因子
	var tensionSum float64
	tensionCount := 0
	for _, e := range entries {
		if e.VocalTension != nil {
			tensionSum += *e.VocalTension
			tensionCount++
		}
	}
	tensionFactor := 0.0
	if tensionCount > 0 {
		avgTension := tensionSum / float64(tensionCount)
		tensionFactor = avgTension / 100 * burnoutTensionWeight
	}

	score := moodFactor + sleepFactor + sentimentFactor + tensionFactor
	return math.Max(0, math.Min(100, score))
}

// BurnoutLevel 返回分数所属的风险分段（闭上界，低到高）
func BurnoutLevel(score float64) BurnoutThreshold {
	for _, threshold := range BurnoutThresholds {
		if score <= threshold.MaxScore {
			return threshold
		}
	}
	return BurnoutThresholds[len(BurnoutThresholds)-1]
}
