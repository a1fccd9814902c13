package service

import (
	"fmt"
	"time"

	"github.com/mindfulme/internal/db"
	"github.com/mindfulme/internal/scoring"
	"gorm.io/gorm"
)

// AnalyticsService 负责仪表盘所需的聚合统计与倦怠风险计算
type AnalyticsService struct {
	db *gorm.DB
}

// MoodPoint 是心情趋势图上的一个数据点
type MoodPoint struct {
	Date string `json:"date"`
	Mood int    `json:"mood"`
}

// UserAnalytics 汇总仪表盘展示的各项指标
type UserAnalytics struct {
	CurrentMood           int            `json:"current_mood"`
	WeeklyMoodAvg         float64        `json:"weekly_mood_avg"`
	TotalJournals         int            `json:"total_journals"`
	MoodTrend             []MoodPoint    `json:"mood_trend"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	BurnoutScore          float64        `json:"burnout_score"`
	SleepAvg              float64        `json:"sleep_avg"`
	AssessmentCompleted   bool           `json:"assessment_completed"`
}

// DayMood 标注单日心情，用于最好/最差日
type DayMood struct {
	Date string `json:"date"`
	Mood int    `json:"mood"`
}

// TrendEntry 描述一段时间的心情变化方向
type TrendEntry struct {
	Period    string  `json:"period"`
	Change    float64 `json:"change"`
	Direction string  `json:"direction"`
}

// MoodPatterns 是长期心情模式分析的结果
type MoodPatterns struct {
	BestDay          *DayMood     `json:"best_day"`
	WorstDay         *DayMood     `json:"worst_day"`
	ConsistencyScore float64      `json:"consistency_score"`
	Trends           []TrendEntry `json:"trends"`
}

// NewAnalyticsService 构造 AnalyticsService
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// UserAnalytics 聚合用户的仪表盘指标：今日心情、周均心情、
// 30 天趋势、情感分布、平均睡眠与倦怠分。
func (s *AnalyticsService) UserAnalytics(userID uint, now time.Time) (*UserAnalytics, error) {
	analytics := &UserAnalytics{
		CurrentMood:           5,
		MoodTrend:             []MoodPoint{},
		SentimentDistribution: map[string]int{},
	}

	today := normalizeToDate(now)

	var todayLog db.DailyLog
	if err := s.db.Where("user_id = ? AND log_date = ?", userID, today).First(&todayLog).Error; err == nil {
		if todayLog.MoodScore != nil {
			analytics.CurrentMood = *todayLog.MoodScore
		}
	}

	weeklyLogs, err := s.trailingLogs(userID, today, 7)
	if err != nil {
		return nil, err
	}

	moodSum, moodCount := 0, 0
	for _, log := range weeklyLogs {
		if log.MoodScore != nil {
			moodSum += *log.MoodScore
			moodCount++
		}
		if log.JournalText != "" {
			analytics.TotalJournals++
		}
	}
	if moodCount > 0 {
		analytics.WeeklyMoodAvg = float64(moodSum) / float64(moodCount)
	}

	monthlyLogs, err := s.trailingLogs(userID, today, 30)
	if err != nil {
		return nil, err
	}

	sleepSum, sleepCount := 0.0, 0
	for _, log := range monthlyLogs {
		if log.MoodScore != nil {
			analytics.MoodTrend = append(analytics.MoodTrend, MoodPoint{
				Date: log.LogDate.Format("2006-01-02"),
				Mood: *log.MoodScore,
			})
		}
		if log.AISentiment != "" {
			analytics.SentimentDistribution[log.AISentiment]++
		}
		if log.SleepHours != nil {
			sleepSum += *log.SleepHours
			sleepCount++
		}
	}
	if sleepCount > 0 {
		analytics.SleepAvg = sleepSum / float64(sleepCount)
	}

	analytics.BurnoutScore = burnoutFromLogs(weeklyLogs)

	var baselineCount int64
	if err := s.db.Model(&db.HealthBaseline{}).Where("user_id = ?", userID).Count(&baselineCount).Error; err != nil {
		return nil, fmt.Errorf("count baselines: %w", err)
	}
	analytics.AssessmentCompleted = baselineCount > 0

	return analytics, nil
}

// BurnoutRisk 基于含当天在内的最近 7 天日志计算倦怠风险
func (s *AnalyticsService) BurnoutRisk(userID uint, now time.Time) (float64, error) {
	logs, err := s.trailingLogs(userID, normalizeToDate(now), 7)
	if err != nil {
		return 0, err
	}
	return burnoutFromLogs(logs), nil
}

// MoodPatterns 分析长期心情模式：最好/最差日、稳定度与近期趋势。
// 少于 7 条记录时返回空结果。
func (s *AnalyticsService) MoodPatterns(userID uint) (*MoodPatterns, error) {
	var logs []db.DailyLog
	if err := s.db.Where("user_id = ?", userID).
		Order("log_date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list mood logs: %w", err)
	}

	patterns := &MoodPatterns{Trends: []TrendEntry{}}

	scored := make([]db.DailyLog, 0, len(logs))
	for _, log := range logs {
		if log.MoodScore != nil {
			scored = append(scored, log)
		}
	}

	if len(scored) < 7 {
		return patterns, nil
	}

	best, worst := scored[0], scored[0]
	for _, log := range scored[1:] {
		if *log.MoodScore > *best.MoodScore {
			best = log
		}
		if *log.MoodScore < *worst.MoodScore {
			worst = log
		}
	}
	patterns.BestDay = &DayMood{Date: best.LogDate.Format("2006-01-02"), Mood: *best.MoodScore}
	patterns.WorstDay = &DayMood{Date: worst.LogDate.Format("2006-01-02"), Mood: *worst.MoodScore}

	// 方差越小稳定度越高，折算到 0-10
	mean := 0.0
	for _, log := range scored {
		mean += float64(*log.MoodScore)
	}
	mean /= float64(len(scored))
	variance := 0.0
	for _, log := range scored {
		diff := float64(*log.MoodScore) - mean
		variance += diff * diff
	}
	variance /= float64(len(scored))
	patterns.ConsistencyScore = 10 - variance
	if patterns.ConsistencyScore < 0 {
		patterns.ConsistencyScore = 0
	}

	// 近 14 天与前 14 天对比
	if len(scored) >= 28 {
		recent := scored[len(scored)-14:]
		previous := scored[len(scored)-28 : len(scored)-14]

		recentAvg, previousAvg := 0.0, 0.0
		for _, log := range recent {
			recentAvg += float64(*log.MoodScore)
		}
		for _, log := range previous {
			previousAvg += float64(*log.MoodScore)
		}
		recentAvg /= float64(len(recent))
		previousAvg /= float64(len(previous))

		change := recentAvg - previousAvg
		direction := "declining"
		if change > 0 {
			direction = "improving"
		}
		patterns.Trends = append(patterns.Trends, TrendEntry{
			Period:    "Last 2 weeks",
			Change:    change,
			Direction: direction,
		})
	}

	return patterns, nil
}

// trailingLogs 返回以 today 为终点、往前共 days 个自然日的日志
func (s *AnalyticsService) trailingLogs(userID uint, today time.Time, days int) ([]db.DailyLog, error) {
	start := today.AddDate(0, 0, -(days - 1))

	var logs []db.DailyLog
	if err := s.db.Where("user_id = ?", userID).
		Where("log_date BETWEEN ? AND ?", start, today).
		Order("log_date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list trailing logs: %w", err)
	}
	return logs, nil
}

func burnoutFromLogs(logs []db.DailyLog) float64 {
	entries := make([]scoring.DayEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, scoring.DayEntry{
			MoodScore:    log.MoodScore,
			SleepHours:   log.SleepHours,
			Sentiment:    log.AISentiment,
			VocalTension: log.VocalTension,
		})
	}
	return scoring.BurnoutRisk(entries)
}
