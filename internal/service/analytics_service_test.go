package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mindfulme/internal/db"
	"github.com/mindfulme/internal/scoring"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAnalyticsTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.DailyLog{}, &db.HealthBaseline{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestAnalyticsServiceEmptyUser(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	svc := NewAnalyticsService(db.DB)

	analytics, err := svc.UserAnalytics(1, time.Now())
	if err != nil {
		t.Fatalf("UserAnalytics returned error: %v", err)
	}

	if analytics.CurrentMood != 5 {
		t.Fatalf("expected default mood 5, got %d", analytics.CurrentMood)
	}
	if analytics.WeeklyMoodAvg != 0 || analytics.TotalJournals != 0 {
		t.Fatalf("expected empty aggregates, got %+v", analytics)
	}
	if analytics.BurnoutScore != 0 {
		t.Fatalf("expected zero burnout for empty history, got %f", analytics.BurnoutScore)
	}
	if len(analytics.MoodTrend) != 0 {
		t.Fatalf("expected empty mood trend, got %d points", len(analytics.MoodTrend))
	}
	if analytics.AssessmentCompleted {
		t.Fatal("expected assessment incomplete")
	}
}

func TestAnalyticsServiceAggregates(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	logs := NewDailyLogService(db.DB, &fixedClassifier{label: scoring.SentimentNegative, confidence: 0.9})
	svc := NewAnalyticsService(db.DB)

	now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

	// 最近 7 天：心情 4、睡眠 6 小时，其中 3 天有负面日记
	for offset := 0; offset < 7; offset++ {
		day := now.AddDate(0, 0, -offset)
		if _, err := logs.SaveMood(1, day, 4); err != nil {
			t.Fatalf("SaveMood returned error: %v", err)
		}
		if _, err := logs.SaveSleep(1, day, 6); err != nil {
			t.Fatalf("SaveSleep returned error: %v", err)
		}
		if offset < 3 {
			if _, _, err := logs.SaveJournal(context.Background(), 1, day, "a rough day at work"); err != nil {
				t.Fatalf("SaveJournal returned error: %v", err)
			}
		}
	}

	analytics, err := svc.UserAnalytics(1, now)
	if err != nil {
		t.Fatalf("UserAnalytics returned error: %v", err)
	}

	if analytics.CurrentMood != 4 {
		t.Fatalf("unexpected current mood: %d", analytics.CurrentMood)
	}
	if analytics.WeeklyMoodAvg != 4 {
		t.Fatalf("unexpected weekly mood average: %f", analytics.WeeklyMoodAvg)
	}
	if analytics.TotalJournals != 3 {
		t.Fatalf("unexpected journal count: %d", analytics.TotalJournals)
	}
	if analytics.SleepAvg != 6 {
		t.Fatalf("unexpected sleep average: %f", analytics.SleepAvg)
	}
	if len(analytics.MoodTrend) != 7 {
		t.Fatalf("unexpected trend length: %d", len(analytics.MoodTrend))
	}
	if analytics.SentimentDistribution[scoring.SentimentNegative] != 3 {
		t.Fatalf("unexpected sentiment distribution: %v", analytics.SentimentDistribution)
	}

	// mood: (6-4)/5*40=16, sleep: (8-6)/8*30=7.5, sentiment: 3/7*20
	want := 16 + 7.5 + 3.0/7.0*20
	if math.Abs(analytics.BurnoutScore-want) > 1e-9 {
		t.Fatalf("unexpected burnout score: got %f want %f", analytics.BurnoutScore, want)
	}

	score, err := svc.BurnoutRisk(1, now)
	if err != nil {
		t.Fatalf("BurnoutRisk returned error: %v", err)
	}
	if score != analytics.BurnoutScore {
		t.Fatalf("BurnoutRisk %f does not match analytics %f", score, analytics.BurnoutScore)
	}
}

func TestAnalyticsServiceAssessmentFlag(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	svc := NewAnalyticsService(db.DB)

	score := 5
	if err := db.DB.Create(&db.HealthBaseline{UserID: 1, PHQ9Score: &score}).Error; err != nil {
		t.Fatalf("failed to seed baseline: %v", err)
	}

	analytics, err := svc.UserAnalytics(1, time.Now())
	if err != nil {
		t.Fatalf("UserAnalytics returned error: %v", err)
	}
	if !analytics.AssessmentCompleted {
		t.Fatal("expected assessment completed flag")
	}
}

func TestAnalyticsServiceMoodPatterns(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	logs := NewDailyLogService(db.DB, nil)
	svc := NewAnalyticsService(db.DB)

	patterns, err := svc.MoodPatterns(1)
	if err != nil {
		t.Fatalf("MoodPatterns returned error: %v", err)
	}
	if patterns.BestDay != nil || patterns.WorstDay != nil {
		t.Fatal("expected empty patterns for sparse history")
	}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	moods := []int{5, 5, 5, 5, 9, 2, 5, 5}
	for offset, mood := range moods {
		if _, err := logs.SaveMood(1, base.AddDate(0, 0, offset), mood); err != nil {
			t.Fatalf("SaveMood returned error: %v", err)
		}
	}

	patterns, err = svc.MoodPatterns(1)
	if err != nil {
		t.Fatalf("MoodPatterns returned error: %v", err)
	}
	if patterns.BestDay == nil || patterns.BestDay.Mood != 9 || patterns.BestDay.Date != "2026-03-05" {
		t.Fatalf("unexpected best day: %+v", patterns.BestDay)
	}
	if patterns.WorstDay == nil || patterns.WorstDay.Mood != 2 || patterns.WorstDay.Date != "2026-03-06" {
		t.Fatalf("unexpected worst day: %+v", patterns.WorstDay)
	}
	if patterns.ConsistencyScore < 0 || patterns.ConsistencyScore > 10 {
		t.Fatalf("consistency score out of range: %f", patterns.ConsistencyScore)
	}
	// 不足 28 天没有趋势
	if len(patterns.Trends) != 0 {
		t.Fatalf("expected no trend with short history, got %v", patterns.Trends)
	}
}

func TestAnalyticsServiceMoodPatternsTrend(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	logs := NewDailyLogService(db.DB, nil)
	svc := NewAnalyticsService(db.DB)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 28; offset++ {
		mood := 4
		if offset >= 14 {
			mood = 7
		}
		if _, err := logs.SaveMood(1, base.AddDate(0, 0, offset), mood); err != nil {
			t.Fatalf("SaveMood returned error: %v", err)
		}
	}

	patterns, err := svc.MoodPatterns(1)
	if err != nil {
		t.Fatalf("MoodPatterns returned error: %v", err)
	}
	if len(patterns.Trends) != 1 {
		t.Fatalf("expected one trend entry, got %d", len(patterns.Trends))
	}
	trend := patterns.Trends[0]
	if trend.Direction != "improving" {
		t.Fatalf("unexpected direction: %s", trend.Direction)
	}
	if math.Abs(trend.Change-3) > 1e-9 {
		t.Fatalf("unexpected change: %f", trend.Change)
	}
}
