package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mindfulme/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupReportTestDB(t *testing.T) func() {
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

func TestReportServiceWeeklyReport(t *testing.T) {
	cleanup := setupReportTestDB(t)
	defer cleanup()

	logs := NewDailyLogService(db.DB, nil)
	analytics := NewAnalyticsService(db.DB)
	svc := NewReportService(analytics, logs, nil)

	now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
	for offset := 0; offset < 7; offset++ {
		day := now.AddDate(0, 0, -offset)
		if _, err := logs.SaveMood(1, day, 7); err != nil {
			t.Fatalf("SaveMood returned error: %v", err)
		}
		if _, err := logs.SaveSleep(1, day, 8); err != nil {
			t.Fatalf("SaveSleep returned error: %v", err)
		}
		if offset < 5 {
			if _, _, err := logs.SaveJournal(context.Background(), 1, day, "spent the evening walking"); err != nil {
				t.Fatalf("SaveJournal returned error: %v", err)
			}
		}
	}

	view, err := svc.WeeklyReport(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("WeeklyReport returned error: %v", err)
	}

	if view.Report.MoodSummary.Level != "Good" {
		t.Fatalf("unexpected mood level: %s", view.Report.MoodSummary.Level)
	}
	if len(view.Report.Achievements) == 0 || view.Report.Achievements[0] != "Consistent journaling habit" {
		t.Fatalf("unexpected achievements: %v", view.Report.Achievements)
	}
	if view.BurnoutMessage != "Low burnout risk" {
		t.Fatalf("unexpected burnout message: %s", view.BurnoutMessage)
	}
	if view.JournalSummary == "" {
		t.Fatal("expected journal summary")
	}

	if !strings.Contains(view.HTML, "<h2>") {
		t.Fatalf("expected rendered headings, got %s", view.HTML)
	}
	if !strings.Contains(view.HTML, "Good") {
		t.Fatalf("expected mood level in HTML, got %s", view.HTML)
	}
}

func TestReportServiceWeeklyReportEmptyHistory(t *testing.T) {
	cleanup := setupReportTestDB(t)
	defer cleanup()

	logs := NewDailyLogService(db.DB, nil)
	svc := NewReportService(NewAnalyticsService(db.DB), logs, nil)

	view, err := svc.WeeklyReport(context.Background(), 1, time.Now())
	if err != nil {
		t.Fatalf("WeeklyReport returned error: %v", err)
	}

	if view.Report.MoodSummary.Level != "Concerning" {
		t.Fatalf("unexpected mood level: %s", view.Report.MoodSummary.Level)
	}
	if len(view.Report.Achievements) != 0 {
		t.Fatalf("expected no achievements, got %v", view.Report.Achievements)
	}
	if view.JournalSummary != "No entries to summarize." {
		t.Fatalf("unexpected summary: %s", view.JournalSummary)
	}
}

func TestReportServiceHTMLIsSanitized(t *testing.T) {
	cleanup := setupReportTestDB(t)
	defer cleanup()

	logs := NewDailyLogService(db.DB, nil)
	svc := NewReportService(NewAnalyticsService(db.DB), logs, nil)

	view, err := svc.WeeklyReport(context.Background(), 1, time.Now())
	if err != nil {
		t.Fatalf("WeeklyReport returned error: %v", err)
	}
	if strings.Contains(view.HTML, "<script") {
		t.Fatal("expected sanitized HTML output")
	}
}
