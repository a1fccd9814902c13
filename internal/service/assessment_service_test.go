package service

import (
	"errors"
	"testing"

	"github.com/mindfulme/internal/db"
	"github.com/mindfulme/internal/scoring"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAssessmentTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.HealthBaseline{}); err != nil {
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

func uniformResponses(questionCount, weight int) map[int]int {
	responses := make(map[int]int, questionCount)
	for i := 0; i < questionCount; i++ {
		responses[i] = weight
	}
	return responses
}

func TestAssessmentServiceSubmitStoresBaseline(t *testing.T) {
	cleanup := setupAssessmentTestDB(t)
	defer cleanup()

	svc := NewAssessmentService(db.DB)

	result, err := svc.Submit(7, AssessmentInput{
		PHQ9Responses: uniformResponses(len(scoring.PHQ9.Questions), 1),
		GAD7Responses: uniformResponses(len(scoring.GAD7.Questions), 2),
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if result.PHQ9.Total != 9 || result.PHQ9.Level != "Mild" {
		t.Fatalf("unexpected PHQ-9 result: %+v", result.PHQ9)
	}
	if result.GAD7.Total != 14 || result.GAD7.Level != "Moderate" {
		t.Fatalf("unexpected GAD-7 result: %+v", result.GAD7)
	}

	baseline, err := svc.Latest(7)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if baseline.PHQ9Score == nil || *baseline.PHQ9Score != 9 {
		t.Fatalf("unexpected stored PHQ-9 score: %+v", baseline.PHQ9Score)
	}
	if baseline.GAD7Severity != "Moderate" {
		t.Fatalf("unexpected stored GAD-7 severity: %s", baseline.GAD7Severity)
	}
	if baseline.LastTestDate == nil {
		t.Fatal("expected last test date to be set")
	}
}

func TestAssessmentServiceSubmitOverwritesBaseline(t *testing.T) {
	cleanup := setupAssessmentTestDB(t)
	defer cleanup()

	svc := NewAssessmentService(db.DB)

	if _, err := svc.Submit(7, AssessmentInput{
		PHQ9Responses: uniformResponses(len(scoring.PHQ9.Questions), 3),
		GAD7Responses: uniformResponses(len(scoring.GAD7.Questions), 3),
	}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if _, err := svc.Submit(7, AssessmentInput{
		PHQ9Responses: uniformResponses(len(scoring.PHQ9.Questions), 0),
		GAD7Responses: uniformResponses(len(scoring.GAD7.Questions), 0),
	}); err != nil {
		t.Fatalf("Submit returned error on retake: %v", err)
	}

	baseline, err := svc.Latest(7)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if *baseline.PHQ9Score != 0 || baseline.PHQ9Severity != "Minimal" {
		t.Fatalf("expected retake to overwrite baseline, got %+v", baseline)
	}

	var count int64
	db.DB.Model(&db.HealthBaseline{}).Where("user_id = ?", 7).Count(&count)
	if count != 1 {
		t.Fatalf("expected single baseline row, found %d", count)
	}
}

func TestAssessmentServiceSubmitValidatesResponses(t *testing.T) {
	cleanup := setupAssessmentTestDB(t)
	defer cleanup()

	svc := NewAssessmentService(db.DB)

	full := uniformResponses(len(scoring.GAD7.Questions), 1)

	partial := uniformResponses(len(scoring.PHQ9.Questions)-1, 1)
	if _, err := svc.Submit(7, AssessmentInput{PHQ9Responses: partial, GAD7Responses: full}); !errors.Is(err, ErrIncompleteResponses) {
		t.Fatalf("expected ErrIncompleteResponses, got %v", err)
	}

	outOfRange := uniformResponses(len(scoring.PHQ9.Questions), 1)
	outOfRange[0] = 4
	if _, err := svc.Submit(7, AssessmentInput{PHQ9Responses: outOfRange, GAD7Responses: full}); err == nil {
		t.Fatal("expected error for response weight out of range")
	}

	badIndex := uniformResponses(len(scoring.PHQ9.Questions)-1, 1)
	badIndex[99] = 1
	if _, err := svc.Submit(7, AssessmentInput{PHQ9Responses: badIndex, GAD7Responses: full}); err == nil {
		t.Fatal("expected error for invalid question index")
	}
}

func TestAssessmentServiceLatestMissing(t *testing.T) {
	cleanup := setupAssessmentTestDB(t)
	defer cleanup()

	svc := NewAssessmentService(db.DB)

	if _, err := svc.Latest(42); !errors.Is(err, ErrBaselineNotFound) {
		t.Fatalf("expected ErrBaselineNotFound, got %v", err)
	}
}
