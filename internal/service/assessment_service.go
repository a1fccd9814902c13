package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/mindfulme/internal/db"
	"github.com/mindfulme/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrBaselineNotFound 在用户尚未完成测评时返回
	ErrBaselineNotFound = errors.New("health baseline not found")
	// ErrIncompleteResponses 在量表答题不完整时返回
	ErrIncompleteResponses = errors.New("all questions must be answered")
)

// AssessmentService 负责临床量表计分与基线存储
type AssessmentService struct {
	db *gorm.DB
}

// AssessmentInput 是一次完整测评的答题数据，
// 键为题目下标，值为选项权重（0-3）。
type AssessmentInput struct {
	PHQ9Responses map[int]int
	GAD7Responses map[int]int
}

// AssessmentResult 汇总两份量表的计分结果
type AssessmentResult struct {
	PHQ9     scoring.QuestionnaireResult `json:"phq9"`
	GAD7     scoring.QuestionnaireResult `json:"gad7"`
	TestDate time.Time                   `json:"test_date"`
}

// NewAssessmentService 构造 AssessmentService
func NewAssessmentService(gdb *gorm.DB) *AssessmentService {
	return &AssessmentService{db: gdb}
}

// Submit 对两份量表计分并覆盖写入 HealthBaseline。
// 每道题都必须作答，且选项权重限制在 0-3。
func (s *AssessmentService) Submit(userID uint, input AssessmentInput) (*AssessmentResult, error) {
	if err := validateResponses(input.PHQ9Responses, len(scoring.PHQ9.Questions)); err != nil {
		return nil, err
	}
	if err := validateResponses(input.GAD7Responses, len(scoring.GAD7.Questions)); err != nil {
		return nil, err
	}

	result := AssessmentResult{
		PHQ9:     scoring.ScoreQuestionnaire(input.PHQ9Responses, scoring.PHQ9),
		GAD7:     scoring.ScoreQuestionnaire(input.GAD7Responses, scoring.GAD7),
		TestDate: time.Now(),
	}

	phq9Score := result.PHQ9.Total
	gad7Score := result.GAD7.Total
	testDate := result.TestDate
	baseline := db.HealthBaseline{
		UserID:       userID,
		PHQ9Score:    &phq9Score,
		PHQ9Severity: result.PHQ9.Level,
		GAD7Score:    &gad7Score,
		GAD7Severity: result.GAD7.Level,
		LastTestDate: &testDate,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phq9_score", "phq9_severity", "gad7_score", "gad7_severity", "last_test_date", "updated_at"}),
	}).Create(&baseline).Error; err != nil {
		return nil, fmt.Errorf("upsert health baseline: %w", err)
	}

	return &result, nil
}

// Latest 返回用户最近一次测评的基线
func (s *AssessmentService) Latest(userID uint) (*db.HealthBaseline, error) {
	var baseline db.HealthBaseline
	if err := s.db.Where("user_id = ?", userID).First(&baseline).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBaselineNotFound
		}
		return nil, fmt.Errorf("get health baseline: %w", err)
	}
	return &baseline, nil
}

func validateResponses(responses map[int]int, questionCount int) error {
	if len(responses) != questionCount {
		return ErrIncompleteResponses
	}
	for index, weight := range responses {
		if index < 0 || index >= questionCount {
			return fmt.Errorf("invalid question index %d", index)
		}
		if weight < 0 || weight > 3 {
			return fmt.Errorf("invalid response weight %d for question %d", weight, index)
		}
	}
	return nil
}
