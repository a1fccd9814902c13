package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mindfulme/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProfileNotFound 在用户尚未完成引导时返回
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidOnboardingStep 在步骤编号不合法时返回
	ErrInvalidOnboardingStep = errors.New("invalid onboarding step")
)

// 引导向导共四步：基础信息、睡眠基线、健康目标、确认提交
const OnboardingTotalSteps = 4

// ProfileService 负责引导问卷与用户画像
type ProfileService struct {
	db *gorm.DB
}

// OnboardingInput 汇总四步向导收集的全部字段
type OnboardingInput struct {
	Age          int
	Profession   string
	SleepHours   float64
	SleepQuality int
	HealthGoals  []string
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// ValidateStep 按向导步骤校验对应字段，供前端逐步提交时使用。
// 第 4 步（确认页）重新校验全部字段。
func (s *ProfileService) ValidateStep(step int, input OnboardingInput) error {
	switch step {
	case 1:
		if err := ValidateAge(input.Age); err != nil {
			return err
		}
		if strings.TrimSpace(input.Profession) == "" {
			return errors.New("profession is required")
		}
		return nil
	case 2:
		if err := ValidateSleepHours(input.SleepHours); err != nil {
			return err
		}
		if input.SleepQuality < 1 || input.SleepQuality > 5 {
			return errors.New("sleep quality must be between 1 and 5")
		}
		return nil
	case 3:
		if len(input.HealthGoals) == 0 {
			return errors.New("select at least one health goal")
		}
		return nil
	case 4:
		for prior := 1; prior <= 3; prior++ {
			if err := s.ValidateStep(prior, input); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrInvalidOnboardingStep
	}
}

// Complete 校验全部字段后写入画像，重复提交覆盖旧画像。
func (s *ProfileService) Complete(userID uint, input OnboardingInput) (*db.UserProfile, error) {
	if err := s.ValidateStep(OnboardingTotalSteps, input); err != nil {
		return nil, err
	}

	goals, err := json.Marshal(input.HealthGoals)
	if err != nil {
		return nil, fmt.Errorf("encode health goals: %w", err)
	}

	age := input.Age
	sleepHours := input.SleepHours
	sleepQuality := input.SleepQuality
	profile := db.UserProfile{
		UserID:       userID,
		Age:          &age,
		Profession:   strings.TrimSpace(input.Profession),
		SleepHours:   &sleepHours,
		SleepQuality: &sleepQuality,
		HealthGoals:  string(goals),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"age", "profession", "sleep_hours", "sleep_quality", "health_goals", "updated_at"}),
	}).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}

	return &profile, nil
}

// Get 返回用户画像
func (s *ProfileService) Get(userID uint) (*db.UserProfile, error) {
	var profile db.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Goals 解析画像中的健康目标列表
func (s *ProfileService) Goals(profile *db.UserProfile) []string {
	if profile == nil || profile.HealthGoals == "" {
		return nil
	}
	var goals []string
	if err := json.Unmarshal([]byte(profile.HealthGoals), &goals); err != nil {
		return nil
	}
	return goals
}
