package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mindfulme/internal/db"
	"github.com/mindfulme/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDailyLogNotFound 在指定日期没有日志时返回
	ErrDailyLogNotFound = errors.New("daily log not found")
	// ErrEmptyJournal 在日记内容为空时返回
	ErrEmptyJournal = errors.New("journal text is required")
)

// DailyLogService 负责按 (用户, 日期) 幂等写入日常记录，
// 并在写入日记时串联文本洞察流水线。
type DailyLogService struct {
	db         *gorm.DB
	classifier scoring.SentimentClassifier
	sanitizer  *bluemonday.Policy
}

// DailyLogPatch 描述一次提交要更新的字段，nil 字段保持原值
type DailyLogPatch struct {
	MoodScore            *int
	JournalText          *string
	AISentiment          *string
	AISentimentScore     *float64
	AIEmotion            *string
	CognitiveDistortions *string
	VocalTension         *float64
	SleepHours           *float64
}

// NewDailyLogService 构造 DailyLogService。
// classifier 可以为 nil，此时日记情感退回中性。
func NewDailyLogService(gdb *gorm.DB, classifier scoring.SentimentClassifier) *DailyLogService {
	return &DailyLogService{
		db:         gdb,
		classifier: classifier,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// Upsert 处理幂等的按天写入：该用户当天已有记录则只更新给到的字段，
// 否则创建新记录。日期统一归一化到零点。
func (s *DailyLogService) Upsert(userID uint, date time.Time, patch DailyLogPatch) (*db.DailyLog, error) {
	logDate := normalizeToDate(date)

	record := db.DailyLog{
		UserID:  userID,
		LogDate: logDate,
	}

	columns := []string{"updated_at"}
	if patch.MoodScore != nil {
		record.MoodScore = patch.MoodScore
		columns = append(columns, "mood_score")
	}
	if patch.JournalText != nil {
		record.JournalText = *patch.JournalText
		columns = append(columns, "journal_text")
	}
	if patch.AISentiment != nil {
		record.AISentiment = *patch.AISentiment
		columns = append(columns, "ai_sentiment")
	}
	if patch.AISentimentScore != nil {
		record.AISentimentScore = patch.AISentimentScore
		columns = append(columns, "ai_sentiment_score")
	}
	if patch.AIEmotion != nil {
		record.AIEmotion = *patch.AIEmotion
		columns = append(columns, "ai_emotion")
	}
	if patch.CognitiveDistortions != nil {
		record.CognitiveDistortions = *patch.CognitiveDistortions
		columns = append(columns, "cognitive_distortions")
	}
	if patch.VocalTension != nil {
		record.VocalTension = patch.VocalTension
		columns = append(columns, "vocal_tension")
	}
	if patch.SleepHours != nil {
		record.SleepHours = patch.SleepHours
		columns = append(columns, "sleep_hours")
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "log_date"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert daily log: %w", err)
	}

	if err := s.db.Where("user_id = ? AND log_date = ?", userID, logDate).First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload daily log: %w", err)
	}

	return &record, nil
}

// SaveMood 记录当天心情分
func (s *DailyLogService) SaveMood(userID uint, date time.Time, moodScore int) (*db.DailyLog, error) {
	if err := ValidateMoodScore(moodScore); err != nil {
		return nil, err
	}
	return s.Upsert(userID, date, DailyLogPatch{MoodScore: &moodScore})
}

// SaveSleep 记录当天睡眠时长
func (s *DailyLogService) SaveSleep(userID uint, date time.Time, hours float64) (*db.DailyLog, error) {
	if err := ValidateSleepHours(hours); err != nil {
		return nil, err
	}
	return s.Upsert(userID, date, DailyLogPatch{SleepHours: &hours})
}

// SaveJournal 写入当天日记：先做输入净化，再生成文本洞察，
// 连同派生的情感/情绪/认知扭曲一起落库，返回洞察供前端展示。
func (s *DailyLogService) SaveJournal(ctx context.Context, userID uint, date time.Time, text string) (*db.DailyLog, *scoring.Insights, error) {
	clean := strings.TrimSpace(s.sanitizer.Sanitize(text))
	if clean == "" {
		return nil, nil, ErrEmptyJournal
	}

	insights := scoring.ExtractInsights(ctx, clean, s.classifier)

	distortions, err := json.Marshal(insights.Distortions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode distortions: %w", err)
	}

	sentiment := insights.Sentiment
	confidence := insights.SentimentConfidence
	emotion := insights.Emotion
	distortionsJSON := string(distortions)
	record, err := s.Upsert(userID, date, DailyLogPatch{
		JournalText:          &clean,
		AISentiment:          &sentiment,
		AISentimentScore:     &confidence,
		AIEmotion:            &emotion,
		CognitiveDistortions: &distortionsJSON,
	})
	if err != nil {
		return nil, nil, err
	}

	return record, &insights, nil
}

// Get 返回某天的日志
func (s *DailyLogService) Get(userID uint, date time.Time) (*db.DailyLog, error) {
	var record db.DailyLog
	if err := s.db.Where("user_id = ? AND log_date = ?", userID, normalizeToDate(date)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDailyLogNotFound
		}
		return nil, fmt.Errorf("get daily log: %w", err)
	}
	return &record, nil
}

// ListRange 返回闭区间 [start, end] 内的日志，按日期升序
func (s *DailyLogService) ListRange(userID uint, start, end time.Time) ([]db.DailyLog, error) {
	var logs []db.DailyLog
	if err := s.db.Where("user_id = ?", userID).
		Where("log_date BETWEEN ? AND ?", normalizeToDate(start), normalizeToDate(end)).
		Order("log_date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	return logs, nil
}

// RecentJournals 返回最近的带日记内容的日志，按日期倒序
func (s *DailyLogService) RecentJournals(userID uint, limit int) ([]db.DailyLog, error) {
	if limit <= 0 {
		limit = 5
	}

	var logs []db.DailyLog
	if err := s.db.Where("user_id = ?", userID).
		Where("journal_text <> ''").
		Order("log_date DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list recent journals: %w", err)
	}
	return logs, nil
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
