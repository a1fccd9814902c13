package db

import (
	"time"

	"gorm.io/gorm"
)

// DailyLog 记录每位用户每天一条的心情/日记/睡眠/语音数据
// UserID + LogDate 采用唯一索引，保证同一天的提交是幂等的 upsert
// AI 派生字段（情感、情绪、认知扭曲）在写入日记时一并更新
// CognitiveDistortions 以 JSON 字符串存储检测结果列表
type DailyLog struct {
	gorm.Model
	UserID               uint      `gorm:"index;index:idx_daily_log_unique,unique" json:"user_id"`
	User                 User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LogDate              time.Time `gorm:"index:idx_daily_log_unique,unique" json:"log_date"`
	MoodScore            *int      `json:"mood_score"`
	JournalText          string    `json:"journal_text"`
	AISentiment          string    `json:"ai_sentiment"`
	AISentimentScore     *float64  `json:"ai_sentiment_score"`
	AIEmotion            string    `json:"ai_emotion"`
	CognitiveDistortions string    `json:"cognitive_distortions"`
	VocalTension         *float64  `json:"vocal_tension"`
	SleepHours           *float64  `json:"sleep_hours"`
}

// TableName 重写确保唯一索引作用到 user_id + log_date
func (DailyLog) TableName() string {
	return "daily_logs"
}

// VoiceRecording 保存一次语音分析的元数据
// 音频本体按 RecordingID 命名落盘，数据库只存指针与分析结论
type VoiceRecording struct {
	gorm.Model
	UserID          uint    `gorm:"index" json:"user_id"`
	User            User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecordingID     string  `gorm:"uniqueIndex" json:"recording_id"`
	FileName        string  `json:"file_name"`
	SampleRate      int     `json:"sample_rate"`
	DurationSeconds float64 `json:"duration_seconds"`
	TensionScore    float64 `json:"tension_score"`
	Analyzed        bool    `json:"analyzed"`
}
