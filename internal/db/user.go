package db

import (
	"time"

	"gorm.io/gorm"
)

// User 定义了用户账号模型
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
}

// UserProfile 保存引导问卷收集的画像数据
// HealthGoals 以 JSON 字符串存储目标列表
// SleepHours/SleepQuality 为用户自报的睡眠基线（质量为 1-5）
type UserProfile struct {
	gorm.Model
	UserID       uint     `gorm:"uniqueIndex" json:"user_id"`
	User         User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Age          *int     `json:"age"`
	Profession   string   `json:"profession"`
	SleepHours   *float64 `json:"sleep_hours"`
	SleepQuality *int     `json:"sleep_quality"`
	HealthGoals  string   `json:"health_goals"`
}

// HealthBaseline 保存最近一次临床量表结果
// 每个用户一行，新的测评直接覆盖旧值（不做版本化）
type HealthBaseline struct {
	gorm.Model
	UserID       uint       `gorm:"uniqueIndex" json:"user_id"`
	User         User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PHQ9Score    *int       `json:"phq9_score"`
	PHQ9Severity string     `json:"phq9_severity"`
	GAD7Score    *int       `json:"gad7_score"`
	GAD7Severity string     `json:"gad7_severity"`
	LastTestDate *time.Time `json:"last_test_date"`
}
