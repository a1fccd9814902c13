package service

import (
	"errors"
	"regexp"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	lowerPattern    = regexp.MustCompile(`[a-z]`)
	digitPattern    = regexp.MustCompile(`\d`)
)

// ValidateEmail 校验邮箱格式
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidatePassword 校验密码强度：至少 8 位，含大小写字母与数字
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	if !upperPattern.MatchString(password) {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !lowerPattern.MatchString(password) {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !digitPattern.MatchString(password) {
		return errors.New("password must contain at least one digit")
	}
	return nil
}

// ValidateUsername 校验用户名：3-30 位，字母开头，仅字母数字下划线
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters long")
	}
	if len(username) > 30 {
		return errors.New("username must not exceed 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidateAge 校验年龄范围
func ValidateAge(age int) error {
	if age < 13 {
		return errors.New("you must be at least 13 years old to use this app")
	}
	if age > 120 {
		return errors.New("please enter a valid age")
	}
	return nil
}

// ValidateSleepHours 校验睡眠时长
func ValidateSleepHours(hours float64) error {
	if hours < 0 {
		return errors.New("sleep hours cannot be negative")
	}
	if hours > 24 {
		return errors.New("sleep hours cannot exceed 24")
	}
	return nil
}

// ValidateMoodScore 校验心情分（1-10）
func ValidateMoodScore(score int) error {
	if score < 1 || score > 10 {
		return errors.New("mood score must be between 1 and 10")
	}
	return nil
}
