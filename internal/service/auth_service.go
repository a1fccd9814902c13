package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mindfulme/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUsernameTaken 在用户名已被占用时返回
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken 在邮箱已被注册时返回
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 在用户名或密码错误时返回
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound 在指定用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
)

// AuthService 负责账号注册、登录与注销
type AuthService struct {
	db *gorm.DB
}

// RegisterInput 定义注册所需字段
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewAuthService 构造 AuthService
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// Register 创建新账号：校验输入、检查唯一性、以 bcrypt 存储密码。
func (s *AuthService) Register(input RegisterInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

// Authenticate 校验用户名与密码，成功时返回用户。
// 账号不存在与密码错误返回同一个错误，避免泄露账号存在性。
func (s *AuthService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUser 根据 ID 获取用户
func (s *AuthService) GetUser(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// DeleteAccount 删除账号及其全部关联数据
func (s *AuthService) DeleteAccount(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&db.DailyLog{}).Error; err != nil {
			return fmt.Errorf("delete daily logs: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&db.VoiceRecording{}).Error; err != nil {
			return fmt.Errorf("delete voice recordings: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&db.HealthBaseline{}).Error; err != nil {
			return fmt.Errorf("delete health baseline: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&db.UserProfile{}).Error; err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if err := tx.Delete(&db.User{}, userID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// HasCompletedOnboarding 检查用户是否填写过引导问卷
func (s *AuthService) HasCompletedOnboarding(userID uint) (bool, error) {
	var profile db.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check onboarding: %w", err)
	}
	return profile.Age != nil, nil
}

// HasCompletedAssessment 检查用户是否完成过临床测评
func (s *AuthService) HasCompletedAssessment(userID uint) (bool, error) {
	var baseline db.HealthBaseline
	if err := s.db.Where("user_id = ?", userID).First(&baseline).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check assessment: %w", err)
	}
	return baseline.PHQ9Score != nil, nil
}
