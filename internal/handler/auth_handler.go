package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/mindfulme/internal/logger"
	"github.com/mindfulme/internal/service"
)

type registerPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register 处理注册请求，成功后直接建立会话
func (a *API) Register(c *gin.Context) {
	var payload registerPayload
	if !bindJSON(c, &payload, "invalid registration payload") {
		return
	}

	user, err := a.auth.Register(service.RegisterInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, err.Error())
		default:
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := saveSessionUser(c, user.ID, user.Username); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	logger.L.Infow("user registered", "user_id", user.ID, "username", user.Username)

	c.JSON(http.StatusCreated, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Login 处理登录请求
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "invalid login payload") {
		return
	}

	user, err := a.auth.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	if err := saveSessionUser(c, user.ID, user.Username); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	onboarded, err := a.auth.HasCompletedOnboarding(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}
	assessed, err := a.auth.HasCompletedAssessment(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":              user.ID,
		"username":             user.Username,
		"onboarding_completed": onboarded,
		"assessment_completed": assessed,
	})
}

// Logout 清理会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me 返回当前登录用户的基础信息
func (a *API) Me(c *gin.Context) {
	userID, _ := currentUserID(c)

	user, err := a.auth.GetUser(userID)
	if err != nil {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}

	onboarded, _ := a.auth.HasCompletedOnboarding(userID)
	assessed, _ := a.auth.HasCompletedAssessment(userID)

	c.JSON(http.StatusOK, gin.H{
		"user_id":              user.ID,
		"username":             user.Username,
		"email":                user.Email,
		"onboarding_completed": onboarded,
		"assessment_completed": assessed,
	})
}

// DeleteAccount 删除当前账号及全部数据并结束会话
func (a *API) DeleteAccount(c *gin.Context) {
	userID, _ := currentUserID(c)

	if err := a.auth.DeleteAccount(userID); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete account")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()

	logger.L.Infow("user account deleted", "user_id", userID)

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// AuthRequired 是 API 的认证中间件，未登录返回 401
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func saveSessionUser(c *gin.Context, userID uint, username string) error {
	session := sessions.Default(c)
	session.Set("user_id", userID)
	session.Set("username", username)
	return session.Save()
}
