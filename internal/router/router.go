package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mindfulme/internal/config"
	"github.com/mindfulme/internal/handler"
	"github.com/mindfulme/internal/logger"
)

// SetupRouter 配置 Gin 引擎、会话与全部 API 路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("mindfulme_session", store))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", api.Register)
		auth.POST("/login", api.Login)
		auth.POST("/logout", api.Logout)

		account := auth.Group("")
		account.Use(handler.AuthRequired())
		{
			account.GET("/me", api.Me)
			account.DELETE("/account", api.DeleteAccount)
		}
	}

	onboarding := r.Group("/api/onboarding")
	onboarding.Use(handler.AuthRequired())
	{
		onboarding.GET("/options", api.OnboardingOptions)
		onboarding.POST("/steps/:step/validate", api.ValidateOnboardingStep)
		onboarding.POST("", api.CompleteOnboarding)
		onboarding.GET("/profile", api.GetProfile)
	}

	assessment := r.Group("/api/assessment")
	assessment.Use(handler.AuthRequired())
	{
		assessment.GET("/questionnaires", api.GetQuestionnaires)
		assessment.POST("", api.SubmitAssessment)
		assessment.GET("/baseline", api.GetBaseline)
	}

	logs := r.Group("/api/logs")
	logs.Use(handler.AuthRequired())
	{
		logs.POST("/mood", api.SaveMood)
		logs.POST("/journal", api.SaveJournal)
		logs.POST("/sleep", api.SaveSleep)
		logs.POST("/voice", api.UploadVoice)
		logs.GET("", api.GetDailyLog)
		logs.GET("/range", api.ListDailyLogs)
		logs.GET("/journals", api.RecentJournals)
	}

	dashboard := r.Group("/api/dashboard")
	dashboard.Use(handler.AuthRequired())
	{
		dashboard.GET("/analytics", api.GetAnalytics)
		dashboard.GET("/burnout", api.GetBurnout)
		dashboard.GET("/patterns", api.GetMoodPatterns)
		dashboard.GET("/weekly-report", api.GetWeeklyReport)
	}

	return r
}

// requestLogger 为每个请求生成 request_id 并记录访问日志
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logger.L.Infow("request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
