package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindfulme/internal/scoring"
)

// GetAnalytics 返回仪表盘聚合指标
func (a *API) GetAnalytics(c *gin.Context) {
	userID, _ := currentUserID(c)

	analytics, err := a.analytics.UserAnalytics(userID, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load analytics")
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// GetBurnout 返回最近 7 天的倦怠风险评分与分级
func (a *API) GetBurnout(c *gin.Context) {
	userID, _ := currentUserID(c)

	score, err := a.analytics.BurnoutRisk(userID, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute burnout risk")
		return
	}

	level := scoring.BurnoutLevel(score)
	c.JSON(http.StatusOK, gin.H{
		"score":   score,
		"color":   level.Color,
		"message": level.Message,
	})
}

// GetMoodPatterns 返回长期心情模式分析
func (a *API) GetMoodPatterns(c *gin.Context) {
	userID, _ := currentUserID(c)

	patterns, err := a.analytics.MoodPatterns(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to analyze mood patterns")
		return
	}

	c.JSON(http.StatusOK, patterns)
}

// GetWeeklyReport 返回本周健康周报
func (a *API) GetWeeklyReport(c *gin.Context) {
	userID, _ := currentUserID(c)

	view, err := a.reports.WeeklyReport(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to build weekly report")
		return
	}

	c.JSON(http.StatusOK, view)
}
