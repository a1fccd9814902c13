package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mindfulme/internal/scoring"
	"github.com/mindfulme/internal/service"
)

type onboardingPayload struct {
	Age          int      `json:"age"`
	Profession   string   `json:"profession"`
	SleepHours   float64  `json:"sleep_hours"`
	SleepQuality int      `json:"sleep_quality"`
	HealthGoals  []string `json:"health_goals"`
}

func (p onboardingPayload) toInput() service.OnboardingInput {
	return service.OnboardingInput{
		Age:          p.Age,
		Profession:   p.Profession,
		SleepHours:   p.SleepHours,
		SleepQuality: p.SleepQuality,
		HealthGoals:  p.HealthGoals,
	}
}

// OnboardingOptions 返回向导的步数与候选选项，供前端渲染
func (a *API) OnboardingOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_steps":         service.OnboardingTotalSteps,
		"professions":         scoring.ProfessionCategories,
		"health_goals":        scoring.HealthGoals,
		"sleep_quality_scale": scoring.SleepQualityScale,
	})
}

// ValidateOnboardingStep 校验某一步的输入，向导逐步提交时调用
func (a *API) ValidateOnboardingStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid step")
		return
	}

	var payload onboardingPayload
	if !bindJSON(c, &payload, "invalid onboarding payload") {
		return
	}

	if err := a.profiles.ValidateStep(step, payload.toInput()); err != nil {
		if errors.Is(err, service.ErrInvalidOnboardingStep) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "step": step})
}

// CompleteOnboarding 提交完整向导并写入画像
func (a *API) CompleteOnboarding(c *gin.Context) {
	userID, _ := currentUserID(c)

	var payload onboardingPayload
	if !bindJSON(c, &payload, "invalid onboarding payload") {
		return
	}

	profile, err := a.profiles.Complete(userID, payload.toInput())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      profile,
		"health_goals": a.profiles.Goals(profile),
	})
}

// GetProfile 返回用户画像
func (a *API) GetProfile(c *gin.Context) {
	userID, _ := currentUserID(c)

	profile, err := a.profiles.Get(userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      profile,
		"health_goals": a.profiles.Goals(profile),
	})
}
