package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mindfulme/internal/scoring"
	"github.com/mindfulme/internal/service"
)

type assessmentPayload struct {
	PHQ9Responses map[int]int `json:"phq9_responses"`
	GAD7Responses map[int]int `json:"gad7_responses"`
}

// GetQuestionnaires 返回两份量表的题目与选项
func (a *API) GetQuestionnaires(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"phq9": gin.H{
			"name":      scoring.PHQ9.Name,
			"questions": scoring.PHQ9.Questions,
			"max_score": scoring.PHQ9.MaxScore,
		},
		"gad7": gin.H{
			"name":      scoring.GAD7.Name,
			"questions": scoring.GAD7.Questions,
			"max_score": scoring.GAD7.MaxScore,
		},
		"response_options": scoring.ResponseOptions,
	})
}

// SubmitAssessment 提交两份量表的答题并返回计分结果
func (a *API) SubmitAssessment(c *gin.Context) {
	userID, _ := currentUserID(c)

	var payload assessmentPayload
	if !bindJSON(c, &payload, "invalid assessment payload") {
		return
	}

	result, err := a.assessments.Submit(userID, service.AssessmentInput{
		PHQ9Responses: payload.PHQ9Responses,
		GAD7Responses: payload.GAD7Responses,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBaseline 返回最近一次测评的基线
func (a *API) GetBaseline(c *gin.Context) {
	userID, _ := currentUserID(c)

	baseline, err := a.assessments.Latest(userID)
	if err != nil {
		if errors.Is(err, service.ErrBaselineNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load baseline")
		return
	}

	c.JSON(http.StatusOK, baseline)
}
