package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindfulme/internal/service"
)

type moodPayload struct {
	Date      string `json:"date"`
	MoodScore int    `json:"mood_score"`
}

type journalPayload struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type sleepPayload struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// payloadDate 解析请求体中的日期字段，缺省为当天
func payloadDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now(), true
	}
	parsed, err := time.Parse(dateFormat, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return parsed, true
}

// SaveMood 记录当天心情分
func (a *API) SaveMood(c *gin.Context) {
	userID, _ := currentUserID(c)

	var payload moodPayload
	if !bindJSON(c, &payload, "invalid mood payload") {
		return
	}
	date, ok := payloadDate(c, payload.Date)
	if !ok {
		return
	}

	record, err := a.logs.SaveMood(userID, date, payload.MoodScore)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, record)
}

// SaveJournal 写入当天日记并返回文本洞察
func (a *API) SaveJournal(c *gin.Context) {
	userID, _ := currentUserID(c)

	var payload journalPayload
	if !bindJSON(c, &payload, "invalid journal payload") {
		return
	}
	date, ok := payloadDate(c, payload.Date)
	if !ok {
		return
	}

	record, insights, err := a.logs.SaveJournal(c.Request.Context(), userID, date, payload.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyJournal) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to save journal")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"log":      record,
		"insights": insights,
	})
}

// SaveSleep 记录当天睡眠时长
func (a *API) SaveSleep(c *gin.Context) {
	userID, _ := currentUserID(c)

	var payload sleepPayload
	if !bindJSON(c, &payload, "invalid sleep payload") {
		return
	}
	date, ok := payloadDate(c, payload.Date)
	if !ok {
		return
	}

	record, err := a.logs.SaveSleep(userID, date, payload.Hours)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetDailyLog 返回某天的日志，date 查询参数缺省为当天
func (a *API) GetDailyLog(c *gin.Context) {
	userID, _ := currentUserID(c)

	date, ok := queryDate(c, "date")
	if !ok {
		return
	}

	record, err := a.logs.Get(userID, date)
	if err != nil {
		if errors.Is(err, service.ErrDailyLogNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load daily log")
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListDailyLogs 返回闭区间 [start, end] 内的日志
func (a *API) ListDailyLogs(c *gin.Context) {
	userID, _ := currentUserID(c)

	start, err := time.Parse(dateFormat, c.Query("start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateFormat, c.Query("end"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return
	}

	logs, err := a.logs.ListRange(userID, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list daily logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// RecentJournals 返回最近的日记，limit 查询参数缺省为 5
func (a *API) RecentJournals(c *gin.Context) {
	userID, _ := currentUserID(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := a.logs.RecentJournals(userID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list journals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"journals": logs})
}
