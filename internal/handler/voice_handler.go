package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// 上传音频大小上限（10MB），约等于 22.05kHz 16bit 单声道四分钟
const maxVoiceUploadBytes = 10 << 20

// UploadVoice 接收 multipart 上传的 WAV 音频并返回紧张度分析。
// 表单字段名为 audio，可选 date 查询参数指定记录日期。
func (a *API) UploadVoice(c *gin.Context) {
	userID, _ := currentUserID(c)

	date, ok := queryDate(c, "date")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		respondError(c, http.StatusBadRequest, "audio file is required")
		return
	}
	if fileHeader.Size > maxVoiceUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "audio file exceeds 10MB limit")
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".wav") {
		respondError(c, http.StatusBadRequest, "only wav files are supported")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer file.Close()

	result, err := a.voice.AnalyzeUpload(userID, date, file, fileHeader.Filename)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to analyze recording")
		return
	}

	c.JSON(http.StatusOK, result)
}
