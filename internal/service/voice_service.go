package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/mindfulme/internal/db"
	"github.com/mindfulme/internal/logger"
	"github.com/mindfulme/internal/scoring"
	"gorm.io/gorm"
)

// VoiceService 负责语音上传的解码、紧张度分析与结果落库
type VoiceService struct {
	db           *gorm.DB
	logs         *DailyLogService
	recordingDir string
}

// VoiceResult 汇总一次语音分析的输出
type VoiceResult struct {
	RecordingID     string                        `json:"recording_id"`
	Analysis        scoring.VoiceAnalysis         `json:"analysis"`
	Interpretation  scoring.TensionInterpretation `json:"interpretation"`
	Recommendations []string                      `json:"recommendations"`
}

// NewVoiceService 构造 VoiceService。
// recordingDir 为空时不落盘音频，只保留分析结论。
func NewVoiceService(gdb *gorm.DB, logs *DailyLogService, recordingDir string) *VoiceService {
	return &VoiceService{db: gdb, logs: logs, recordingDir: recordingDir}
}

// AnalyzeUpload 解码 WAV 音频并完成完整的紧张度分析流程。
// 解码或分析失败不会返回错误，而是产出中性回退结果；
// 只有分析成功时才把 vocal_tension 写入当天日志。
func (s *VoiceService) AnalyzeUpload(userID uint, date time.Time, r io.ReadSeeker, fileName string) (*VoiceResult, error) {
	samples, sampleRate, decodeErr := decodeWAV(r)

	var analysis scoring.VoiceAnalysis
	if decodeErr != nil {
		analysis = scoring.VoiceAnalysis{
			TensionScore:       50.0,
			AnalysisSuccessful: false,
			Error:              decodeErr.Error(),
		}
	} else {
		analysis = scoring.AnalyzeVoiceTension(samples, sampleRate)
	}

	recordingID := uuid.NewString()
	duration := 0.0
	if sampleRate > 0 {
		duration = float64(len(samples)) / float64(sampleRate)
	}

	if s.recordingDir != "" {
		if err := s.persistAudio(r, recordingID); err != nil {
			logger.L.Warnw("failed to persist recording audio",
				"user_id", userID, "recording_id", recordingID, "error", err)
		}
	}

	recording := db.VoiceRecording{
		UserID:          userID,
		RecordingID:     recordingID,
		FileName:        fileName,
		SampleRate:      sampleRate,
		DurationSeconds: duration,
		TensionScore:    analysis.TensionScore,
		Analyzed:        analysis.AnalysisSuccessful,
	}
	if err := s.db.Create(&recording).Error; err != nil {
		return nil, fmt.Errorf("save voice recording: %w", err)
	}

	if analysis.AnalysisSuccessful {
		tension := analysis.TensionScore
		if _, err := s.logs.Upsert(userID, date, DailyLogPatch{VocalTension: &tension}); err != nil {
			return nil, err
		}
	} else {
		logger.L.Warnw("voice analysis failed, keeping neutral score",
			"user_id", userID, "recording_id", recordingID, "error", analysis.Error)
	}

	return &VoiceResult{
		RecordingID:     recordingID,
		Analysis:        analysis,
		Interpretation:  scoring.InterpretTension(analysis.TensionScore),
		Recommendations: scoring.VoiceRecommendations(analysis.TensionScore),
	}, nil
}

// persistAudio 把上传的原始音频按 RecordingID 命名写入磁盘
func (s *VoiceService) persistAudio(r io.ReadSeeker, recordingID string) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind audio: %w", err)
	}

	if err := os.MkdirAll(s.recordingDir, 0o755); err != nil {
		return fmt.Errorf("create recording dir: %w", err)
	}

	path := filepath.Join(s.recordingDir, recordingID+".wav")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write recording file: %w", err)
	}
	return nil
}

// decodeWAV 将 WAV 音频解码为单声道浮点波形。
// 多声道时只取首个声道。
func decodeWAV(r io.ReadSeeker) ([]float64, int, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("empty audio data")
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		samples = append(samples, float64(buf.Data[i])/scale)
	}

	return samples, buf.Format.SampleRate, nil
}
