package service

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mindfulme/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupVoiceTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.DailyLog{}, &db.VoiceRecording{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

// writeTestWAV 生成 16bit 单声道正弦波 WAV 文件并返回路径
func writeTestWAV(t *testing.T, freq float64, sampleRate int, duration float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create wav file: %v", err)
	}
	defer f.Close()

	total := int(float64(sampleRate) * duration)
	data := make([]int, total)
	for i := range data {
		value := 0.4 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		data[i] = int(value * 32767)
	}

	encoder := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := encoder.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}); err != nil {
		t.Fatalf("failed to write wav data: %v", err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("failed to finalize wav file: %v", err)
	}

	return path
}

func TestVoiceServiceAnalyzeUpload(t *testing.T) {
	cleanup := setupVoiceTestDB(t)
	defer cleanup()

	logs := NewDailyLogService(db.DB, nil)
	recordingDir := t.TempDir()
	svc := NewVoiceService(db.DB, logs, recordingDir)

	path := writeTestWAV(t, 220, 22050, 2.0)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open wav file: %v", err)
	}
	defer f.Close()

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	result, err := svc.AnalyzeUpload(3, day, f, "sample.wav")
	if err != nil {
		t.Fatalf("AnalyzeUpload returned error: %v", err)
	}

	if result.RecordingID == "" {
		t.Fatal("expected recording ID")
	}
	if !result.Analysis.AnalysisSuccessful {
		t.Fatalf("expected successful analysis, got error %q", result.Analysis.Error)
	}
	if result.Analysis.TensionScore < 0 || result.Analysis.TensionScore > 100 {
		t.Fatalf("tension score out of range: %f", result.Analysis.TensionScore)
	}
	if result.Interpretation.Level == "" {
		t.Fatal("expected tension interpretation")
	}

	var recording db.VoiceRecording
	if err := db.DB.Where("recording_id = ?", result.RecordingID).First(&recording).Error; err != nil {
		t.Fatalf("expected recording row: %v", err)
	}
	if recording.SampleRate != 22050 {
		t.Fatalf("unexpected sample rate: %d", recording.SampleRate)
	}
	if math.Abs(recording.DurationSeconds-2.0) > 0.05 {
		t.Fatalf("unexpected duration: %f", recording.DurationSeconds)
	}
	if !recording.Analyzed {
		t.Fatal("expected recording marked analyzed")
	}

	record, err := logs.Get(3, day)
	if err != nil {
		t.Fatalf("expected daily log with vocal tension: %v", err)
	}
	if record.VocalTension == nil {
		t.Fatal("expected vocal tension stored on daily log")
	}
	if *record.VocalTension != result.Analysis.TensionScore {
		t.Fatalf("stored tension %f does not match analysis %f", *record.VocalTension, result.Analysis.TensionScore)
	}

	if _, err := os.Stat(filepath.Join(recordingDir, result.RecordingID+".wav")); err != nil {
		t.Fatalf("expected audio persisted by recording ID: %v", err)
	}
}

func TestVoiceServiceInvalidAudioFallsBackToNeutral(t *testing.T) {
	cleanup := setupVoiceTestDB(t)
	defer cleanup()

	logs := NewDailyLogService(db.DB, nil)
	svc := NewVoiceService(db.DB, logs, "")

	day := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	result, err := svc.AnalyzeUpload(3, day, bytes.NewReader([]byte("not a wav file")), "broken.wav")
	if err != nil {
		t.Fatalf("AnalyzeUpload returned error: %v", err)
	}

	if result.Analysis.AnalysisSuccessful {
		t.Fatal("expected analysis failure for invalid audio")
	}
	if result.Analysis.TensionScore != 50 {
		t.Fatalf("expected neutral tension score, got %f", result.Analysis.TensionScore)
	}
	if result.Analysis.Error == "" {
		t.Fatal("expected error detail in analysis")
	}

	var recording db.VoiceRecording
	if err := db.DB.Where("recording_id = ?", result.RecordingID).First(&recording).Error; err != nil {
		t.Fatalf("expected recording row even on failure: %v", err)
	}
	if recording.Analyzed {
		t.Fatal("expected recording marked not analyzed")
	}

	// 失败的分析不应写入当天日志
	if _, err := logs.Get(3, day); err == nil {
		t.Fatal("expected no daily log entry after failed analysis")
	}
}
