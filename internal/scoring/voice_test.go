package scoring

import (
	"math"
	"testing"
)

func sineWave(freq float64, sampleRate int, seconds, amplitude float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return samples
}

func TestAnalyzeVoiceTensionEmptyInput(t *testing.T) {
	analysis := AnalyzeVoiceTension(nil, 44100)

	if analysis.AnalysisSuccessful {
		t.Fatal("expected analysis_successful=false for empty input")
	}
	if analysis.TensionScore != 50.0 {
		t.Fatalf("expected neutral score 50, got %f", analysis.TensionScore)
	}
	if analysis.Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestAnalyzeVoiceTensionMalformedInput(t *testing.T) {
	samples := []float64{0.1, math.NaN(), 0.2}

	analysis := AnalyzeVoiceTension(samples, 44100)

	if analysis.AnalysisSuccessful {
		t.Fatal("expected analysis_successful=false for non-finite samples")
	}
	if analysis.TensionScore != 50.0 {
		t.Fatalf("expected neutral score 50, got %f", analysis.TensionScore)
	}
}

func TestAnalyzeVoiceTensionInvalidSampleRate(t *testing.T) {
	analysis := AnalyzeVoiceTension([]float64{0.1, 0.2}, 0)

	if analysis.AnalysisSuccessful || analysis.TensionScore != 50.0 {
		t.Fatalf("expected neutral fallback, got %+v", analysis)
	}
}

func TestAnalyzeVoiceTensionSineWave(t *testing.T) {
	samples := sineWave(220, 22050, 2.0, 0.2)

	analysis := AnalyzeVoiceTension(samples, 22050)

	if !analysis.AnalysisSuccessful {
		t.Fatalf("expected successful analysis, got error %s", analysis.Error)
	}
	if analysis.TensionScore < 0 || analysis.TensionScore > 100 {
		t.Fatalf("score out of range: %f", analysis.TensionScore)
	}

	// 纯正弦：RMS = A/sqrt(2)，每周期两次过零
	wantRMS := 0.2 / math.Sqrt2
	if math.Abs(analysis.Features.RMSEnergy-wantRMS) > 0.01 {
		t.Fatalf("expected rms near %f, got %f", wantRMS, analysis.Features.RMSEnergy)
	}
	wantZCR := 2 * 220.0 / 22050.0
	if math.Abs(analysis.Features.ZeroCrossingRate-wantZCR) > 0.005 {
		t.Fatalf("expected zcr near %f, got %f", wantZCR, analysis.Features.ZeroCrossingRate)
	}
	if analysis.Features.SpectralCentroid > 1000 {
		t.Fatalf("expected low centroid for 220Hz tone, got %f", analysis.Features.SpectralCentroid)
	}
}

func TestCalculateTensionScoreRuleCaps(t *testing.T) {
	// 每条规则都触顶：50+20+15+10+10+5+15 超过 100 后截断
	features := VoiceFeatures{
		PitchVariability: 80,
		Jitter:           0.05,
		Shimmer:          0.5,
		SpectralCentroid: 9000,
		ZeroCrossingRate: 0.3,
		RMSEnergy:        0.4,
	}

	if score := CalculateTensionScore(features); score != 100 {
		t.Fatalf("expected clamped score 100, got %f", score)
	}
}

func TestCalculateTensionScoreNeutralFeatures(t *testing.T) {
	features := VoiceFeatures{
		PitchVariability: 10,
		Jitter:           0.005,
		Shimmer:          0.05,
		SpectralCentroid: 1500,
		ZeroCrossingRate: 0.1,
		RMSEnergy:        0.1,
	}

	if score := CalculateTensionScore(features); score != 50 {
		t.Fatalf("expected neutral score 50, got %f", score)
	}
}

func TestCalculateTensionScorePartialContributions(t *testing.T) {
	features := VoiceFeatures{
		PitchVariability: 30,   // +5
		Jitter:           0.02, // +min(15, 20)=15
		SpectralCentroid: 3500, // +1
		RMSEnergy:        0.1,
	}

	// shimmer=0 且 zcr=0 不触发；rms 在正常区间
	want := 50.0 + 5 + 15 + 1
	if score := CalculateTensionScore(features); math.Abs(score-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, score)
	}
}

func TestInterpretTensionPartition(t *testing.T) {
	cases := []struct {
		score float64
		level string
	}{
		{0, "relaxed"},
		{30, "relaxed"},
		{30.01, "normal"},
		{50, "normal"},
		{70, "mild_stress"},
		{70.5, "high_stress"},
		{100, "high_stress"},
	}

	for _, tc := range cases {
		if got := InterpretTension(tc.score); got.Level != tc.level {
			t.Fatalf("InterpretTension(%f) = %s, want %s", tc.score, got.Level, tc.level)
		}
	}
}

func TestInterpretTensionIdempotent(t *testing.T) {
	first := InterpretTension(65)
	second := InterpretTension(65)
	if first != second {
		t.Fatal("InterpretTension must be a pure function")
	}
}

func TestVoiceRecommendationsTiers(t *testing.T) {
	if recs := VoiceRecommendations(80); len(recs) != 4 {
		t.Fatalf("expected 4 recommendations for high tension, got %d", len(recs))
	}
	if recs := VoiceRecommendations(60); len(recs) != 3 {
		t.Fatalf("expected 3 recommendations for moderate tension, got %d", len(recs))
	}
	if recs := VoiceRecommendations(20); len(recs) != 2 {
		t.Fatalf("expected 2 recommendations for relaxed voice, got %d", len(recs))
	}
	if recs := VoiceRecommendations(40); len(recs) != 0 {
		t.Fatalf("expected no recommendations in the normal band, got %d", len(recs))
	}
}
