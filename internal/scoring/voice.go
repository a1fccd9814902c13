package scoring

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	voiceFrameLength = 2048
	voiceHopLength   = 512

	// 音高提取限制在 C2-C7 的人声范围
	pitchMinHz = 65.41
	pitchMaxHz = 2093.0

	// 有效分析所需的最少浊音帧数
	minVoicedFrames = 10

	// 归一化自相关峰值低于该阈值的帧视为清音
	voicedPeakThreshold = 0.3

	// 幅度扰动（shimmer）分析所需的最少采样数
	minShimmerSamples = 1000

	neutralTensionScore = 50.0
)

// VoiceFeatures 是从波形中提取的声学特征
type VoiceFeatures struct {
	PitchVariability float64 `json:"pitch_variability"`
	Jitter           float64 `json:"jitter"`
	Shimmer          float64 `json:"shimmer"`
	SpectralCentroid float64 `json:"spectral_centroid"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
	RMSEnergy        float64 `json:"rms_energy"`
}

// VoiceAnalysis 是一次语音紧张度分析的完整结果。
// 任何失败都不会向调用方抛错，而是返回中性分 50 并置
// AnalysisSuccessful=false 与错误说明。
type VoiceAnalysis struct {
	TensionScore       float64       `json:"tension_score"`
	Features           VoiceFeatures `json:"features"`
	AnalysisSuccessful bool          `json:"analysis_successful"`
	Error              string        `json:"error,omitempty"`
}

// TensionInterpretation 是紧张度分数的分段解读
type TensionInterpretation struct {
	Level   string `json:"level"`
	Label   string `json:"label"`
	Message string `json:"message"`
	Color   string `json:"color"`
}

// AnalyzeVoiceTension 从单声道浮点波形计算 0-100 的声音紧张度。
// 输入为空、采样率非法或包含非有限值时返回中性回退结果。
func AnalyzeVoiceTension(samples []float64, sampleRate int) VoiceAnalysis {
	if len(samples) == 0 {
		return failedAnalysis("empty audio data")
	}
	if sampleRate <= 0 {
		return failedAnalysis("invalid sample rate")
	}
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return failedAnalysis("audio contains non-finite samples")
		}
	}

	features := ExtractVoiceFeatures(samples, sampleRate)

	return VoiceAnalysis{
		TensionScore:       CalculateTensionScore(features),
		Features:           features,
		AnalysisSuccessful: true,
	}
}

func failedAnalysis(reason string) VoiceAnalysis {
	return VoiceAnalysis{
		TensionScore:       neutralTensionScore,
		AnalysisSuccessful: false,
		Error:              reason,
	}
}

// ExtractVoiceFeatures 提取紧张度分析所需的全部声学特征。
// 浊音帧不足 10 帧时音高派生特征保持为 0。
func ExtractVoiceFeatures(samples []float64, sampleRate int) VoiceFeatures {
	var features VoiceFeatures

	f0 := pitchTrack(samples, sampleRate)
	if len(f0) > minVoicedFrames {
		mean := meanOf(f0)
		if mean > 0 {
			features.PitchVariability = stddevOf(f0, mean) / mean * 100
			features.Jitter = meanAbsDiff(f0) / mean
		}
	}

	if len(samples) > minShimmerSamples {
		amplitude := make([]float64, len(samples))
		for i, s := range samples {
			amplitude[i] = math.Abs(s)
		}
		if meanAmp := meanOf(amplitude); meanAmp > 0 {
			features.Shimmer = meanAbsDiff(amplitude) / meanAmp
		}
	}

	features.SpectralCentroid = spectralCentroid(samples, sampleRate)
	features.ZeroCrossingRate = zeroCrossingRate(samples)
	features.RMSEnergy = rmsEnergy(samples)

	return features
}

// CalculateTensionScore 以 50 为中性起点，按独立的加法规则累加，
// 每条规则单独封顶，总分截断到 [0,100]。
func CalculateTensionScore(features VoiceFeatures) float64 {
	score := neutralTensionScore

	// 音高波动过大或过于单调都提示紧张
	pv := features.PitchVariability
	if pv > 20 {
		score += math.Min(20, (pv-20)/2)
	} else if pv < 5 {
		score += 10
	}

	if features.Jitter > 0.01 {
		score += math.Min(15, features.Jitter*1000)
	}

	if features.Shimmer > 0.1 {
		score += math.Min(10, features.Shimmer*50)
	}

	if features.SpectralCentroid > 3000 {
		score += math.Min(10, (features.SpectralCentroid-3000)/500)
	}

	if features.ZeroCrossingRate > 0.15 {
		score += math.Min(5, (features.ZeroCrossingRate-0.15)*100)
	}

	// 过轻与过响互斥（阈值不重叠）
	if features.RMSEnergy < 0.05 {
		score += 10
	} else if features.RMSEnergy > 0.3 {
		score += 15
	}

	return math.Max(0, math.Min(100, score))
}

// InterpretTension 将紧张度分数映射为闭上界的四档解读，纯函数。
func InterpretTension(score float64) TensionInterpretation {
	switch {
	case score <= 30:
		return TensionInterpretation{
			Level:   "relaxed",
			Label:   "Relaxed",
			Message: "Your voice sounds relaxed and calm.",
			Color:   ColorSuccessGreen,
		}
	case score <= 50:
		return TensionInterpretation{
			Level:   "normal",
			Label:   "Normal",
			Message: "Your voice sounds normal with moderate tension.",
			Color:   ColorAccentTeal,
		}
	case score <= 70:
		return TensionInterpretation{
			Level:   "mild_stress",
			Label:   "Mild Stress",
			Message: "Your voice shows signs of mild stress. Consider relaxation techniques.",
			Color:   ColorWarningOrange,
		}
	default:
		return TensionInterpretation{
			Level:   "high_stress",
			Label:   "High Stress",
			Message: "Your voice indicates high stress levels. Please consider professional support.",
			Color:   ColorErrorRed,
		}
	}
}

// VoiceRecommendations 根据紧张度分数输出建议列表
func VoiceRecommendations(score float64) []string {
	switch {
	case score > 70:
		return []string{
			"Practice deep breathing exercises before speaking",
			"Consider vocal warm-up exercises",
			"Take breaks during stressful conversations",
			"Stay hydrated to maintain vocal health",
		}
	case score > 50:
		return []string{
			"Try relaxation techniques like progressive muscle relaxation",
			"Practice mindfulness meditation",
			"Ensure adequate rest and sleep",
		}
	case score < 30:
		return []string{
			"Your voice sounds relaxed - keep up the good work!",
			"Continue practicing stress management techniques",
		}
	default:
		return []string{}
	}
}

// pitchTrack 逐帧做归一化自相关求基频，仅保留浊音帧。
func pitchTrack(samples []float64, sampleRate int) []float64 {
	lagMin := int(float64(sampleRate) / pitchMaxHz)
	lagMax := int(float64(sampleRate) / pitchMinHz)
	if lagMin < 2 {
		lagMin = 2
	}

	var track []float64
	for start := 0; start+voiceFrameLength <= len(samples); start += voiceHopLength {
		frame := samples[start : start+voiceFrameLength]
		if f0, ok := framePitch(frame, sampleRate, lagMin, lagMax); ok {
			track = append(track, f0)
		}
	}
	return track
}

func framePitch(frame []float64, sampleRate, lagMin, lagMax int) (float64, bool) {
	if lagMax >= len(frame) {
		lagMax = len(frame) - 1
	}
	if lagMin >= lagMax {
		return 0, false
	}

	var r0 float64
	for _, s := range frame {
		r0 += s * s
	}
	if r0 == 0 {
		return 0, false
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := lagMin; lag <= lagMax; lag++ {
		var corr float64
		for i := 0; i+lag < len(frame); i++ {
			corr += frame[i] * frame[i+lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr/r0 < voicedPeakThreshold {
		return 0, false
	}

	f0 := float64(sampleRate) / float64(bestLag)
	if f0 < pitchMinHz || f0 > pitchMaxHz {
		return 0, false
	}
	return f0, true
}

// spectralCentroid 对信号做加 Hann 窗的短时傅里叶分析，
// 返回各帧幅度加权频率重心的平均值。
func spectralCentroid(samples []float64, sampleRate int) float64 {
	fft := fourier.NewFFT(voiceFrameLength)
	window := hannWindow(voiceFrameLength)
	buf := make([]float64, voiceFrameLength)

	// 信号短于一帧时补零成单帧
	starts := []int{0}
	if len(samples) >= voiceFrameLength {
		starts = starts[:0]
		for s := 0; s+voiceFrameLength <= len(samples); s += voiceHopLength {
			starts = append(starts, s)
		}
	}

	var sum float64
	frames := 0
	for _, start := range starts {
		for i := range buf {
			if start+i < len(samples) {
				buf[i] = samples[start+i] * window[i]
			} else {
				buf[i] = 0
			}
		}

		coeffs := fft.Coefficients(nil, buf)
		var weighted, magnitude float64
		for k, c := range coeffs {
			mag := math.Hypot(real(c), imag(c))
			freq := float64(k) * float64(sampleRate) / float64(voiceFrameLength)
			weighted += freq * mag
			magnitude += mag
		}
		if magnitude > 0 {
			sum += weighted / magnitude
			frames++
		}
	}

	if frames == 0 {
		return 0
	}
	return sum / float64(frames)
}

func hannWindow(n int) []float64 {
	window := make([]float64, n)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return window
}

func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

func rmsEnergy(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddevOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)))
}

func meanAbsDiff(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(values); i++ {
		sum += math.Abs(values[i] - values[i-1])
	}
	return sum / float64(len(values)-1)
}
