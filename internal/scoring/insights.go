package scoring

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// 情感标签取值
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// 负向情感触发建议所需的最低置信度
const negativeConfidenceThreshold = 0.7

// SentimentClassifier 是可插拔的情感分类后端。
// 实现方返回标签（POSITIVE/NEGATIVE/NEUTRAL）与 [0,1] 的置信度；
// 任何失败都由调用方降级为中性结果，不向上传播。
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (label string, confidence float64, err error)
}

// Distortion 表示一次检测到的认知扭曲
type Distortion struct {
	Type           string `json:"type"`
	Description    string `json:"description"`
	MatchedPattern string `json:"matched_pattern"`
}

// Insights 汇总一条日记文本的全部派生信号
type Insights struct {
	Sentiment           string       `json:"sentiment"`
	SentimentConfidence float64      `json:"sentiment_confidence"`
	Emotion             string       `json:"emotion"`
	Distortions         []Distortion `json:"cognitive_distortions"`
	WordCount           int          `json:"word_count"`
	Themes              []string     `json:"themes"`
	Recommendations     []string     `json:"recommendations"`
}

// emotionCategory 的声明顺序即平局时的优先顺序
type emotionCategory struct {
	name     string
	keywords []string
}

var emotionCategories = []emotionCategory{
	{"joy", []string{"happy", "joy", "excited", "great", "wonderful", "amazing", "love", "fantastic"}},
	{"sadness", []string{"sad", "depressed", "unhappy", "miserable", "down", "blue", "heartbroken"}},
	{"anger", []string{"angry", "mad", "furious", "irritated", "annoyed", "frustrated", "hate"}},
	{"fear", []string{"scared", "afraid", "anxious", "worried", "nervous", "terrified", "panic"}},
	{"surprise", []string{"surprised", "shocked", "amazed", "astonished", "unexpected"}},
	{"disgust", []string{"disgusted", "gross", "repulsed", "sick", "hate", "awful"}},
}

type distortionPattern struct {
	name        string
	description string
	phrases     []string
	regexes     []*regexp.Regexp
}

var distortionPatterns = compileDistortions([]distortionPattern{
	{
		name:        "catastrophizing",
		description: "Expecting the worst possible outcome",
		phrases:     []string{"worst", "terrible", "disaster", "ruined", "end of the world", "never recover"},
	},
	{
		name:        "black_and_white",
		description: "All-or-nothing thinking",
		phrases:     []string{"always", "never", "everyone", "no one", "everything", "nothing"},
	},
	{
		name:        "mind_reading",
		description: "Assuming you know what others are thinking",
		phrases:     []string{"they think", "they must think", "everyone thinks", "they probably think"},
	},
	{
		name:        "should_statements",
		description: "Using 'should' statements to criticize yourself or others",
		phrases:     []string{"should have", "must have", "ought to", "have to"},
	},
	{
		name:        "overgeneralization",
		description: "Drawing broad conclusions from a single event",
		phrases:     []string{"this always happens", "i never", "every time", "nothing ever"},
	},
})

func compileDistortions(patterns []distortionPattern) []distortionPattern {
	for i := range patterns {
		for _, phrase := range patterns[i].phrases {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
			patterns[i].regexes = append(patterns[i].regexes, re)
		}
	}
	return patterns
}

// themeBucket 的声明顺序决定输出顺序
type themeBucket struct {
	name     string
	keywords []string
}

var themeBuckets = []themeBucket{
	{"work-related", []string{"work", "job", "career", "boss", "colleague"}},
	{"family/relationships", []string{"family", "parent", "child", "spouse", "relationship"}},
	{"health concerns", []string{"health", "sick", "pain", "doctor", "medicine"}},
	{"stress/anxiety", []string{"stress", "anxious", "worried", "overwhelmed"}},
	{"sleep/fatigue", []string{"sleep", "tired", "exhausted", "rest"}},
}

// ClassifySentiment 调用分类器并处理退化情况：
// 空白文本直接返回 (NEUTRAL, 0.5)，不触发分类器；
// 分类器缺失或出错时同样退回 (NEUTRAL, 0.5)。
func ClassifySentiment(ctx context.Context, text string, clf SentimentClassifier) (string, float64) {
	if strings.TrimSpace(text) == "" {
		return SentimentNeutral, 0.5
	}
	if clf == nil {
		return SentimentNeutral, 0.5
	}

	label, confidence, err := clf.Classify(ctx, text)
	if err != nil {
		return SentimentNeutral, 0.5
	}

	switch label {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return label, confidence
	default:
		return SentimentNeutral, 0.5
	}
}

// DetectEmotion 用关键词计数法在六类情绪中选出得分最高的一类。
// 平局时取声明顺序靠前的类别；无任何命中时返回 neutral。
func DetectEmotion(text string) string {
	if text == "" {
		return "neutral"
	}

	lower := strings.ToLower(text)

	best := "neutral"
	bestCount := 0
	for _, cat := range emotionCategories {
		count := 0
		for _, keyword := range cat.keywords {
			if strings.Contains(lower, keyword) {
				count++
			}
		}
		if count > bestCount {
			best = cat.name
			bestCount = count
		}
	}

	return best
}

// DetectDistortions 对五种认知扭曲逐一做大小写不敏感的词边界匹配。
// 同一种扭曲即使多个短语命中也只记一次，记录首个命中的短语。
func DetectDistortions(text string) []Distortion {
	detected := []Distortion{}
	lower := strings.ToLower(text)

	for _, p := range distortionPatterns {
		for i, re := range p.regexes {
			if re.MatchString(lower) {
				detected = append(detected, Distortion{
					Type:           p.name,
					Description:    p.description,
					MatchedPattern: p.phrases[i],
				})
				break
			}
		}
	}

	return detected
}

// DetectThemes 做相互独立的主题桶检测，输出顺序与桶的声明顺序一致
func DetectThemes(text string) []string {
	themes := []string{}
	lower := strings.ToLower(text)

	for _, bucket := range themeBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(lower, keyword) {
				themes = append(themes, bucket.name)
				break
			}
		}
	}

	return themes
}

// ExtractInsights 对一条日记文本生成完整的结构化洞察。
// 空白文本直接返回零值结果（word_count=0、emotion=neutral、各列表为空）。
func ExtractInsights(ctx context.Context, text string, clf SentimentClassifier) Insights {
	insights := Insights{
		Sentiment:       SentimentNeutral,
		Emotion:         "neutral",
		Distortions:     []Distortion{},
		Themes:          []string{},
		Recommendations: []string{},
	}

	if strings.TrimSpace(text) == "" {
		return insights
	}

	insights.WordCount = len(strings.Fields(text))
	insights.Sentiment, insights.SentimentConfidence = ClassifySentiment(ctx, text, clf)
	insights.Emotion = DetectEmotion(text)
	insights.Distortions = DetectDistortions(text)
	insights.Themes = DetectThemes(text)
	insights.Recommendations = buildRecommendations(insights)

	return insights
}

// buildRecommendations 按固定的决策表输出建议。
// 每条规则独立判断，命中即追加对应的固定文案。
func buildRecommendations(insights Insights) []string {
	recommendations := []string{}

	hasTheme := func(name string) bool {
		for _, t := range insights.Themes {
			if t == name {
				return true
			}
		}
		return false
	}

	if insights.Sentiment == SentimentNegative && insights.SentimentConfidence > negativeConfidenceThreshold {
		recommendations = append(recommendations, "Consider practicing mindfulness or deep breathing exercises")
		if hasTheme("stress/anxiety") {
			recommendations = append(recommendations, "Try progressive muscle relaxation before bed")
		}
	}

	if insights.Emotion == "anger" {
		recommendations = append(recommendations, "Consider journaling about what specifically triggered this anger")
	}

	if len(insights.Distortions) > 0 {
		recommendations = append(recommendations, "Notice any 'all-or-nothing' thinking patterns and challenge them")
	}

	if hasTheme("sleep/fatigue") && insights.Sentiment == SentimentNegative {
		recommendations = append(recommendations, "Establish a consistent bedtime routine")
	}

	return recommendations
}

// SummarizeEntries 汇总多条日记，输出情感占比、主导情绪与高频主题的叙述。
func SummarizeEntries(ctx context.Context, entries []string, clf SentimentClassifier) string {
	if len(entries) == 0 {
		return "No entries to summarize."
	}

	positive, negative := 0, 0
	emotionCounts := map[string]int{}
	themeCounts := map[string]int{}

	for _, entry := range entries {
		insights := ExtractInsights(ctx, entry, clf)
		switch insights.Sentiment {
		case SentimentPositive:
			positive++
		case SentimentNegative:
			negative++
		}
		emotionCounts[insights.Emotion]++
		for _, theme := range insights.Themes {
			themeCounts[theme]++
		}
	}

	parts := []string{fmt.Sprintf("Summary of %d journal entries:", len(entries))}

	switch {
	case positive > negative:
		parts = append(parts, "Overall positive sentiment")
	case negative > positive:
		parts = append(parts, "Overall negative sentiment")
	default:
		parts = append(parts, "Mixed sentiment")
	}

	parts = append(parts, "Common emotional tone: "+topCount(emotionCounts))

	topThemes := topCounts(themeCounts, 3)
	if len(topThemes) > 0 {
		parts = append(parts, "Frequent themes: "+strings.Join(topThemes, ", "))
	}

	return strings.Join(parts, ". ")
}

func topCount(counts map[string]int) string {
	best := "neutral"
	bestCount := 0
	for _, name := range sortedKeys(counts) {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}

func topCounts(counts map[string]int, limit int) []string {
	names := sortedKeys(counts)
	sort.SliceStable(names, func(i, j int) bool {
		return counts[names[i]] > counts[names[j]]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
