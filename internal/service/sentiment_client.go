package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mindfulme/internal/logger"
	"github.com/mindfulme/internal/scoring"
)

// ErrSentimentNotConfigured 在未配置推理服务地址时返回
var ErrSentimentNotConfigured = errors.New("sentiment backend not configured")

// 分类前截断到模型输入上限
const maxSentimentInputRunes = 512

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type sentimentRequest struct {
	Inputs string `json:"inputs"`
}

type sentimentScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentClient 通过 HTTP 调用文本分类推理服务
// （默认模型为 DistilBERT SST-2），实现 scoring.SentimentClassifier。
// 进程启动时构造一次并注入各服务，而不是每次调用时初始化。
type SentimentClient struct {
	http     httpDoer
	baseURL  string
	apiKey   string
	model    string
	warnOnce sync.Once
}

// NewSentimentClient 构造 SentimentClient。
// baseURL 为空表示后端未配置，Classify 将返回 ErrSentimentNotConfigured，
// 由调用方降级为中性结果。
func NewSentimentClient(baseURL, apiKey, model string, timeout time.Duration) *SentimentClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SentimentClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (c *SentimentClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
		return
	}
	c.http = client
}

// Classify 调用推理服务并返回情感标签与置信度。
// 后端不可用只在首次记录一条日志，之后静默返回错误由上层降级。
func (c *SentimentClient) Classify(ctx context.Context, text string) (string, float64, error) {
	if c.baseURL == "" {
		c.warnOnce.Do(func() {
			logger.L.Warnw("sentiment backend not configured, journal sentiment falls back to neutral")
		})
		return "", 0, ErrSentimentNotConfigured
	}

	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) > maxSentimentInputRunes {
		trimmed = string(runes[:maxSentimentInputRunes])
	}

	body, err := json.Marshal(sentimentRequest{Inputs: trimmed})
	if err != nil {
		return "", 0, fmt.Errorf("encode request: %w", err)
	}

	endpoint := c.baseURL + "/models/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create sentiment request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "mindfulme/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		c.warnOnce.Do(func() {
			logger.L.Warnw("sentiment backend unreachable, falling back to neutral", "error", err)
		})
		return "", 0, fmt.Errorf("call sentiment backend: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", 0, fmt.Errorf("read sentiment response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", 0, fmt.Errorf("sentiment backend returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	// 推理服务返回每个候选标签的得分，取最高者
	var predictions [][]sentimentScore
	if err := json.Unmarshal(respBody, &predictions); err != nil {
		return "", 0, fmt.Errorf("parse sentiment response: %w", err)
	}
	if len(predictions) == 0 || len(predictions[0]) == 0 {
		return "", 0, errors.New("sentiment backend returned no predictions")
	}

	best := predictions[0][0]
	for _, candidate := range predictions[0][1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	label := strings.ToUpper(strings.TrimSpace(best.Label))
	switch label {
	case scoring.SentimentPositive, scoring.SentimentNegative, scoring.SentimentNeutral:
		return label, best.Score, nil
	default:
		return "", 0, fmt.Errorf("unknown sentiment label %q", best.Label)
	}
}
