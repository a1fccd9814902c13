package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mindfulme/internal/scoring"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ReportService 负责生成周报并渲染为可直接展示的 HTML
type ReportService struct {
	analytics  *AnalyticsService
	logs       *DailyLogService
	classifier scoring.SentimentClassifier
	md         goldmark.Markdown
	policy     *bluemonday.Policy
}

// WeeklyReportView 是周报接口的完整响应
type WeeklyReportView struct {
	Report         scoring.WeeklyReport     `json:"report"`
	BurnoutScore   float64                  `json:"burnout_score"`
	BurnoutMessage string                   `json:"burnout_message"`
	BurnoutColor   string                   `json:"burnout_color"`
	JournalSummary string                   `json:"journal_summary"`
	HTML           string                   `json:"html"`
}

// NewReportService 构造 ReportService
func NewReportService(analytics *AnalyticsService, logs *DailyLogService, classifier scoring.SentimentClassifier) *ReportService {
	return &ReportService{
		analytics:  analytics,
		logs:       logs,
		classifier: classifier,
		md:         goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:     bluemonday.UGCPolicy(),
	}
}

// WeeklyReport 组合分析结果生成周报：心情小结、成就、建议、
// 日记摘要，以及渲染净化后的 HTML 版本。
func (s *ReportService) WeeklyReport(ctx context.Context, userID uint, now time.Time) (*WeeklyReportView, error) {
	analytics, err := s.analytics.UserAnalytics(userID, now)
	if err != nil {
		return nil, err
	}

	report := scoring.BuildWeeklyReport(analytics.WeeklyMoodAvg, analytics.TotalJournals, analytics.BurnoutScore)
	level := scoring.BurnoutLevel(analytics.BurnoutScore)

	weekLogs, err := s.logs.ListRange(userID, now.AddDate(0, 0, -6), now)
	if err != nil {
		return nil, err
	}
	entries := make([]string, 0, len(weekLogs))
	for _, log := range weekLogs {
		if log.JournalText != "" {
			entries = append(entries, log.JournalText)
		}
	}

	view := &WeeklyReportView{
		Report:         report,
		BurnoutScore:   analytics.BurnoutScore,
		BurnoutMessage: level.Message,
		BurnoutColor:   level.Color,
		JournalSummary: scoring.SummarizeEntries(ctx, entries, s.classifier),
	}

	html, err := s.renderHTML(view)
	if err != nil {
		return nil, err
	}
	view.HTML = html

	return view, nil
}

// renderHTML 把周报拼为 Markdown，经 goldmark 渲染后用 bluemonday 净化
func (s *ReportService) renderHTML(view *WeeklyReportView) (string, error) {
	var md strings.Builder
	md.WriteString("## Weekly Report (" + view.Report.Period + ")\n\n")
	md.WriteString("**Mood: " + view.Report.MoodSummary.Level + "** — " + view.Report.MoodSummary.Message + "\n\n")
	md.WriteString(view.BurnoutMessage + "\n")

	if len(view.Report.Achievements) > 0 {
		md.WriteString("\n### Achievements\n\n")
		for _, achievement := range view.Report.Achievements {
			md.WriteString("- " + achievement + "\n")
		}
	}

	if len(view.Report.Recommendations) > 0 {
		md.WriteString("\n### Recommendations\n\n")
		for _, recommendation := range view.Report.Recommendations {
			md.WriteString("- " + recommendation + "\n")
		}
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(md.String()), &buf); err != nil {
		return "", fmt.Errorf("render report markdown: %w", err)
	}

	return string(s.policy.SanitizeBytes(buf.Bytes())), nil
}
