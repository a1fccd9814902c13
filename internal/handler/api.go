package handler

import (
	"github.com/mindfulme/internal/scoring"
	"github.com/mindfulme/internal/service"
	"gorm.io/gorm"
)

// API 汇集各 HTTP 处理器共享的服务依赖
type API struct {
	db          *gorm.DB
	auth        *service.AuthService
	profiles    *service.ProfileService
	assessments *service.AssessmentService
	logs        *service.DailyLogService
	voice       *service.VoiceService
	analytics   *service.AnalyticsService
	reports     *service.ReportService
}

// NewAPI 构造处理器集合。classifier 进程级别只构造一次，
// 由 main 注入，而不是每个请求重新创建。
func NewAPI(gdb *gorm.DB, classifier scoring.SentimentClassifier, recordingDir string) *API {
	logs := service.NewDailyLogService(gdb, classifier)
	analytics := service.NewAnalyticsService(gdb)

	return &API{
		db:          gdb,
		auth:        service.NewAuthService(gdb),
		profiles:    service.NewProfileService(gdb),
		assessments: service.NewAssessmentService(gdb),
		logs:        logs,
		voice:       service.NewVoiceService(gdb, logs, recordingDir),
		analytics:   analytics,
		reports:     service.NewReportService(analytics, logs, classifier),
	}
}
