package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindfulme/internal/config"
	"github.com/mindfulme/internal/db"
	"github.com/mindfulme/internal/handler"
	"github.com/mindfulme/internal/logger"
	"github.com/mindfulme/internal/router"
	"github.com/mindfulme/internal/service"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogDir); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.L.Fatalw("failed to initialize database", "error", err)
	}

	gin.SetMode(cfg.GinMode)

	// 情感分类客户端进程内只构造一次，未配置时日记分析退回中性
	classifier := service.NewSentimentClient(
		cfg.SentimentAPIURL,
		cfg.SentimentAPIKey,
		cfg.SentimentModel,
		time.Duration(cfg.SentimentTimeout)*time.Second,
	)

	api := handler.NewAPI(db.DB, classifier, cfg.RecordingDir)
	r := router.SetupRouter(api, cfg)

	logger.L.Infow("server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.L.Fatalw("failed to run server", "error", err)
	}
}
