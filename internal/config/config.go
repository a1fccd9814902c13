package config

import (
	"strings"

	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string `mapstructure:"LISTEN_ADDR"`
	Port             string `mapstructure:"PORT"`
	GinMode          string `mapstructure:"GIN_MODE"`
	DatabasePath     string `mapstructure:"DATABASE_PATH"`
	SessionSecret    string `mapstructure:"SESSION_SECRET"`
	LogDir           string `mapstructure:"LOG_DIR"`
	RecordingDir     string `mapstructure:"RECORDING_DIR"`
	SentimentAPIURL  string `mapstructure:"SENTIMENT_API_URL"`
	SentimentAPIKey  string `mapstructure:"SENTIMENT_API_KEY"`
	SentimentModel   string `mapstructure:"SENTIMENT_MODEL"`
	SentimentTimeout int    `mapstructure:"SENTIMENT_TIMEOUT_SECONDS"`
}

// Load 从 .env 文件或环境变量读取配置，并为缺失项提供安全的默认值。
// path 指向 .env 所在目录；文件不存在时仅依赖环境变量。
func Load(path string) (AppConfig, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LISTEN_ADDR", "")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DATABASE_PATH", "mindfulme.db")
	v.SetDefault("SESSION_SECRET", "mindfulme-dev-secret")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("RECORDING_DIR", "data/recordings")
	v.SetDefault("SENTIMENT_API_URL", "")
	v.SetDefault("SENTIMENT_API_KEY", "")
	v.SetDefault("SENTIMENT_MODEL", "distilbert-base-uncased-finetuned-sst-2-english")
	v.SetDefault("SENTIMENT_TIMEOUT_SECONDS", 30)

	if err := v.ReadInConfig(); err != nil {
		// 允许配置文件不存在，此时退回环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return AppConfig{}, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, err
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":" + cfg.Port
	}
	if strings.TrimSpace(cfg.DatabasePath) == "" {
		cfg.DatabasePath = "mindfulme.db"
	}

	return cfg, nil
}
