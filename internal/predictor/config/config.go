package config

import (
	"time"

	"golang-chart-predictor/pkg/config"
)

// Predictor holds prediction-pipeline configuration.
type Predictor struct {
	AIVoteTimeout        time.Duration `mapstructure:"ai_vote_timeout"`
	HistoryCacheTTL      time.Duration `mapstructure:"history_cache_ttl"`
	ValidationHorizon    time.Duration `mapstructure:"validation_horizon"`
	OutcomeSweepSchedule string        `mapstructure:"outcome_sweep_schedule"`

	// Prediction feedback stream
	RedisStreamFeedbackTimeout         time.Duration `mapstructure:"redis_stream_feedback_timeout"`
	RedisStreamFeedbackRetryInterval   time.Duration `mapstructure:"redis_stream_feedback_retry_interval"`
	RedisStreamFeedbackMaxIdleDuration time.Duration `mapstructure:"redis_stream_feedback_max_idle_duration"`
	RedisStreamFeedbackMaxRetry        int           `mapstructure:"redis_stream_feedback_max_retry"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	VisionModel         string `mapstructure:"vision_model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Headlines holds the market-headlines RSS configuration.
type Headlines struct {
	FeedURL string `mapstructure:"feed_url"`
	Limit   int    `mapstructure:"limit"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the prediction service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Predictor Predictor       `mapstructure:"predictor"`
	Gemini    Gemini          `mapstructure:"gemini"`
	AI        AI              `mapstructure:"ai"`
	Headlines Headlines       `mapstructure:"headlines"`
	Telegram  Telegram        `mapstructure:"telegram"`
}

// Load loads the prediction service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
