package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	NATSURL          string
	JWTSecret        string
	JudgeBaseURL     string
	JudgeAPIKey      string
	JudgeAPIHost     string
	JudgeTimeout     time.Duration
	StatsCacheTTL    time.Duration
	RunRateLimit     int
	RunRateWindow    time.Duration
	OpenAIAPIKey     string
	OpenAIModel      string
	FeedbackDisabled bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HIRELOOP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Hireloop Assessment API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("stats.cache_ttl", "1m")
	v.SetDefault("judge.timeout_ms", 30000)
	v.SetDefault("run.rate_limit", 10)
	v.SetDefault("run.rate_window", "1m")
	v.SetDefault("openai.model", "gpt-4o-mini")

	ttl, err := time.ParseDuration(v.GetString("stats.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("run.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid run rate window: %w", err)
	}

	timeoutMs := v.GetInt("judge.timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 30000
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		NATSURL:          v.GetString("nats.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		JudgeBaseURL:     v.GetString("judge.base_url"),
		JudgeAPIKey:      v.GetString("judge.api_key"),
		JudgeAPIHost:     v.GetString("judge.api_host"),
		JudgeTimeout:     time.Duration(timeoutMs) * time.Millisecond,
		StatsCacheTTL:    ttl,
		RunRateLimit:     v.GetInt("run.rate_limit"),
		RunRateWindow:    window,
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		OpenAIModel:      v.GetString("openai.model"),
		FeedbackDisabled: v.GetBool("feedback.disabled"),
	}

	if cfg.JudgeBaseURL == "" {
		return Config{}, fmt.Errorf("judge base url must be provided")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
