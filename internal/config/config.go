package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`

	APIBaseURL string        `mapstructure:"API_BASE_URL"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`

	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`

	ChatPollInterval     time.Duration `mapstructure:"CHAT_POLL_INTERVAL"`
	SessionDurationHours float64       `mapstructure:"SESSION_DURATION_HOURS"`

	OtelEnabled       bool    `mapstructure:"OTEL_ENABLED"`
	OtelEndpoint      string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelSamplingRatio float64 `mapstructure:"OTEL_SAMPLING_RATIO"`
}

func Load() (*Config, error) {
	// .env необязателен
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Environment:   getString("ENV", "development"),
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		OtelEndpoint:  getString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	var err error
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.AvailabilityCacheTTL, err = getDuration("AVAILABILITY_CACHE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ChatPollInterval, err = getDuration("CHAT_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionDurationHours, err = getFloat("SESSION_DURATION_HOURS", 1); err != nil {
		return nil, err
	}
	if cfg.OtelEnabled, err = getBool("OTEL_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.OtelSamplingRatio, err = getFloat("OTEL_SAMPLING_RATIO", 1); err != nil {
		return nil, err
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required but not set")
	}
	if cfg.SessionDurationHours <= 0 || cfg.SessionDurationHours > 8 {
		return nil, fmt.Errorf("SESSION_DURATION_HOURS must be in (0, 8], got %v", cfg.SessionDurationHours)
	}
	if cfg.OtelSamplingRatio < 0 || cfg.OtelSamplingRatio > 1 {
		return nil, fmt.Errorf("OTEL_SAMPLING_RATIO must be in [0, 1], got %v", cfg.OtelSamplingRatio)
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsProduction включает JSON логи
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
