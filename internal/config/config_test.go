package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DB_DSN", "postgres://localhost/bot")
	t.Setenv("API_BASE_URL", "https://api.tutornearby.test")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 30*time.Minute, cfg.AvailabilityCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.ChatPollInterval)
	assert.Equal(t, 1.0, cfg.SessionDurationHours)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "localhost:4317", cfg.OtelEndpoint)
	assert.Equal(t, 1.0, cfg.OtelSamplingRatio)
	assert.Empty(t, cfg.RedisAddr)
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("CHAT_POLL_INTERVAL", "1m")
	t.Setenv("SESSION_DURATION_HOURS", "1.5")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Minute, cfg.ChatPollInterval)
	assert.Equal(t, 1.5, cfg.SessionDurationHours)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing api url", "API_BASE_URL", ""},
		{"bad duration", "API_TIMEOUT", "soon"},
		{"negative poll interval", "CHAT_POLL_INTERVAL", "-1s"},
		{"session too long", "SESSION_DURATION_HOURS", "9"},
		{"bad bool", "OTEL_ENABLED", "maybe"},
		{"ratio above one", "OTEL_SAMPLING_RATIO", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
