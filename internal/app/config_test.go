package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "CORS_ALLOW_ORIGINS", "HTTP_ERROR_STATUS", "OPENAI_API_KEY", "OPENAI_MODEL", "REDIS_ADDR", "IDEMPOTENCY_TTL", "POSTGRES_DSN"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.False(t, cfg.HTTP.ErrorStatus)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	require.NotNil(t, cfg.OpenAI.Temperature)
	assert.InDelta(t, 0.7, *cfg.OpenAI.Temperature, 1e-9)
	assert.Equal(t, 60*time.Second, cfg.OpenAI.Timeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 10*time.Minute, cfg.IdempotencyTTL)
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("HTTP_ERROR_STATUS", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "15")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("IDEMPOTENCY_TTL", "90s")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3")

	cfg := LoadConfig()
	assert.Equal(t, ":9090", cfg.HTTP.Addr())
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.HTTP.CORSOrigins)
	assert.True(t, cfg.HTTP.ErrorStatus)
	assert.Equal(t, 15*time.Second, cfg.OpenAI.Timeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 90*time.Second, cfg.IdempotencyTTL)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}
