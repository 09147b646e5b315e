package app

import (
	"fmt"
	"strings"
	"time"

	appdb "github.com/yungbote/hummingbird-backend/internal/data/db"
	"github.com/yungbote/hummingbird-backend/internal/observability"
	"github.com/yungbote/hummingbird-backend/internal/platform/envutil"
	"github.com/yungbote/hummingbird-backend/internal/platform/idempotency"
	"github.com/yungbote/hummingbird-backend/internal/platform/openai"
	"github.com/yungbote/hummingbird-backend/internal/platform/redis"
)

type HTTPConfig struct {
	Port            string
	CORSOrigins     []string
	ErrorStatus     bool
	ShutdownTimeout time.Duration
}

func (c HTTPConfig) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

type Config struct {
	LogMode string

	HTTP     HTTPConfig
	Postgres appdb.PostgresConfig
	OpenAI   openai.Config
	Redis    redis.Config
	OTel     observability.OtelConfig

	IdempotencyTTL time.Duration
}

func LoadConfig() Config {
	temperature := envutil.Float("OPENAI_TEMPERATURE", 0.7)
	return Config{
		LogMode: envutil.String("LOG_MODE", "development"),
		HTTP: HTTPConfig{
			Port:            envutil.String("PORT", "8080"),
			CORSOrigins:     envutil.List("CORS_ALLOW_ORIGINS", []string{"*"}),
			ErrorStatus:     envutil.Bool("HTTP_ERROR_STATUS", false),
			ShutdownTimeout: envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: appdb.PostgresConfig{
			DSN:             envutil.String("POSTGRES_DSN", ""),
			Host:            envutil.String("POSTGRES_HOST", "localhost"),
			Port:            envutil.String("POSTGRES_PORT", "5432"),
			User:            envutil.String("POSTGRES_USER", "postgres"),
			Password:        envutil.String("POSTGRES_PASSWORD", ""),
			Name:            envutil.String("POSTGRES_NAME", "hummingbird"),
			SSLMode:         envutil.String("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envutil.Duration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		OpenAI: openai.Config{
			APIKey:      envutil.String("OPENAI_API_KEY", ""),
			BaseURL:     envutil.String("OPENAI_BASE_URL", ""),
			Model:       envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: &temperature,
			MaxTokens:   envutil.Int("OPENAI_MAX_TOKENS", 0),
			Timeout:     time.Duration(envutil.Int("OPENAI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			PoolSize: envutil.Int("REDIS_POOL_SIZE", 0),
		},
		OTel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "hummingbird"),
			Environment: envutil.String("OTEL_ENVIRONMENT", envutil.String("LOG_MODE", "development")),
			Version:     envutil.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_TRACES_SAMPLER_RATIO", 1),
		},
		IdempotencyTTL: envutil.Duration("IDEMPOTENCY_TTL", idempotency.DefaultTTL),
	}
}

// Validate reports settings serve cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return fmt.Errorf("missing OPENAI_API_KEY")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
