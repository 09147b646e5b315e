package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/hummingbird-backend/internal/modules/prompts"
	"github.com/yungbote/hummingbird-backend/internal/platform/idempotency"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
	"github.com/yungbote/hummingbird-backend/internal/platform/openai"
	"github.com/yungbote/hummingbird-backend/internal/platform/redis"
)

type Clients struct {
	OpenAI      openai.Client
	Redis       *goredis.Client
	Idempotency idempotency.Store
	Prompts     *prompts.Catalog
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	var out Clients

	llm, err := openai.NewClient(cfg.OpenAI, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai: %w", err)
	}
	out.OpenAI = llm
	log.Info("OpenAI client ready", "model", llm.Model())

	catalog, err := prompts.Load()
	if err != nil {
		return Clients{}, fmt.Errorf("load prompts: %w", err)
	}
	out.Prompts = catalog

	out.Idempotency = idempotency.NewNoopStore()
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.Idempotency = idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL, log)
	} else {
		log.Info("REDIS_ADDR not set, next requests run without replay")
	}

	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
