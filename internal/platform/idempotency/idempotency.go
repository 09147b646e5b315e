// Package idempotency replays the stored response of a request retried with the same key.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

const (
	DefaultTTL   = 10 * time.Minute
	pendingValue = "pending"
)

type State int

const (
	// Acquired means the caller owns the key and must Complete or Release it.
	Acquired State = iota + 1
	// Pending means another request holding the key has not finished.
	Pending
	// Replay means a finished response is stored in Reservation.Payload.
	Replay
)

type Reservation struct {
	State   State
	Payload []byte
}

type Store interface {
	Reserve(ctx context.Context, key string) (Reservation, error)
	Complete(ctx context.Context, key string, payload []byte) error
	Release(ctx context.Context, key string) error
}

// NextKey namespaces an Idempotency-Key header value for a next request.
func NextKey(userID, chapterID, key string) string {
	return fmt.Sprintf("idem:next:%s:%s:%s", userID, chapterID, strings.TrimSpace(key))
}

type redisStore struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisStore(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{rdb: rdb, ttl: ttl, log: baseLog.With("store", "IdempotencyStore")}
}

func (s *redisStore) Reserve(ctx context.Context, key string) (Reservation, error) {
	// Two rounds cover a stored value expiring between SETNX and GET.
	for i := 0; i < 2; i++ {
		ok, err := s.rdb.SetNX(ctx, key, pendingValue, s.ttl).Result()
		if err != nil {
			return Reservation{}, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return Reservation{State: Acquired}, nil
		}
		val, err := s.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return Reservation{}, fmt.Errorf("idempotency lookup: %w", err)
		}
		if string(val) == pendingValue {
			return Reservation{State: Pending}, nil
		}
		s.log.Debug("Replaying stored response", "key", key)
		return Reservation{State: Replay, Payload: val}, nil
	}
	return Reservation{}, fmt.Errorf("idempotency reserve: key %s kept expiring", key)
}

func (s *redisStore) Complete(ctx context.Context, key string, payload []byte) error {
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

func (s *redisStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

type noopStore struct{}

// NewNoopStore always grants the key, so every request runs.
func NewNoopStore() Store { return noopStore{} }

func (noopStore) Reserve(context.Context, string) (Reservation, error) {
	return Reservation{State: Acquired}, nil
}

func (noopStore) Complete(context.Context, string, []byte) error { return nil }

func (noopStore) Release(context.Context, string) error { return nil }
