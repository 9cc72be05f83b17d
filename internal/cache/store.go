package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Store is the injected caching capability passed to components that
// read or invalidate the feed cache. Every operation is fail-open: a
// transport failure is absorbed, logged, and treated as a miss or a
// no-op so the request path never depends on cache availability.
type Store interface {
	// GetJSON looks up key and unmarshals the stored payload into dest.
	// It reports true only on a hit with a decodable payload.
	GetJSON(ctx context.Context, key string, dest any) bool
	// SetJSON marshals v and stores it under key with the given TTL,
	// best effort.
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration)
	// DeleteByPrefix removes every key sharing the given namespace
	// prefix, best effort.
	DeleteByPrefix(ctx context.Context, prefix string)
}

// redisStore implements Store on a go-redis client.
type redisStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStore returns a Store backed by the given Redis client.
// A nil client yields a store that always misses.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client, log: observability.Logger}
}

func (s *redisStore) GetJSON(ctx context.Context, key string, dest any) bool {
	if s.client == nil {
		return false
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		s.log.Warn("cache get failed, treating as miss",
			slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn("cache payload undecodable, treating as miss",
			slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *redisStore) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("cache value not serializable",
			slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.Warn("cache set failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (s *redisStore) DeleteByPrefix(ctx context.Context, prefix string) {
	if s.client == nil {
		return
	}
	// There is no per-key invalidation for listings: the key space is
	// unbounded (one key per search/pagination combination), so SCAN the
	// namespace and delete in batches.
	var (
		cursor uint64
		batch  []string
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			s.log.Warn("cache scan failed during purge",
				slog.String("prefix", prefix), slog.String("error", err.Error()))
			return
		}
		batch = append(batch, keys...)
		if len(batch) >= 500 {
			s.flushDeletes(ctx, prefix, batch)
			batch = batch[:0]
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	s.flushDeletes(ctx, prefix, batch)
}

func (s *redisStore) flushDeletes(ctx context.Context, prefix string, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn("cache delete failed during purge",
			slog.String("prefix", prefix), slog.String("error", err.Error()))
	}
}
