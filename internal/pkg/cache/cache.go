// Package cache holds read-through caches for API views.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uteq/division-service/internal/config"
)

// InvalidationHold is how long an invalidated key refuses fills.
// A read that loaded its value before the write committed and fills after
// the invalidation is dropped, as long as it finishes within the hold.
const InvalidationHold = 5 * time.Second

// tombstone marks an invalidated key; it is never valid JSON
var tombstone = []byte("\x00invalidated")

// Cache stores JSON-encoded values by key
type Cache interface {
	// Get decodes the cached value into dest. The bool is false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Fill stores value only when key holds neither a value nor a tombstone
	Fill(ctx context.Context, key string, value any) error
	// Invalidate replaces key with a tombstone for InvalidationHold
	Invalidate(ctx context.Context, key string) error
	Close() error
}

// DivisionViewKey is the key of a cached division view
func DivisionViewKey(id int64) string {
	return fmt.Sprintf("division:view:%d", id)
}

// RedisCache is a Cache backed by Redis with a fixed TTL per entry
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing client
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Connect creates a client from the configuration and checks it with PING
func Connect(ctx context.Context, cfg *config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	return NewRedisCache(client, cfg.Redis.TTL), nil
}

// Get reads and decodes key
func (r *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if bytes.Equal(raw, tombstone) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Fill encodes value and stores it with the cache TTL using SET NX
func (r *RedisCache) Fill(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	if err := r.client.SetNX(ctx, key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return nil
}

// Invalidate overwrites key with a tombstone that expires after InvalidationHold
func (r *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Set(ctx, key, tombstone, InvalidationHold).Err(); err != nil {
		return fmt.Errorf("redis invalidate %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NoopCache) Fill(context.Context, string, any) error        { return nil }
func (NoopCache) Invalidate(context.Context, string) error       { return nil }
func (NoopCache) Close() error                                   { return nil }
