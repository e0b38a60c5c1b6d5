package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache is a Store backed by Redis key expiry. Values are stored as JSON.
type RedisCache[V any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache[V any](client *redis.Client, prefix string, ttl time.Duration) *RedisCache[V] {
	return &RedisCache[V]{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache[V]) key(k string) string {
	return fmt.Sprintf("%s%s", c.prefix, k)
}

func (c *RedisCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var value V
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		// A corrupt entry is a miss; the caller will overwrite it.
		return value, false, nil
	}
	return value, true, nil
}

func (c *RedisCache[V]) Set(ctx context.Context, key string, value V) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache[V]) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *RedisCache[V]) TTL() time.Duration {
	return c.ttl
}
