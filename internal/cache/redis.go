// Package cache keeps derived views in Redis between writes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "nba-stats:views"

// RedisViews stores JSON-encoded views under a generation number.
// Invalidate bumps the generation, which orphans every earlier entry until its TTL expires.
type RedisViews struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisViews connects to redisURL and verifies the connection with a ping.
func NewRedisViews(ctx context.Context, redisURL string, ttl time.Duration) (*RedisViews, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisViewsFromClient(client, ttl), nil
}

func NewRedisViewsFromClient(client *redis.Client, ttl time.Duration) *RedisViews {
	return &RedisViews{client: client, ttl: ttl, prefix: defaultPrefix}
}

// WithPrefix returns a copy that namespaces keys under prefix.
func (c *RedisViews) WithPrefix(prefix string) *RedisViews {
	cp := *c
	cp.prefix = prefix
	return &cp
}

func (c *RedisViews) genKey() string { return c.prefix + ":gen" }

func (c *RedisViews) itemKey(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", c.prefix, gen, key)
}

func (c *RedisViews) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Load decodes the cached view into dst. It reports false on a miss.
func (c *RedisViews) Load(ctx context.Context, key string, dst any) (bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return false, err
	}
	data, err := c.client.Get(ctx, c.itemKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := jsoniter.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisViews) Store(ctx context.Context, key string, v any) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	data, err := jsoniter.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.itemKey(gen, key), data, c.ttl).Err()
}

func (c *RedisViews) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.genKey()).Err()
}

func (c *RedisViews) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisViews) Close() error {
	return c.client.Close()
}
