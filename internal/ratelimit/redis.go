// Package ratelimit holds request counters shared between API instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sunriseyouth:rl:"

// Connect parses url, opens a client and pings it. An empty url returns a
// nil client and no error.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisWindow is a fixed-window counter kept in Redis. Every instance
// pointing at the same server shares the same budget per key.
type RedisWindow struct {
	client *redis.Client
	name   string
	limit  int
	window time.Duration
}

// NewRedisWindow allows limit requests per key in each window. name
// separates counters of different endpoints.
func NewRedisWindow(client *redis.Client, name string, limit int, window time.Duration) *RedisWindow {
	return &RedisWindow{client: client, name: name, limit: limit, window: window}
}

// Allow counts one request for key. When the budget is spent it returns
// false and the time left until the window resets.
func (w *RedisWindow) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := keyPrefix + w.name + ":" + key

	pipe := w.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, w.window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", w.name, err)
	}

	if incr.Val() <= int64(w.limit) {
		return true, 0, nil
	}
	retry := ttl.Val()
	if retry <= 0 {
		retry = w.window
	}
	return false, retry, nil
}
