// Package ratelimit implements a Redis-backed fixed-window counter used to
// throttle credential endpoints (login, token refresh) across instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidtube/backend/internal/config"
)

// Limiter counts attempts per key within a rolling window
type Limiter struct {
	client   *redis.Client
	attempts int64
	window   time.Duration
}

// New creates a limiter backed by Redis
func New(cfg config.RedisConfig, attempts int64, window time.Duration) (*Limiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Limiter{client: client, attempts: attempts, window: window}, nil
}

// NewWithClient wraps an existing client; tests use this with miniredis.
func NewWithClient(client *redis.Client, attempts int64, window time.Duration) *Limiter {
	return &Limiter{client: client, attempts: attempts, window: window}
}

// Allow records an attempt for key and reports whether it is within the
// window's budget. The expiry is set only on the first attempt of a window so
// the window does not slide.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := "ratelimit:" + key

	count, err := l.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count attempt: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, fullKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}

	return count <= l.attempts, nil
}

// Health reports whether the Redis backend is reachable.
func (l *Limiter) Health(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Reset clears the counter for key, typically after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, "ratelimit:"+key).Err()
}

// Close closes the Redis connection
func (l *Limiter) Close() error {
	return l.client.Close()
}
