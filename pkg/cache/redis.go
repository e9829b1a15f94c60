// Package cache holds the Redis connection and the live recipe cost read model.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/kitchenledger/pkg/config"
)

const (
	connectTimeout = 2 * time.Second
	ioTimeout      = 3 * time.Second
)

// RedisClient is a pooled go-redis client whose keys live under one namespace,
// so several deployments can share a Redis instance.
type RedisClient struct {
	client *redis.Client
	prefix string
}

// NewRedisClient connects to cfg.RedisURL and pings it before returning.
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	tune(opts, cfg.RedisPoolSize)

	rc := &RedisClient{client: redis.NewClient(opts), prefix: cfg.RedisKeyPrefix}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.client.Close()
		return nil, err
	}
	return rc, nil
}

// tune applies pool sizing and timeouts. Cost reads sit on the request path,
// so a slow Redis must fail fast and fall back to computing the cost.
func tune(opts *redis.Options, poolSize int) {
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	opts.MinIdleConns = max(1, opts.PoolSize/5)
	opts.MaxRetries = 3
	opts.DialTimeout = connectTimeout
	opts.ReadTimeout = ioTimeout
	opts.WriteTimeout = ioTimeout
	opts.PoolTimeout = ioTimeout + time.Second
}

// Key joins parts into a namespaced key: "<prefix>:<part>:<part>".
func (r *RedisClient) Key(parts ...string) string {
	if r.prefix == "" {
		return strings.Join(parts, ":")
	}
	return r.prefix + ":" + strings.Join(parts, ":")
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Close shuts down the connection pool. Safe on a zero RedisClient.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("cache: redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
