package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"station-dashboard/internal/common/config"
)

// RedisClient holds the shared connection pool. Sessions and the price change
// subscription both use Client directly.
type RedisClient struct {
	Client *redis.Client
}

func millis(ms, fallback int) time.Duration {
	if ms <= 0 {
		ms = fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// RedisOptions maps the config section onto go-redis options.
func RedisOptions(cfg config.RedisConfig) *redis.Options {
	op := millis(cfg.OpTimeout, 3000)
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  millis(cfg.DialTimeout, 5000),
		ReadTimeout:  op,
		WriteTimeout: op,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdle,
	}
}

func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	return &RedisClient{Client: redis.NewClient(RedisOptions(cfg))}, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
