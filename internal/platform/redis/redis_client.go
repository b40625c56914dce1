// Package redis builds the optional cache connection.
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"jobportal_backend/internal/platform/config"
)

const pingTimeout = 3 * time.Second

// NewRedisClient connects to Redis and verifies the connection.
// It returns (nil, nil) when no host is configured so callers can run without a cache.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		slog.Info("REDIS_HOST not set, running without cache")
		return nil, nil
	}

	addr := cfg.Addr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		slog.Error("Redis connection failed", "address", addr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
