// file: db/redis.go

package db

import (
	"context"
	"fmt"
	"go-shop-api/config"
	"go-shop-api/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis initializes and returns a new Redis client used for
// catalog caching.
func ConnectRedis() (*redis.Client, error) {
	cfg := config.AppConfig.Redis

	redisAddr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping Redis")
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Log.WithField("address", redisAddr).Info("Redis connection established successfully")
	return rdb, nil
}
