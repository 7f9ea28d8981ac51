package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the analysis cache. It returns a nil client when no
// address is configured.
func InitRedis(cfg *Config) (redis.UniversalClient, error) {
	if cfg.Cache.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.Cache.RedisAddr},
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("failed to connect to analysis cache: %w", err)
	}

	log.Printf("✅ Analysis cache connected (%s)", cfg.Cache.RedisAddr)
	return client, nil
}
