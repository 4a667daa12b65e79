// Package cache implements ports.Cache against Redis.
//
// Grounded on ae-lexs-realtime-messaging-platform's internal/redis/client.go
// (Config/NewClient shape); the go-redis dependency itself is new to this
// repository, wired in for exactly this concern.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the parameters needed to connect to a Redis instance.
type Config struct {
	Addr         string
	Password     string
	DB           int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisCache implements ports.Cache. A Get miss is reported as (nil, nil)
// per the port's contract; any other Redis error is returned to the caller.
// RedisCache does not log errors, and internal/cache treats them as a miss
// (fail-open) without logging them either.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache creates a Redis client configured from cfg.
func NewRedisCache(cfg Config) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	return &RedisCache{rdb: rdb}
}

// Get returns (nil, nil) on a clean miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set writes value under key with the given TTL. ttl <= 0 means no expiry.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Delete removes every given key. Missing keys are not an error.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
