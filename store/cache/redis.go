package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	PoolSize     int
	MinIdleConns int
}

// DefaultRedisConfig returns the default Redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		KeyPrefix:    "learnloop:",
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// Redis is the shared cache backed by a Redis server. It is only needed for
// multi-instance deployments; a single instance runs fine on Memory.
//
// All failures are degraded: a failed read is a miss, a failed write is
// logged and skipped. Invalidate returns its error because the mutation
// caller may want to know the stale views were not dropped.
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedis connects to Redis and returns the shared cache.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	slog.Info("redis shared cache connected", "addr", cfg.Addr)
	return &Redis{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// Get retrieves a value. Any Redis failure is treated as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed to read shared cache", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set stores a value with the given TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.fullKey(key), value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to set shared cache key %s", key)
	}
	return nil
}

// Invalidate removes entries matching the pattern via SCAN + DEL. Redis glob
// syntax matches the trailing-* convention used by cachekey.
func (r *Redis) Invalidate(ctx context.Context, pattern string) error {
	fullPattern := r.fullKey(pattern)
	iter := r.client.Scan(ctx, 0, fullPattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrapf(err, "failed to invalidate pattern %s", pattern)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrapf(err, "failed to scan pattern %s", pattern)
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return errors.Wrapf(err, "failed to invalidate pattern %s", pattern)
		}
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) fullKey(key string) string {
	return r.keyPrefix + key
}

// Ensure Redis implements Shared.
var _ Shared = (*Redis)(nil)
