package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"event-manager-api/core/config"
	"event-manager-api/core/constants"
	"event-manager-api/core/logger"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	IsLoginBlocked(ctx context.Context, key string) (bool, error)
	IncrementLoginAttempt(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCache struct {
	client *redis.Client
}

// New returns a Redis-backed cache, or a no-op cache when Redis is disabled.
func New(ctx context.Context, cfg config.RedisConfig) (Cache, error) {
	if !cfg.Enabled {
		logger.Info("Cache:New:Disabled")
		return NewNoop(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.Error("Cache:New:Ping", "addr", cfg.Addr, "error", err)
		return nil, err
	}

	logger.Info("Cache:New:Connected", "addr", cfg.Addr)
	return NewRedisCache(client), nil
}

func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return constants.RedisKeyTokenBlacklist + hex.EncodeToString(sum[:])
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, blacklistKey(token), 1, ttl).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) IsLoginBlocked(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= constants.MaxLoginAttempts, nil
}

// IncrementLoginAttempt bumps the failure counter. The window starts on the
// first failure and lasts BlockDuration.
func (c *redisCache) IncrementLoginAttempt(ctx context.Context, key string) error {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	if count == 1 || count >= constants.MaxLoginAttempts {
		return c.client.Expire(ctx, key, constants.BlockDuration).Err()
	}
	return nil
}

func (c *redisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

type noopCache struct{}

func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) AddToTokenBlacklist(context.Context, string, time.Duration) error { return nil }
func (noopCache) IsTokenBlacklisted(context.Context, string) (bool, error)         { return false, nil }
func (noopCache) IsLoginBlocked(context.Context, string) (bool, error)             { return false, nil }
func (noopCache) IncrementLoginAttempt(context.Context, string) error              { return nil }
func (noopCache) Expire(context.Context, string, time.Duration) error              { return nil }
func (noopCache) Del(context.Context, string) error                                { return nil }
func (noopCache) Ping(context.Context) error                                       { return nil }
func (noopCache) Close() error                                                     { return nil }
