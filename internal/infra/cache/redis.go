package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"dish-recommendations/internal/domain"
)

// RedisCache реализует domain.Cache через Redis.
type RedisCache struct {
	client *redis.Client
}

var _ domain.Cache = (*RedisCache)(nil)

// NewRedis создаёт кэш.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Once выполняет функцию, если ключ ещё не задан. При ошибке функции ключ снимается,
// чтобы следующая попытка могла выполниться.
func (c *RedisCache) Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	ok, err := c.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := fn(); err != nil {
		_ = c.client.Del(context.WithoutCancel(ctx), key).Err()
		return err
	}
	return nil
}

// NopCache выполняет функцию всегда.
type NopCache struct{}

// Once реализует domain.Cache без дедупликации.
func (NopCache) Once(_ context.Context, _ string, _ time.Duration, fn func() error) error {
	return fn()
}
