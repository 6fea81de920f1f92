package cache

import (
	"context"
	"errors"
	"time"

	"trainer_dashboard/internal/redis"

	rediscache "github.com/go-redis/cache/v8"
)

// RedisCache shares cached aggregates across server instances.
type RedisCache struct {
	Cache  *rediscache.Cache
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		Cache: rediscache.New(&rediscache.Options{
			Redis: client.Redis(),
		}),
		client: client,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	err := c.Cache.Get(ctx, key, dest)
	if err != nil {
		if errors.Is(err, rediscache.ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Cache.Set(&rediscache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: value,
		TTL:   ttl,
	})
}

func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	return c.client.Generation(ctx)
}

func (c *RedisCache) Bump(ctx context.Context) error {
	_, err := c.client.BumpGeneration(ctx)
	return err
}
