package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// GenerationKey holds the store-wide mutation counter the aggregate cache is keyed by.
const GenerationKey = "dashboard:generation"

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Redis exposes the underlying client for libraries built on go-redis.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Generation returns the current mutation counter; a missing key reads as 0.
func (c *Client) Generation(ctx context.Context) (int64, error) {
	val, err := c.rdb.Get(ctx, GenerationKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get generation: %w", err)
	}
	return val, nil
}

// BumpGeneration increments the mutation counter and returns the new value.
func (c *Client) BumpGeneration(ctx context.Context) (int64, error) {
	val, err := c.rdb.Incr(ctx, GenerationKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump generation: %w", err)
	}
	return val, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
