// Package cache memoizes aggregate query results between mutations.
//
// Keys are combined with a store-wide generation number. Every mutation bumps
// the generation, so stale entries are never read again and simply expire.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is implemented by RedisCache, MemoryCache and Nop.
type Cache interface {
	// Get decodes the entry for key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Generation(ctx context.Context) (int64, error)
	Bump(ctx context.Context) error
}

// Key builds a generation-scoped cache key.
func Key(generation int64, parts ...interface{}) string {
	key := fmt.Sprintf("agg:%d", generation)
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Nop) Generation(context.Context) (int64, error) { return 0, nil }
func (Nop) Bump(context.Context) error { return nil }
