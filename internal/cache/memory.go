package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

type memoryEntry struct {
	payload []byte
	expires time.Time
}

// MemoryCache is the single-process cache used when no redis is configured.
// Values are stored JSON-encoded so callers get copies, as with redis.
type MemoryCache struct {
	Cache      *lru.Cache
	generation int64
	now        func() time.Time
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{Cache: cache, now: time.Now}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	result, ok := c.Cache.Get(key)
	if !ok {
		return false, nil
	}
	entry, ok := result.(memoryEntry)
	if !ok {
		c.Cache.Remove(key)
		return false, nil
	}
	if !entry.expires.IsZero() && c.now().After(entry.expires) {
		c.Cache.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expires = c.now().Add(ttl)
	}
	_ = c.Cache.Add(key, entry)
	return nil
}

func (c *MemoryCache) Generation(context.Context) (int64, error) {
	return atomic.LoadInt64(&c.generation), nil
}

func (c *MemoryCache) Bump(context.Context) error {
	atomic.AddInt64(&c.generation, 1)
	return nil
}
