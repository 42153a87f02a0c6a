package cache

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process. Used when Redis is disabled.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an in-process cache with the given default TTL
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", false, nil
	}
	switch val := v.(type) {
	case string:
		return val, true, nil
	case int64:
		// counters read back the way Redis returns them
		return strconv.FormatInt(val, 10), true, nil
	}
	return "", false, nil
}

func (m *MemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

// Incr creates missing counters at 1. Counters never expire.
func (m *MemoryCache) Incr(ctx context.Context, key string) (int64, error) {
	if err := m.store.Add(key, int64(1), gocache.NoExpiration); err == nil {
		return 1, nil
	}
	return m.store.IncrementInt64(key, 1)
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		m.store.Delete(k)
	}
	return nil
}

var _ Cache = (*MemoryCache)(nil)
