package relevance

import (
	"context"
	"sync"
	"time"
)

// Cache is the key/value capability the engine memoizes through. Any
// store with TTL'd get/set works; a nil value with a nil error is a
// miss. Cache failures are never propagated by the engine; they
// degrade to a miss.
type Cache interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type memoryEntry struct {
	value      any
	expiration time.Time
}

// MemoryCache is the default in-process Cache: a mutex-guarded map with
// per-entry TTL and a size cap enforced on write.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	maxSize int
}

// NewMemoryCache builds a MemoryCache capped at maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 500
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		maxSize: maxSize,
	}
}

// Get returns the cached value for key, or nil past its TTL.
func (c *MemoryCache) Get(_ context.Context, key string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiration) {
		return e.value, nil
	}
	return nil, nil
}

// Set stores value under key for ttl, evicting expired entries (and the
// oldest one if still full) once the cap is reached.
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.cleanup()
	}
	c.entries[key] = memoryEntry{value: value, expiration: time.Now().Add(ttl)}
	return nil
}

// Size returns the number of stored entries, expired ones included.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) cleanup() {
	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiration) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxSize {
		return
	}
	oldest := ""
	oldestExp := time.Time{}
	for key, e := range c.entries {
		if oldest == "" || e.expiration.Before(oldestExp) {
			oldest, oldestExp = key, e.expiration
		}
	}
	if oldest != "" {
		delete(c.entries, oldest)
	}
}
