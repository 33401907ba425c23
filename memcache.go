package advisor

import (
	"sync"
	"time"
)

// MemCache is a small in-memory key/value cache with TTL eviction. It is an
// explicit collaborator: callers that want caching hold one and pass it
// around, there is no hidden process-wide instance. Safe for concurrent use.
type MemCache[V any] struct {
	ttl time.Duration
	// now is replaceable in tests.
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value V
	at    time.Time
}

// NewMemCache returns a cache whose entries expire after ttl.
func NewMemCache[V any](ttl time.Duration) *MemCache[V] {
	return &MemCache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry[V]),
	}
}

// Get returns the cached value for key if it exists and has not expired.
// Expired entries are evicted on access.
func (c *MemCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.at) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores a value under key, resetting its TTL.
func (c *MemCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, at: c.now()}
}

// Evict drops a key immediately.
func (c *MemCache[V]) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries, counting expired ones not yet evicted.
func (c *MemCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
