package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// TTLCache is an in-process Store. An entry whose age has reached the TTL is
// treated as absent and dropped on the next access or Purge.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

// NewTTLCache creates an in-memory cache. now may be nil to use time.Now.
func NewTTLCache[V any](ttl time.Duration, now func() time.Time) *TTLCache[V] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

func (c *TTLCache[V]) Get(_ context.Context, key string) (V, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false, nil
	}
	if c.expired(e) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && c.expired(cur) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false, nil
	}
	return e.value, true, nil
}

func (c *TTLCache[V]) Set(_ context.Context, key string, value V) error {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, createdAt: c.now()}
	c.mu.Unlock()
	return nil
}

func (c *TTLCache[V]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}

// Purge drops every expired entry and returns how many were removed.
func (c *TTLCache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Clear drops every entry.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

// Len counts entries, including expired ones not yet purged.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLCache[V]) expired(e entry[V]) bool {
	return c.now().Sub(e.createdAt) >= c.ttl
}
