// Package cache is a small in-process key-value store with per-entry TTL.
// Values are idempotently reproducible builder outputs, so concurrent
// recomputes for the same key are harmless; the service layer adds
// singleflight on top purely as an optimization.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a TTL map safe for concurrent use. Expired entries are dropped
// lazily on read and in bulk by Purge.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		clock:   time.Now,
	}
}

// SetClock overrides the time source for tests.
func (c *Cache) SetClock(clock func() time.Time) {
	c.mu.Lock()
	c.clock = clock
	c.mu.Unlock()
}

// Get returns the live value for key, if any.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	now := c.clock()
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if now.After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed.
		if cur, still := c.entries[key]; still && c.clock().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl stores nothing.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.clock().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll drops every entry, live or not.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock()
	removed := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
