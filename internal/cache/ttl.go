package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long an entry stays usable after it was stored.
const DefaultTTL = time.Hour

type entry[T any] struct {
	value   T
	savedAt time.Time
}

// TTL is an in-memory map from normalized keys to timestamped values.
// Expiry is lazy: a stale entry is reported as absent on read and replaced by
// the next Set. There is no background eviction. Concurrent writers to the
// same key race harmlessly; the last one wins.
type TTL[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[T]
}

// New returns an empty cache. A non-positive ttl falls back to DefaultTTL.
func New[T any](ttl time.Duration) *TTL[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[T]{ttl: ttl, now: time.Now, entries: make(map[string]entry[T])}
}

// Key case-folds and trims s. All methods apply it, so callers may pass raw
// queries or titles.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SetClock replaces the time source. Intended for tests.
func (c *TTL[T]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the value stored under key if it is still fresh.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[Key(key)]
	if !ok || !c.freshLocked(e) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Fresh reports whether key holds an entry younger than the TTL.
func (c *TTL[T]) Fresh(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set stores value under key with the current time.
func (c *TTL[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(key)] = entry[T]{value: value, savedAt: c.now()}
}

// Clear drops every entry.
func (c *TTL[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}

// Len counts stored entries, stale ones included.
func (c *TTL[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge removes stale entries and returns how many were dropped.
func (c *TTL[T]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if !c.freshLocked(e) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *TTL[T]) freshLocked(e entry[T]) bool {
	return c.now().Sub(e.savedAt) < c.ttl
}
