package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     string
	count     int64
	expiresAt time.Time // zero means no expiry
}

func (e *memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is a single-process Cache with the same lazy-expiry contract as
// the redis backend. Reads past a key's TTL behave as a miss and drop the entry.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*memEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) get(key string) (*memEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return nil, false
	}
	return e, true
}

func (c *MemoryCache) Set(_ context.Context, namespace, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &memEntry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[namespace+":"+key] = e
	return nil
}

func (c *MemoryCache) Get(_ context.Context, namespace, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.get(namespace + ":" + key)
	if !ok {
		return "", ErrCacheMiss
	}
	return e.value, nil
}

func (c *MemoryCache) GetDel(_ context.Context, namespace, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := namespace + ":" + key
	e, ok := c.get(k)
	if !ok {
		return "", ErrCacheMiss
	}
	delete(c.entries, k)
	return e.value, nil
}

func (c *MemoryCache) Delete(_ context.Context, namespace, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, namespace+":"+key)
	return nil
}

func (c *MemoryCache) GetTTL(_ context.Context, namespace, key string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.get(namespace + ":" + key)
	if !ok {
		return -2 * time.Nanosecond, nil // matches redis TTL semantics for a missing key
	}
	if e.expiresAt.IsZero() {
		return -1 * time.Nanosecond, nil
	}
	return e.expiresAt.Sub(c.now()), nil
}

func (c *MemoryCache) IncrWithExpire(_ context.Context, namespace, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := namespace + ":" + key
	e, ok := c.get(k)
	if !ok {
		e = &memEntry{expiresAt: c.now().Add(window)}
		c.entries[k] = e
	}
	e.count++
	return e.count, nil
}
