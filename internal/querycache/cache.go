// Package querycache caches derived query results (service overview,
// per-type aggregates) and invalidates them off registry events.
package querycache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	// ErrCacheMiss is returned when a key is absent.
	ErrCacheMiss = errors.New("cache miss")
	// ErrExpired is returned when a key exists but its TTL has passed.
	ErrExpired = errors.New("cache entry expired")
)

type entry struct {
	value      interface{}
	expiration time.Time
}

// Cache is an in-memory TTL cache. Expired entries are reaped in the
// background; reads never return stale values regardless.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	done    chan struct{}
	once    sync.Once
}

// NewCache creates a cache and starts its reaper.
func NewCache() *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
	}
	go c.reap()
	return c
}

// Get retrieves a value from the cache.
func (c *Cache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if time.Now().After(e.expiration) {
		return nil, ErrExpired
	}
	return e.value, nil
}

// Set stores a value with a TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{value: value, expiration: time.Now().Add(ttl)}
	return nil
}

// Delete removes one key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// DeletePrefix removes every key under the given prefix.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	return nil
}

// Close stops the background reaper.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Cache) reap() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				if now.After(e.expiration) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
