// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCache is an in-process LRU cache with per-entry expiry.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	defaultTTL time.Duration
	maxSize    int // 0 = unlimited
	bytes      int64
	closed     bool
	stop       chan struct{}

	hits, misses, sets int64
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration // 0 = one hour
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no cleanup)
}

// NewMemoryCache creates a memory cache. With a CleanupInterval a goroutine
// drops expired entries until Close is called.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stop:       make(chan struct{}),
	}
	if c.defaultTTL <= 0 {
		c.defaultTTL = time.Hour
	}
	if opts.CleanupInterval > 0 {
		go c.sweepEvery(opts.CleanupInterval)
	}
	return c
}

// Get returns a copy of the stored value and marks it recently used.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCacheClosed
	}
	el, ok := c.lookup(key, time.Now())
	if !ok {
		c.misses++
		return nil, ErrCacheMiss
	}
	c.order.MoveToFront(el)
	c.hits++
	return append([]byte(nil), el.Value.(*memoryEntry).value...), nil
}

// Set stores a copy of value. A full cache drops expired entries first and
// then the least recently used one.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()
	entry := &memoryEntry{key: key, value: append([]byte(nil), value...), expiresAt: now.Add(ttl)}
	c.sets++

	if el, ok := c.entries[key]; ok {
		c.bytes += int64(len(entry.value) - len(el.Value.(*memoryEntry).value))
		el.Value = entry
		c.order.MoveToFront(el)
		return nil
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.dropExpired(now)
		for len(c.entries) >= c.maxSize {
			c.remove(c.order.Back())
		}
	}
	c.entries[key] = c.order.PushFront(entry)
	c.bytes += int64(len(entry.value))
	return nil
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	clear(c.entries)
	c.order.Init()
	c.bytes = 0
	return nil
}

// Has reports whether key holds an unexpired value. It does not count as a use.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, ErrCacheClosed
	}
	_, ok := c.lookup(key, time.Now())
	return ok, nil
}

// DeleteByPrefix removes all keys starting with prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	for key, el := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(el)
		}
	}
	return nil
}

// Close stops the cleanup goroutine. Further calls return ErrCacheClosed.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.stop)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Sets:    c.sets,
		Items:   len(c.entries),
		HitRate: hitRate(c.hits, c.misses),
		Size:    c.bytes,
	}
}

// ResetStats zeroes the hit, miss and set counters.
func (c *MemoryCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits, c.misses, c.sets = 0, 0, 0
}

// lookup returns the element for key, removing it when expired.
// c.mu must be held.
func (c *MemoryCache) lookup(key string, now time.Time) (*list.Element, bool) {
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if el.Value.(*memoryEntry).expired(now) {
		c.remove(el)
		return nil, false
	}
	return el, true
}

// remove unlinks el. c.mu must be held.
func (c *MemoryCache) remove(el *list.Element) {
	entry := c.order.Remove(el).(*memoryEntry)
	delete(c.entries, entry.key)
	c.bytes -= int64(len(entry.value))
}

// dropExpired removes every expired entry. c.mu must be held.
func (c *MemoryCache) dropExpired(now time.Time) {
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*memoryEntry).expired(now) {
			c.remove(el)
		}
		el = prev
	}
}

func (c *MemoryCache) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.mu.Lock()
			c.dropExpired(now)
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
