// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"
)

// TypedCache stores values of type T as JSON in a Cacher. Concurrent
// GetOrSet misses for one key share a single computation.
type TypedCache[T any] struct {
	backend Cacher
	ttl     time.Duration
	group   singleflight.Group
}

// NewTypedCache wraps backend. A zero ttl uses the backend default.
func NewTypedCache[T any](backend Cacher, ttl time.Duration) *TypedCache[T] {
	return &TypedCache[T]{backend: backend, ttl: ttl}
}

// Get decodes the value at key. Misses, backend errors and values that no
// longer decode into T all report false.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	raw, err := c.backend.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	v := new(T)
	if json.Unmarshal(raw, v) != nil {
		return nil, false
	}
	return v, true
}

// Set encodes value and stores it with the cache TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL encodes value and stores it with ttl.
func (c *TypedCache[T]) SetWithTTL(ctx context.Context, key string, value *T, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.backend.Set(ctx, key, raw, ttl)
}

// Delete removes key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.backend.Delete(ctx, key)
}

// Clear empties the backend.
func (c *TypedCache[T]) Clear(ctx context.Context) error {
	return c.backend.Clear(ctx)
}

// Has reports whether key is present. Backend errors report false.
func (c *TypedCache[T]) Has(ctx context.Context, key string) bool {
	ok, err := c.backend.Has(ctx, key)
	return err == nil && ok
}

// GetOrSet returns the cached value for key, or computes it with fn and
// stores it. The bool reports a cache hit. A failed store still returns
// the computed value.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func() (*T, error)) (*T, bool, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, true, nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, v)
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return res.(*T), false, nil
}
