// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testView struct {
	Slug     string            `json:"slug"`
	Title    string            `json:"title"`
	Fallback bool              `json:"fallback"`
	Links    map[string]string `json:"links"`
}

func newTestMemory(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestTypedCache_BasicOperations(t *testing.T) {
	cache := NewTypedCache[testView](newTestMemory(t), time.Hour)
	ctx := context.Background()

	view := &testView{Slug: "webdesign-tips", Title: "Webdesign tips", Fallback: true,
		Links: map[string]string{"nl": "webdesign-tips"}}

	if err := cache.Set(ctx, "view:1", view); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := cache.Get(ctx, "view:1")
	if !found {
		t.Fatal("expected to find view:1")
	}
	if got.Slug != view.Slug || got.Title != view.Title || !got.Fallback || got.Links["nl"] != "webdesign-tips" {
		t.Errorf("got %+v, want %+v", got, view)
	}

	if !cache.Has(ctx, "view:1") {
		t.Error("expected view:1 to exist")
	}
	if err := cache.Delete(ctx, "view:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := cache.Get(ctx, "view:1"); found {
		t.Error("expected view:1 to be deleted")
	}
}

func TestTypedCache_UndecodableValue(t *testing.T) {
	mem := newTestMemory(t)
	ctx := context.Background()
	_ = mem.Set(ctx, "view:bad", []byte("not json"), 0)

	cache := NewTypedCache[testView](mem, time.Hour)
	if _, found := cache.Get(ctx, "view:bad"); found {
		t.Error("expected undecodable value to be reported as missing")
	}
}

func TestTypedCache_SetWithTTL(t *testing.T) {
	cache := NewTypedCache[testView](newTestMemory(t), time.Hour)
	ctx := context.Background()

	if err := cache.SetWithTTL(ctx, "view:1", &testView{Slug: "a"}, 50*time.Millisecond); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}
	if _, found := cache.Get(ctx, "view:1"); !found {
		t.Error("expected view:1 to exist immediately")
	}

	time.Sleep(60 * time.Millisecond)

	if _, found := cache.Get(ctx, "view:1"); found {
		t.Error("expected view:1 to be expired")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	cache := NewTypedCache[testView](newTestMemory(t), time.Hour)
	ctx := context.Background()

	calls := 0
	compute := func() (*testView, error) {
		calls++
		return &testView{Slug: "seo-gids"}, nil
	}

	v, hit, err := cache.GetOrSet(ctx, "view:seo", compute)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if hit {
		t.Error("first call should be a miss")
	}
	if v.Slug != "seo-gids" {
		t.Errorf("got slug %q", v.Slug)
	}

	v, hit, err = cache.GetOrSet(ctx, "view:seo", compute)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if !hit {
		t.Error("second call should be a hit")
	}
	if v.Slug != "seo-gids" {
		t.Errorf("got slug %q", v.Slug)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestTypedCache_GetOrSetSharesConcurrentMiss(t *testing.T) {
	cache := NewTypedCache[testView](newTestMemory(t), time.Hour)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() (*testView, error) {
		calls.Add(1)
		<-release
		return &testView{Slug: "seo-gids"}, nil
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := cache.GetOrSet(ctx, "view:seo", compute)
			if err != nil || v.Slug != "seo-gids" {
				t.Errorf("GetOrSet = %+v, %v", v, err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("compute called %d times, want 1", n)
	}
}

func TestTypedCache_GetOrSetError(t *testing.T) {
	cache := NewTypedCache[testView](newTestMemory(t), time.Hour)
	ctx := context.Background()

	boom := errors.New("boom")
	_, _, err := cache.GetOrSet(ctx, "view:x", func() (*testView, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if cache.Has(ctx, "view:x") {
		t.Error("failed computation must not be cached")
	}
}

func TestTypedCache_Clear(t *testing.T) {
	cache := NewTypedCache[testView](newTestMemory(t), time.Hour)
	ctx := context.Background()

	_ = cache.Set(ctx, "a", &testView{Slug: "a"})
	_ = cache.Set(ctx, "b", &testView{Slug: "b"})
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cache.Has(ctx, "a") || cache.Has(ctx, "b") {
		t.Error("expected cache to be empty after Clear")
	}
}
