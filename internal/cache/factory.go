// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/olegiv/sitecontent/internal/model"
)

// Backend names reported by NewCacheWithInfo.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig holds configuration for cache creation.
type CacheConfig struct {
	// Type is the cache backend type: "memory" or "redis"
	Type string

	// RedisURL is the Redis connection URL (only for redis type)
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string

	// FallbackToMemory creates a memory cache when Redis is unreachable
	FallbackToMemory bool

	DefaultTTL      time.Duration
	MaxSize         int // memory cache only, 0 = unlimited
	CleanupInterval time.Duration
}

// CacheResult is the outcome of NewCacheWithInfo.
type CacheResult struct {
	Cache       Cacher
	BackendType string
	IsFallback  bool
	// Err is the Redis error that triggered the fallback.
	Err error
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Type:             CacheBackendMemory,
		Prefix:           DefaultPrefix,
		FallbackToMemory: true,
		DefaultTTL:       time.Hour,
		MaxSize:          10000,
		CleanupInterval:  time.Minute,
	}
}

// NewCacheWithInfo creates the configured backend and reports which one
// was actually used.
func NewCacheWithInfo(cfg CacheConfig) (CacheResult, error) {
	if cfg.Type == CacheBackendRedis && cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			return CacheResult{Cache: rc, BackendType: CacheBackendRedis}, nil
		}
		if !cfg.FallbackToMemory {
			return CacheResult{}, fmt.Errorf("connecting to redis at %s: %w", SanitizeRedisURL(cfg.RedisURL), err)
		}
		return CacheResult{Cache: newMemory(cfg), BackendType: CacheBackendMemory, IsFallback: true, Err: err}, nil
	}

	return CacheResult{Cache: newMemory(cfg), BackendType: CacheBackendMemory}, nil
}

// NewCache creates a cache and logs the chosen backend.
func NewCache(cfg CacheConfig, logger *slog.Logger) (Cacher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	res, err := NewCacheWithInfo(cfg)
	if err != nil {
		return nil, err
	}
	if res.IsFallback {
		logger.Warn("redis unavailable, using memory cache",
			"category", model.EventCategoryCache, "redis_url", SanitizeRedisURL(cfg.RedisURL), "error", res.Err)
	} else {
		logger.Info("cache initialized", "backend", res.BackendType)
	}
	return res.Cache, nil
}

func newMemory(cfg CacheConfig) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL masks the password of a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
