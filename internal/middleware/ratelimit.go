// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
)

// DefaultMaxLimiters bounds the number of tracked client addresses.
const DefaultMaxLimiters = 10000

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

func (lc *limiterCache[K]) size() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// clearIfExceeds clears all entries if the cache exceeds maxSize.
// Returns true if the cache was cleared.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// RateLimiter limits requests per client IP address.
type RateLimiter struct {
	cache      *limiterCache[string]
	maxEntries int
	logger     *slog.Logger
}

// NewRateLimiter creates a per-IP rate limiter allowing rps requests per
// second with the given burst.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		cache:      newLimiterCache[string](rps, burst),
		maxEntries: DefaultMaxLimiters,
		logger:     logger,
	}
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.cache.get(ip).Allow()
}

// Middleware returns the rate limiting middleware. Rejected requests get a
// JSON 429 response with a Retry-After hint.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	retryAfter := "1"
	if rl.cache.rate > 0 {
		retryAfter = strconv.Itoa(max(1, int(1/float64(rl.cache.rate))))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !rl.Allow(ip) {
				rl.logger.Warn("http rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", retryAfter)
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Sweep drops all limiters once more than the maximum number of addresses
// is tracked. It runs as a scheduled job.
func (rl *RateLimiter) Sweep(context.Context) error {
	if rl.cache.clearIfExceeds(rl.maxEntries) {
		rl.logger.Info("cleared http rate limiters due to size")
	}
	return nil
}

// clientIP returns the host part of r.RemoteAddr. Proxy headers are
// resolved earlier by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
