// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the operational HTTP handlers of the content
// service. Content endpoints live in the api subpackage.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/sitecontent/internal/cache"
	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/scheduler"
	"github.com/olegiv/sitecontent/internal/version"
)

// Health check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// pingTimeout bounds the cache connectivity check.
const pingTimeout = 2 * time.Second

// SnapshotSource returns the content snapshot currently served.
// *content.Live satisfies it.
type SnapshotSource interface {
	Store() *content.Store
}

// pinger is implemented by cache backends with a remote connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// JobLister reports the scheduled jobs. *scheduler.Scheduler satisfies it.
type JobLister interface {
	List() []scheduler.JobInfo
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	snapshots SnapshotSource
	cache     cache.Cacher
	jobs      JobLister
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler. c may be nil when view
// caching is disabled.
func NewHealthHandler(snapshots SnapshotSource, c cache.Cacher, info version.Info) *HealthHandler {
	return &HealthHandler{
		snapshots: snapshots,
		cache:     c,
		version:   info,
		startTime: time.Now(),
	}
}

// SetJobs makes verbose health output list the scheduled jobs.
func (h *HealthHandler) SetJobs(jobs JobLister) {
	h.jobs = jobs
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string              `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
	Uptime    string              `json:"uptime"`
	Version   string              `json:"version"`
	Content   *ContentInfo        `json:"content,omitempty"`
	Checks    map[string]Check    `json:"checks"`
	System    *SystemInfo         `json:"system,omitempty"`
	Jobs      []scheduler.JobInfo `json:"jobs,omitempty"`
}

// ContentInfo describes the served content snapshot.
type ContentInfo struct {
	Documents int                                 `json:"documents"`
	LoadedAt  time.Time                           `json:"loaded_at"`
	Counts    map[model.Kind]map[model.Locale]int `json:"counts"`
	Stale     int                                 `json:"stale_translations"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health requests. The response includes system
// details when called with ?verbose=true.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	contentCheck, info := h.checkContent()
	cacheCheck := h.checkCache(r.Context())

	overall := StatusHealthy
	switch {
	case contentCheck.Status == StatusUnhealthy:
		overall = StatusUnhealthy
	case cacheCheck.Status != StatusHealthy:
		// Views are recomputed without the cache, so content is still served.
		overall = StatusDegraded
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Version,
		Content:   info,
		Checks: map[string]Check{
			"content": contentCheck,
			"cache":   cacheCheck,
		},
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = getSystemInfo()
		if h.jobs != nil {
			status.Jobs = h.jobs.List()
		}
	}

	code := http.StatusOK
	if overall == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. The service is ready once a content
// snapshot has been loaded.
func (h *HealthHandler) Readiness(w http.ResponseWriter, _ *http.Request) {
	check, _ := h.checkContent()
	if check.Status == StatusUnhealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": check.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandler) checkContent() (Check, *ContentInfo) {
	if h.snapshots == nil {
		return Check{Status: StatusUnhealthy, Message: "No content source"}, nil
	}
	s := h.snapshots.Store()
	if s == nil {
		return Check{Status: StatusUnhealthy, Message: "Content not loaded"}, nil
	}

	info := &ContentInfo{
		Documents: s.Count(),
		LoadedAt:  s.LoadedAt(),
		Counts:    s.Counts(),
		Stale:     len(s.Stale()),
	}
	return Check{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%d documents", info.Documents),
	}, info
}

// checkCache verifies cache connectivity for backends that support it.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cache == nil {
		return Check{Status: StatusHealthy, Message: "Disabled"}
	}
	p, ok := h.cache.(pinger)
	if !ok {
		return Check{Status: StatusHealthy, Message: "In-memory"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start)
	if err != nil {
		return Check{
			Status:  StatusUnhealthy,
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	return Check{
		Status:  StatusHealthy,
		Message: "Connected",
		Latency: latency.String(),
	}
}

// getSystemInfo returns system-level metrics.
func getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes formats bytes into a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
