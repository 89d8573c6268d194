// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes the Prometheus instruments of the content service.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/sitecontent/internal/model"
)

const namespace = "sitecontent"

// Resolve outcomes.
const (
	OutcomeExact    = "exact"
	OutcomeFallback = "fallback"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder holds the registered collectors.
type Recorder struct {
	registry        *prom.Registry
	resolves        *prom.CounterVec
	viewCache       *prom.CounterVec
	logRecords      *prom.CounterVec
	reloads         *prom.CounterVec
	documents       *prom.GaugeVec
	requests        *prom.CounterVec
	requestDuration *prom.HistogramVec
}

// NewRecorder creates the collectors and registers them on reg. A nil reg
// gets a fresh registry with the Go and process collectors.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	r := &Recorder{
		registry: reg,
		resolves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Document resolutions by kind and outcome",
		}, []string{"kind", "outcome"}),
		viewCache: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_total",
			Help:      "Resolved view cache lookups by result",
		}, []string{"result"}),
		logRecords: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "log_records_total",
			Help:      "Warning and error log records by level and category",
		}, []string{"level", "category"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "content_reloads_total",
			Help:      "Content snapshot rebuilds by result",
		}, []string{"result"}),
		documents: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "documents",
			Help:      "Documents in the current snapshot",
		}, []string{"kind", "locale"}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(r.resolves, r.viewCache, r.logRecords, r.reloads, r.documents, r.requests, r.requestDuration)
	return r
}

// Registry returns the registry the collectors are registered on.
func (r *Recorder) Registry() *prom.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveResolve counts one resolution outcome.
func (r *Recorder) ObserveResolve(kind model.Kind, outcome string) {
	if r == nil {
		return
	}
	r.resolves.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveViewCache counts a view cache hit or miss.
func (r *Recorder) ObserveViewCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.viewCache.WithLabelValues(result).Inc()
}

// ObserveLogRecord counts a log record.
func (r *Recorder) ObserveLogRecord(level, category string) {
	if r == nil {
		return
	}
	r.logRecords.WithLabelValues(level, category).Inc()
}

// ObserveReload counts a content reload.
func (r *Recorder) ObserveReload(ok bool) {
	if r == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	r.reloads.WithLabelValues(result).Inc()
}

// SetDocumentCounts replaces the document gauges with counts.
func (r *Recorder) SetDocumentCounts(counts map[model.Kind]map[model.Locale]int) {
	if r == nil {
		return
	}
	r.documents.Reset()
	for kind, byLocale := range counts {
		for locale, n := range byLocale {
			r.documents.WithLabelValues(string(kind), string(locale)).Set(float64(n))
		}
	}
}

// ResolveCounter returns the resolve counter for kind and outcome. It is
// meant for tests and diagnostics.
func (r *Recorder) ResolveCounter(kind model.Kind, outcome string) prom.Counter {
	return r.resolves.WithLabelValues(string(kind), outcome)
}
