// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecontent/internal/model"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder(prom.NewRegistry())

	r.ObserveResolve(model.KindBlog, OutcomeExact)
	r.ObserveResolve(model.KindBlog, OutcomeFallback)
	r.ObserveResolve(model.KindBlog, OutcomeFallback)
	r.ObserveViewCache(true)
	r.ObserveViewCache(false)
	r.ObserveViewCache(false)
	r.ObserveLogRecord(model.EventLevelWarning, model.EventCategoryContent)
	r.ObserveReload(false)

	assert.InDelta(t, 1, testutil.ToFloat64(r.resolves.WithLabelValues("blog", OutcomeExact)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.resolves.WithLabelValues("blog", OutcomeFallback)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.viewCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.viewCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.logRecords.WithLabelValues("warning", "content")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.reloads.WithLabelValues("failure")), 0)
}

func TestRecorder_DocumentCounts(t *testing.T) {
	r := NewRecorder(prom.NewRegistry())

	r.SetDocumentCounts(map[model.Kind]map[model.Locale]int{
		model.KindBlog: {model.LocaleNL: 4, model.LocaleEN: 2},
	})
	assert.InDelta(t, 4, testutil.ToFloat64(r.documents.WithLabelValues("blog", "nl")), 0)

	r.SetDocumentCounts(map[model.Kind]map[model.Locale]int{
		model.KindGuide: {model.LocaleNL: 1},
	})
	assert.Equal(t, 1, testutil.CollectAndCount(r.documents))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveResolve(model.KindBlog, OutcomeError)
		r.ObserveViewCache(true)
		r.ObserveLogRecord("error", "system")
		r.ObserveReload(true)
		r.SetDocumentCounts(nil)
	})
	assert.Nil(t, r.Registry())

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	r.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRecorder_MiddlewareAndHandler(t *testing.T) {
	r := NewRecorder(nil)

	router := chi.NewRouter()
	router.Use(r.Middleware)
	router.Get("/api/v1/{lang}/{kind}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Handle("/metrics", r.Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/en/blog", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.InDelta(t, 1, testutil.ToFloat64(r.requests.WithLabelValues("GET", "/api/v1/{lang}/{kind}", "404")), 0)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sitecontent_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
