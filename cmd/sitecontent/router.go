// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/sitecontent/internal/handler"
	"github.com/olegiv/sitecontent/internal/handler/api"
	"github.com/olegiv/sitecontent/internal/metrics"
	"github.com/olegiv/sitecontent/internal/middleware"
)

type routerDeps struct {
	api      *api.Handler
	health   *handler.HealthHandler
	metrics  *metrics.Recorder
	limiter  *middleware.RateLimiter // nil disables rate limiting
	timeout  time.Duration
	devTrace bool // log every request
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if d.devTrace {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(d.metrics.Middleware)
	r.Use(middleware.StripTrailingSlash)
	r.Use(chimw.GetHead)

	r.Get("/health", d.health.Health)
	r.Get("/health/live", d.health.Liveness)
	r.Get("/health/ready", d.health.Readiness)
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())

	r.Group(func(r chi.Router) {
		if d.limiter != nil {
			r.Use(d.limiter.Middleware())
		}
		if d.timeout > 0 {
			r.Use(middleware.Timeout(d.timeout))
		}
		r.Mount(api.BasePath, d.api.Routes())
	})

	return r
}
