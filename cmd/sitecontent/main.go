// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command sitecontent serves blog posts and knowledge base guides as a JSON
// API with locale fallback.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/sitecontent/internal/cache"
	"github.com/olegiv/sitecontent/internal/config"
	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/handler"
	"github.com/olegiv/sitecontent/internal/handler/api"
	"github.com/olegiv/sitecontent/internal/i18n"
	"github.com/olegiv/sitecontent/internal/logging"
	"github.com/olegiv/sitecontent/internal/metrics"
	"github.com/olegiv/sitecontent/internal/middleware"
	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/scheduler"
	"github.com/olegiv/sitecontent/internal/service"
	"github.com/olegiv/sitecontent/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "sitecontent - content API with locale fallback\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECONTENT_CONTENT_DIR     Content directory (default: ./content)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECONTENT_DEFAULT_LOCALE  Fallback locale (default: nl)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECONTENT_LOCALES         Served locales (default: nl,en)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECONTENT_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECONTENT_WATCH           Reload content on file changes (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECONTENT_RELOAD_SCHEDULE Cron expression for periodic content reloads (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECONTENT_REDIS_URL       Redis URL for shared view caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Printf("sitecontent %s\n", versionInfo)
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	recorder := metrics.NewRecorder(nil)
	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), recorder)
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	i18n.SetDefaultLanguage(cfg.DefaultLocale)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	locales := cfg.ContentLocales()
	build := func(ctx context.Context) (*content.Store, error) {
		loader := content.NewLoader(os.DirFS(cfg.ContentDir), logger)
		return content.NewStore(ctx, loader, model.Kinds, locales, logger)
	}

	// A malformed document stops startup.
	slog.Info("loading content", "dir", cfg.ContentDir, "locales", cfg.Locales)
	live, err := content.NewLive(ctx, build, logger)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	recorder.SetDocumentCounts(live.Store().Counts())
	slog.Info("content loaded", "documents", live.Store().Count(), "stale_translations", len(live.Store().Stale()))

	cacheCfg := cache.DefaultCacheConfig()
	cacheCfg.DefaultTTL = cfg.CacheTTLDuration()
	cacheCfg.MaxSize = cfg.CacheMaxSize
	cacheCfg.Prefix = cfg.CachePrefix
	if cfg.UseRedisCache() {
		cacheCfg.Type = cache.CacheBackendRedis
		cacheCfg.RedisURL = cfg.RedisURL
	}
	views, err := cache.NewCache(cacheCfg, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := views.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	svc := service.NewContentService(live, service.Options{
		DefaultLocale: cfg.FallbackLocale(),
		Locales:       locales,
		RelatedLimit:  cfg.RelatedLimit,
		Cache:         views,
		CacheTTL:      cfg.CacheTTLDuration(),
		Metrics:       recorder,
		Logger:        logger,
	})
	// A shared Redis may still hold views built from older content.
	_ = svc.InvalidateViews(ctx)

	live.OnReload(func(s *content.Store) {
		_ = svc.InvalidateViews(ctx)
		recorder.SetDocumentCounts(s.Counts())
		recorder.ObserveReload(true)
	})
	live.OnReloadError(func(error) {
		recorder.ObserveReload(false)
	})

	if cfg.Watch {
		go func() {
			slog.Info("watching content for changes", "dir", cfg.ContentDir)
			if err := live.Watch(ctx, cfg.ContentDir); err != nil {
				slog.Error("content watcher stopped", "category", model.EventCategoryContent, "error", err)
			}
		}()
	}

	sched := scheduler.New(logger)
	if cfg.ReloadSchedule != "" {
		if err := sched.Add(ctx, "content-reload", "Rebuild the content snapshot", cfg.ReloadSchedule, live.Reload); err != nil {
			return fmt.Errorf("scheduling content reload: %w", err)
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
		if err := sched.Add(ctx, "ratelimit-sweep", "Drop per-IP limiters when too many are tracked", "@every 10m", limiter.Sweep); err != nil {
			return fmt.Errorf("scheduling rate limiter sweep: %w", err)
		}
	}

	sched.Start()
	defer sched.Stop()

	health := handler.NewHealthHandler(live, views, versionInfo)
	health.SetJobs(sched)

	r := newRouter(routerDeps{
		api:      api.NewHandler(svc, logger),
		health:   health,
		metrics:  recorder,
		limiter:  limiter,
		timeout:  30 * time.Second,
		devTrace: cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
