// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/scheduler"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ContentDir    string   `env:"SITECONTENT_CONTENT_DIR" envDefault:"./content"`
	DefaultLocale string   `env:"SITECONTENT_DEFAULT_LOCALE" envDefault:"nl"`
	Locales       []string `env:"SITECONTENT_LOCALES" envDefault:"nl,en" envSeparator:","`
	ServerHost    string   `env:"SITECONTENT_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int      `env:"SITECONTENT_SERVER_PORT" envDefault:"8080"`
	Env           string   `env:"SITECONTENT_ENV" envDefault:"development"`
	LogLevel      string   `env:"SITECONTENT_LOG_LEVEL" envDefault:"info"`
	Watch         bool     `env:"SITECONTENT_WATCH" envDefault:"false"` // Reload content on file changes
	RelatedLimit  int      `env:"SITECONTENT_RELATED_LIMIT" envDefault:"3"`

	// Cron expression for periodic content reloads, empty disables them
	ReloadSchedule string `env:"SITECONTENT_RELOAD_SCHEDULE"`

	// Cache configuration
	RedisURL     string `env:"SITECONTENT_REDIS_URL"`                             // Optional Redis URL for shared view caching
	CachePrefix  string `env:"SITECONTENT_CACHE_PREFIX" envDefault:"sitecontent:"` // Redis key prefix
	CacheTTL     int    `env:"SITECONTENT_CACHE_TTL" envDefault:"3600"`            // Seconds
	CacheMaxSize int    `env:"SITECONTENT_CACHE_MAX_SIZE" envDefault:"10000"`      // Max memory cache entries

	// Per-IP rate limiting of the API, 0 disables it
	RateLimitRPS   float64 `env:"SITECONTENT_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"SITECONTENT_RATE_LIMIT_BURST" envDefault:"40"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// ContentLocales returns the configured locales. Load has validated them.
func (c Config) ContentLocales() []model.Locale {
	out := make([]model.Locale, 0, len(c.Locales))
	for _, s := range c.Locales {
		if l, ok := model.ParseLocale(s); ok {
			out = append(out, l)
		}
	}
	return out
}

// FallbackLocale returns the default locale.
func (c Config) FallbackLocale() model.Locale {
	l, _ := model.ParseLocale(c.DefaultLocale)
	return l
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the locale set and numeric limits.
func (c *Config) Validate() error {
	var errs []error

	seen := make(map[model.Locale]bool, len(c.Locales))
	for i, s := range c.Locales {
		l, ok := model.ParseLocale(s)
		if !ok {
			errs = append(errs, fmt.Errorf("SITECONTENT_LOCALES: unsupported locale %q", strings.TrimSpace(s)))
			continue
		}
		if seen[l] {
			errs = append(errs, fmt.Errorf("SITECONTENT_LOCALES: duplicate locale %q", l))
		}
		seen[l] = true
		c.Locales[i] = string(l)
	}
	if len(c.Locales) == 0 {
		errs = append(errs, errors.New("SITECONTENT_LOCALES must not be empty"))
	}

	def, ok := model.ParseLocale(c.DefaultLocale)
	switch {
	case !ok:
		errs = append(errs, fmt.Errorf("SITECONTENT_DEFAULT_LOCALE: unsupported locale %q", c.DefaultLocale))
	case !slices.Contains(c.Locales, string(def)):
		errs = append(errs, fmt.Errorf("SITECONTENT_DEFAULT_LOCALE %q is not in SITECONTENT_LOCALES", def))
	default:
		c.DefaultLocale = string(def)
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SITECONTENT_SERVER_PORT out of range: %d", c.ServerPort))
	}
	if c.RelatedLimit < 0 {
		errs = append(errs, fmt.Errorf("SITECONTENT_RELATED_LIMIT must not be negative: %d", c.RelatedLimit))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("SITECONTENT_CACHE_TTL must be positive: %d", c.CacheTTL))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("SITECONTENT_RATE_LIMIT_RPS must not be negative: %g", c.RateLimitRPS))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("SITECONTENT_RATE_LIMIT_BURST must be at least 1: %d", c.RateLimitBurst))
	}
	if c.ReloadSchedule != "" {
		if err := scheduler.ValidateSchedule(c.ReloadSchedule); err != nil {
			errs = append(errs, fmt.Errorf("SITECONTENT_RELOAD_SCHEDULE: %w", err))
		}
	}
	if strings.TrimSpace(c.ContentDir) == "" {
		errs = append(errs, errors.New("SITECONTENT_CONTENT_DIR must not be empty"))
	}

	return errors.Join(errs...)
}
