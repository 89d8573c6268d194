// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the service logger. Records at WARN and above are
// also counted per level and category so operators can alert on them.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/olegiv/sitecontent/internal/model"
)

// RecordCounter receives one call per counted log record.
type RecordCounter interface {
	ObserveLogRecord(level, category string)
}

// MetricsHandler is a slog.Handler that wraps another handler and counts
// records at or above its level.
type MetricsHandler struct {
	inner    slog.Handler
	counter  RecordCounter
	level    slog.Level
	category string // set through WithAttrs
}

// NewMetricsHandler wraps inner and counts WARN and ERROR records.
func NewMetricsHandler(inner slog.Handler, counter RecordCounter) *MetricsHandler {
	return NewMetricsHandlerWithLevel(inner, counter, slog.LevelWarn)
}

// NewMetricsHandlerWithLevel creates a MetricsHandler with a custom minimum level.
func NewMetricsHandlerWithLevel(inner slog.Handler, counter RecordCounter, level slog.Level) *MetricsHandler {
	return &MetricsHandler{inner: inner, counter: counter, level: level}
}

// Enabled implements slog.Handler.
func (h *MetricsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *MetricsHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level && h.counter != nil {
		h.counter.ObserveLogRecord(eventLevel(r.Level), h.extractCategory(r))
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *MetricsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		if a.Key == "category" {
			clone.category = a.Value.String()
		}
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *MetricsHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory returns the record's "category" attribute, the category
// bound with WithAttrs, or one inferred from the message.
func (h *MetricsHandler) extractCategory(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}
	if h.category != "" {
		return h.category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "translation") || strings.Contains(msg, "locale") || strings.Contains(msg, "fallback"):
		return model.EventCategoryLocale
	case strings.Contains(msg, "content") || strings.Contains(msg, "document") || strings.Contains(msg, "reload"):
		return model.EventCategoryContent
	case strings.Contains(msg, "request") || strings.Contains(msg, "http") || strings.Contains(msg, "server"):
		return model.EventCategoryHTTP
	case strings.Contains(msg, "config"):
		return model.EventCategoryConfig
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return model.EventCategoryCache
	default:
		return model.EventCategorySystem
	}
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w at level, counting warnings and
// errors into counter when it is not nil.
func New(w io.Writer, level slog.Level, counter RecordCounter) *slog.Logger {
	var h slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	if counter != nil {
		h = NewMetricsHandler(h, counter)
	}
	return slog.New(h)
}
