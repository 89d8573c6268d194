// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for locale negotiation,
// rate limiting and request timeouts.
package middleware

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys set by this package.
const (
	ContextKeyLocale       ContextKey = "locale"
	ContextKeyLocaleSource ContextKey = "locale_source"
)
