// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Log record levels as reported in metrics
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Log record categories
const (
	EventCategoryContent = "content"
	EventCategoryLocale  = "locale"
	EventCategoryHTTP    = "http"
	EventCategoryCache   = "cache"
	EventCategoryConfig  = "config"
	EventCategorySystem  = "system"
)
