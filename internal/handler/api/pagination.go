// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
)

// List pagination defaults.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// parseIntParam parses an integer query parameter from the request.
// Returns defaultVal if the parameter is missing, invalid or outside
// [minVal, maxVal]. A zero bound is not checked.
func parseIntParam(r *http.Request, param string, defaultVal, minVal, maxVal int) int {
	str := r.URL.Query().Get(param)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	if minVal > 0 && val < minVal {
		return defaultVal
	}
	if maxVal > 0 && val > maxVal {
		return defaultVal
	}
	return val
}

// paginate returns the window of items for page and the pagination meta.
// Pages past the end yield an empty window.
func paginate[T any](items []T, page, perPage int) ([]T, Meta) {
	total := len(items)
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}

	meta := Meta{Total: total, Page: page, PerPage: perPage, Pages: pages}

	start := (page - 1) * perPage
	if start >= total {
		return []T{}, meta
	}
	end := min(start+perPage, total)
	return items[start:end], meta
}
