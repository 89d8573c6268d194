// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// StripTrailingSlash redirects GET and HEAD requests whose path ends in one
// or more slashes to the path without them (HTTP 301), so that
// /api/v1/nl/blog/ and /api/v1/nl/blog share one canonical URL. The root
// path is left alone and other methods pass through unchanged. The target
// is always a single-slash absolute path on this host.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" || !strings.HasSuffix(path, "/") ||
			(r.Method != http.MethodGet && r.Method != http.MethodHead) {
			next.ServeHTTP(w, r)
			return
		}

		// Leading slashes are collapsed so "//host/" cannot become a
		// protocol-relative Location.
		target := "/" + strings.Trim(path, "/")
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}
