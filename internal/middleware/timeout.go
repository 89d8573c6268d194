// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/olegiv/sitecontent/internal/model"
)

// Timeout applies a deadline to the request context. If the handler has not
// written a response when the deadline passes, a JSON 503 is sent and later
// writes from the handler are discarded. The handler runs on its own
// goroutine, so a panic there is recovered here and answered with a JSON
// 500; http.ErrAbortHandler is re-raised on the serving goroutine.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			panicked := make(chan any, 1)
			tw := &timeoutWriter{ResponseWriter: w, header: make(http.Header)}

			go func() {
				defer func() {
					if p := recover(); p != nil {
						if p != http.ErrAbortHandler {
							slog.Error("panic in http handler",
								"category", model.EventCategoryHTTP,
								"path", r.URL.Path, "panic", p, "stack", string(debug.Stack()))
						}
						panicked <- p
					}
					close(done)
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				select {
				case p := <-panicked:
					if p == http.ErrAbortHandler {
						panic(p)
					}
					if !tw.wroteHeader {
						tw.wroteHeader = true
						WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
					}
					return
				default:
				}
				tw.flush()
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if !tw.wroteHeader {
					WriteAPIError(w, http.StatusServiceUnavailable, "timeout", "Request timeout", nil)
				}
			}
		})
	}
}

// timeoutWriter buffers headers until the handler writes, so that a timeout
// response never mixes with a partially prepared one.
type timeoutWriter struct {
	http.ResponseWriter
	mu          sync.Mutex
	header      http.Header
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

// flush copies buffered headers to the underlying writer. Callers hold mu.
func (tw *timeoutWriter) flush() {
	if tw.wroteHeader {
		return
	}
	dst := tw.ResponseWriter.Header()
	for k, v := range tw.header {
		dst[k] = v
	}
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	if tw.wroteHeader {
		return
	}
	tw.flush()
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	tw.writeHeaderLocked(http.StatusOK)
	return tw.ResponseWriter.Write(b)
}
