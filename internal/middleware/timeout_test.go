// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimeoutWriter() (*timeoutWriter, *httptest.ResponseRecorder) {
	rr := httptest.NewRecorder()
	return &timeoutWriter{ResponseWriter: rr, header: make(http.Header)}, rr
}

func TestTimeoutMiddlewareNormalRequest(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	rr := httptest.NewRecorder()
	Timeout(5*time.Second)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", rr.Body.String())
}

func TestTimeoutMiddlewareSlowRequest(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
			w.Header().Set("X-Late", "yes")
			_, _ = w.Write([]byte("too late"))
		}
	})

	rr := httptest.NewRecorder()
	Timeout(50*time.Millisecond)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "timeout", body.Error.Code)
	assert.NotContains(t, rr.Body.String(), "too late")
}

func TestTimeoutMiddlewareWithHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom-Header", "test-value")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	rr := httptest.NewRecorder()
	Timeout(5*time.Second)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "test-value", rr.Header().Get("X-Custom-Header"))
}

func TestTimeoutMiddlewareHeadersWithoutBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/elsewhere")
	})

	rr := httptest.NewRecorder()
	Timeout(5*time.Second)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "/elsewhere", rr.Header().Get("Location"))
}

func TestTimeoutWriterWriteHeader(t *testing.T) {
	tw, rr := newTestTimeoutWriter()

	tw.WriteHeader(http.StatusOK)
	assert.True(t, tw.wroteHeader)

	tw.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusOK, rr.Code, "second WriteHeader should be ignored")
}

func TestTimeoutWriterWrite(t *testing.T) {
	tw, rr := newTestTimeoutWriter()

	n, err := tw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, tw.wroteHeader)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTimeoutWriterDiscardsAfterTimeout(t *testing.T) {
	tw, rr := newTestTimeoutWriter()
	tw.timedOut = true

	_, err := tw.Write([]byte("late"))
	assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	assert.Empty(t, rr.Body.String())
}

func TestTimeoutMiddlewareHandlerPanic(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Partial", "yes")
		panic("boom")
	})

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		Timeout(5*time.Second)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nl/blog", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Partial"))

	var body APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Error.Code)
}

func TestTimeoutMiddlewareAbortHandlerPropagates(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		Timeout(5*time.Second)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
