// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON content API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/service"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	svc    *service.ContentService
	logger *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *service.ContentService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and locale metadata.
type Meta struct {
	Total           int             `json:"total,omitempty"`
	Page            int             `json:"page,omitempty"`
	PerPage         int             `json:"per_page,omitempty"`
	Pages           int             `json:"pages,omitempty"`
	Kind            model.Kind      `json:"kind,omitempty"`
	Locale          model.Locale    `json:"locale,omitempty"`
	Category        *model.Category `json:"category,omitempty"`
	IsFallback      bool            `json:"is_fallback,omitempty"`
	RequestedLocale model.Locale    `json:"requested_locale,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	DefaultLocale model.Locale   `json:"default_locale"`
	Locales       []model.Locale `json:"locales"`
	Kinds         []model.Kind   `json:"kinds"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:        "ok",
		Version:       "v1",
		DefaultLocale: h.svc.DefaultLocale(),
		Locales:       h.svc.Locales(),
		Kinds:         model.Kinds,
	}, nil)
}
