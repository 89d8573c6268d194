// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/middleware"
	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/util"
)

// BasePath is where the content API is mounted.
const BasePath = "/api/v1"

// DocumentSummary is a document without its body, used in listings.
type DocumentSummary struct {
	Slug         string                  `json:"slug"`
	Locale       model.Locale            `json:"locale"`
	Kind         model.Kind              `json:"kind"`
	Category     string                  `json:"category,omitempty"`
	CategorySlug string                  `json:"category_slug,omitempty"`
	Title        string                  `json:"title"`
	Excerpt      string                  `json:"excerpt,omitempty"`
	Date         string                  `json:"date,omitempty"`
	PublishedAt  time.Time               `json:"published_at,omitzero"`
	ReadTime     string                  `json:"read_time,omitempty"`
	Author       string                  `json:"author,omitempty"`
	Featured     bool                    `json:"featured"`
	Tags         []string                `json:"tags,omitempty"`
	Translations map[model.Locale]string `json:"translations,omitempty"`
}

func toSummary(d model.Document) DocumentSummary {
	return DocumentSummary{
		Slug:         d.Slug,
		Locale:       d.Locale,
		Kind:         d.Kind,
		Category:     d.Category,
		CategorySlug: d.CategorySlug,
		Title:        d.Title,
		Excerpt:      d.Excerpt,
		Date:         d.Date,
		PublishedAt:  d.PublishedAt,
		ReadTime:     d.ReadTime,
		Author:       d.Author,
		Featured:     d.Featured,
		Tags:         d.Tags,
		Translations: d.Translations,
	}
}

// ViewResponse is a resolved document page with its language switcher.
type ViewResponse struct {
	model.ResolvedView
	Languages []model.TranslationLink `json:"languages"`
}

// Routes returns the content API router, to be mounted at BasePath.
//
//	GET /                               API status
//	GET /{lang}/{kind}                  document list, ?category=&page=&per_page=
//	GET /{lang}/{kind}/categories       categories
//	GET /{lang}/{kind}/{slug}           resolved document
//	GET /{lang}/{kind}/{slug}/outline   heading outline
//	GET /{kind}/{slug}                  resolved document in the negotiated locale
func (h *Handler) Routes() chi.Router {
	language := middleware.Language(h.svc.Locales(), h.svc.DefaultLocale())

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	r.Get("/", h.Status)
	r.Route("/{lang:[a-z][a-z]}", func(r chi.Router) {
		r.Use(language)
		r.Get("/{kind}", h.List)
		r.Get("/{kind}/categories", h.Categories)
		r.Get("/{kind}/{slug}", h.Show)
		r.Get("/{kind}/{slug}/outline", h.Outline)
	})
	r.With(language).Get("/{kind}/{slug}", h.ShowNegotiated)
	return r
}

// List handles GET /api/v1/{lang}/{kind}
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	locale, kind, ok := h.localeAndKind(w, r)
	if !ok {
		return
	}

	categorySlug := strings.TrimSpace(r.URL.Query().Get("category"))
	if categorySlug != "" && !util.IsValidSlug(categorySlug) {
		WriteNotFound(w, "Category not found")
		return
	}

	docs, category, err := h.svc.List(r.Context(), kind, locale, categorySlug)
	if err != nil {
		h.writeServiceError(w, r, err, "Category not found")
		return
	}

	page := parseIntParam(r, "page", 1, 1, 0)
	perPage := parseIntParam(r, "per_page", DefaultPerPage, 1, MaxPerPage)
	window, meta := paginate(docs, page, perPage)

	summaries := make([]DocumentSummary, 0, len(window))
	for _, d := range window {
		summaries = append(summaries, toSummary(d))
	}

	meta.Kind = kind
	meta.Locale = locale
	meta.Category = category

	w.Header().Set("Content-Language", locale.String())
	WriteSuccess(w, summaries, &meta)
}

// Categories handles GET /api/v1/{lang}/{kind}/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	locale, kind, ok := h.localeAndKind(w, r)
	if !ok {
		return
	}

	categories, err := h.svc.Categories(r.Context(), kind, locale)
	if err != nil {
		h.writeServiceError(w, r, err, "Not found")
		return
	}

	w.Header().Set("Content-Language", locale.String())
	WriteSuccess(w, categories, &Meta{Total: len(categories), Kind: kind, Locale: locale})
}

// Show handles GET /api/v1/{lang}/{kind}/{slug}
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	locale, ok := h.requestLocale(w, r)
	if !ok {
		return
	}
	h.show(w, r, locale)
}

// ShowNegotiated handles GET /api/v1/{kind}/{slug}. The locale comes from
// the preference cookie, then Accept-Language, then the default.
func (h *Handler) ShowNegotiated(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, middleware.GetLocale(r))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request, locale model.Locale) {
	kindParam := chi.URLParam(r, "kind")
	kind, ok := model.ParseKind(kindParam)
	if !ok {
		WriteNotFound(w, "Unknown content kind")
		return
	}
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		WriteNotFound(w, "Document not found")
		return
	}

	ctx := r.Context()
	target, redirect, err := h.svc.Redirect(ctx, kind, slug, locale)
	if err != nil {
		h.writeServiceError(w, r, err, "Document not found")
		return
	}
	if redirect {
		// Send the visitor to the translation instead of fallback content.
		http.Redirect(w, r, documentPath(locale, strings.ToLower(kindParam), target), http.StatusMovedPermanently)
		return
	}

	view, err := h.svc.View(ctx, kind, slug, locale)
	if err != nil {
		h.writeServiceError(w, r, err, "Document not found")
		return
	}

	w.Header().Set("Content-Language", view.ResolvedLocale.String())
	WriteSuccess(w, ViewResponse{
		ResolvedView: view,
		Languages:    model.TranslationLinks(h.svc.Locales(), view.Alternates),
	}, &Meta{
		Kind:            kind,
		Locale:          view.ResolvedLocale,
		IsFallback:      view.IsFallback,
		RequestedLocale: locale,
	})
}

// Outline handles GET /api/v1/{lang}/{kind}/{slug}/outline
// Only the exact locale is consulted.
func (h *Handler) Outline(w http.ResponseWriter, r *http.Request) {
	locale, kind, ok := h.localeAndKind(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		WriteNotFound(w, "Document not found")
		return
	}

	headings, err := h.svc.Outline(r.Context(), kind, locale, slug)
	if err != nil {
		h.writeServiceError(w, r, err, "Document not found")
		return
	}

	w.Header().Set("Content-Language", locale.String())
	WriteSuccess(w, headings, &Meta{Total: len(headings), Kind: kind, Locale: locale})
}

// requestLocale validates the {lang} route parameter and returns the locale
// to serve. An explicit ?lang= switch takes precedence over the path.
func (h *Handler) requestLocale(w http.ResponseWriter, r *http.Request) (model.Locale, bool) {
	locale, ok := model.ParseLocale(chi.URLParam(r, "lang"))
	if !ok || !h.svc.SupportsLocale(locale) {
		WriteNotFound(w, "Unsupported locale")
		return "", false
	}
	if middleware.GetLocaleSource(r) == middleware.SourceQuery {
		return middleware.GetLocale(r), true
	}
	return locale, true
}

func (h *Handler) localeAndKind(w http.ResponseWriter, r *http.Request) (model.Locale, model.Kind, bool) {
	locale, ok := h.requestLocale(w, r)
	if !ok {
		return "", "", false
	}
	kind, ok := model.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		WriteNotFound(w, "Unknown content kind")
		return "", "", false
	}
	return locale, kind, true
}

// writeServiceError maps content.ErrNotFound to 404 and logs anything else.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, content.ErrNotFound) {
		WriteNotFound(w, notFound)
		return
	}
	h.logger.Error("content request failed",
		"category", model.EventCategoryHTTP, "path", r.URL.Path, "error", err)
	WriteInternalError(w, "Failed to load content")
}

// documentPath builds the API path of a document.
func documentPath(locale model.Locale, kindSegment, slug string) string {
	return BasePath + "/" + locale.String() + "/" + kindSegment + "/" + slug
}
