// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package resolve maps (kind, slug, locale) requests to documents, falling
// back to the default locale when a translation does not exist yet.
package resolve

import (
	"context"
	"errors"
	"log/slog"

	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/model"
)

// Resolution is the outcome of a successful Resolve call.
type Resolution struct {
	Document        model.Document
	IsFallback      bool
	RequestedLocale model.Locale
	ResolvedLocale  model.Locale
}

// Resolver resolves documents against a content source.
// It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	src     content.Source
	locales []model.Locale
	logger  *slog.Logger
}

// New creates a resolver over src. locales is the set used for language
// switcher alternates; it defaults to model.Locales.
func New(src content.Source, locales []model.Locale, logger *slog.Logger) *Resolver {
	if len(locales) == 0 {
		locales = model.Locales
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{src: src, locales: locales, logger: logger}
}

// Locales returns the locales the resolver knows about.
func (r *Resolver) Locales() []model.Locale {
	return r.locales
}

// Resolve looks the slug up in the requested locale first and in the fallback
// locale second. It returns content.ErrNotFound when neither has it. Any other
// load error is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, kind model.Kind, slug string, locale, fallback model.Locale) (Resolution, error) {
	doc, err := r.src.LoadOne(ctx, kind, locale, slug)
	if err == nil {
		return Resolution{Document: doc, RequestedLocale: locale, ResolvedLocale: locale}, nil
	}
	if !errors.Is(err, content.ErrNotFound) {
		return Resolution{}, err
	}
	if locale == fallback {
		return Resolution{}, content.ErrNotFound
	}

	doc, err = r.src.LoadOne(ctx, kind, fallback, slug)
	if err != nil {
		return Resolution{}, err
	}

	r.logger.Debug("serving fallback locale",
		"category", model.EventCategoryLocale,
		"kind", kind,
		"slug", slug,
		"requested", locale,
		"resolved", fallback,
	)
	return Resolution{Document: doc, IsFallback: true, RequestedLocale: locale, ResolvedLocale: fallback}, nil
}

// TranslatedSlug returns the slug of doc's counterpart in target.
//
// The translations map of doc is checked first and only trusted when the
// target document exists. Without a usable forward entry a document in target
// that lists doc as its own translation is accepted, and finally a document
// with the same slug.
func (r *Resolver) TranslatedSlug(ctx context.Context, doc model.Document, target model.Locale) (string, bool) {
	if target == doc.Locale {
		return doc.Slug, true
	}

	if slug, ok := doc.Translations[target]; ok && r.exists(ctx, doc.Kind, target, slug) {
		return slug, true
	}

	docs, err := r.src.LoadAll(ctx, doc.Kind, target)
	if err != nil {
		r.logger.Warn("translation lookup failed",
			"category", model.EventCategoryLocale, "kind", doc.Kind, "locale", target, "error", err)
		return "", false
	}
	for i := range docs {
		if docs[i].Translations[doc.Locale] == doc.Slug {
			return docs[i].Slug, true
		}
	}
	for i := range docs {
		if docs[i].Slug == doc.Slug {
			return doc.Slug, true
		}
	}
	return "", false
}

// Redirect reports the slug a client should be redirected to instead of
// being shown fallback content. It returns false when the request resolves
// exactly, when nothing resolves, or when no translation exists under a
// different slug.
func (r *Resolver) Redirect(ctx context.Context, kind model.Kind, slug string, locale, fallback model.Locale) (string, bool, error) {
	res, err := r.Resolve(ctx, kind, slug, locale, fallback)
	if err != nil {
		return "", false, err
	}
	if !res.IsFallback {
		return "", false, nil
	}
	target, ok := r.TranslatedSlug(ctx, res.Document, locale)
	if !ok || target == slug {
		return "", false, nil
	}
	return target, true, nil
}

// Alternates maps every locale that has a counterpart of doc to the slug
// used there. doc's own locale is always included.
func (r *Resolver) Alternates(ctx context.Context, doc model.Document) map[model.Locale]string {
	out := make(map[model.Locale]string, len(r.locales))
	out[doc.Locale] = doc.Slug
	for _, l := range r.locales {
		if l == doc.Locale {
			continue
		}
		if slug, ok := r.TranslatedSlug(ctx, doc, l); ok {
			out[l] = slug
		}
	}
	return out
}

func (r *Resolver) exists(ctx context.Context, kind model.Kind, locale model.Locale, slug string) bool {
	_, err := r.src.LoadOne(ctx, kind, locale, slug)
	return err == nil
}
