// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service composes content resolution, presentation and caching
// into the operations the HTTP layer and CLI use.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/olegiv/sitecontent/internal/cache"
	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/i18n"
	"github.com/olegiv/sitecontent/internal/metrics"
	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/present"
	"github.com/olegiv/sitecontent/internal/resolve"
)

// DefaultRelatedLimit is the number of related documents shown per page.
const DefaultRelatedLimit = 3

// viewKeyPrefix namespaces resolved views in the cache.
const viewKeyPrefix = "view:"

// Options configures a ContentService. Zero values select defaults.
type Options struct {
	DefaultLocale model.Locale
	Locales       []model.Locale
	RelatedLimit  int
	Cache         cache.Cacher // nil disables view caching
	CacheTTL      time.Duration
	Metrics       *metrics.Recorder
	Logger        *slog.Logger
}

// ContentService answers page requests for blog posts and guides.
// It is safe for concurrent use.
type ContentService struct {
	src          content.Source
	resolver     *resolve.Resolver
	views        *cache.TypedCache[model.ResolvedView]
	metrics      *metrics.Recorder
	logger       *slog.Logger
	fallback     model.Locale
	locales      []model.Locale
	relatedLimit int
}

// NewContentService creates a ContentService reading from src.
func NewContentService(src content.Source, opts Options) *ContentService {
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = model.DefaultLocale
	}
	if len(opts.Locales) == 0 {
		opts.Locales = model.Locales
	}
	if opts.RelatedLimit == 0 {
		opts.RelatedLimit = DefaultRelatedLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &ContentService{
		src:          src,
		resolver:     resolve.New(src, opts.Locales, opts.Logger),
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		fallback:     opts.DefaultLocale,
		locales:      slices.Clone(opts.Locales),
		relatedLimit: opts.RelatedLimit,
	}
	if opts.Cache != nil {
		s.views = cache.NewTypedCache[model.ResolvedView](opts.Cache, opts.CacheTTL)
	}
	return s
}

// DefaultLocale returns the fallback locale.
func (s *ContentService) DefaultLocale() model.Locale {
	return s.fallback
}

// Locales returns the configured locales.
func (s *ContentService) Locales() []model.Locale {
	return slices.Clone(s.locales)
}

// SupportsLocale reports whether locale is configured.
func (s *ContentService) SupportsLocale(locale model.Locale) bool {
	return slices.Contains(s.locales, locale)
}

// ViewKey returns the cache key of a resolved view. A non-empty version
// ties the key to one content snapshot so views built before a reload are
// never served after it.
func ViewKey(version string, kind model.Kind, locale model.Locale, slug string) string {
	if version == "" {
		return fmt.Sprintf("%s%s:%s:%s", viewKeyPrefix, kind, locale, slug)
	}
	return fmt.Sprintf("%s%s:%s:%s:%s", viewKeyPrefix, version, kind, locale, slug)
}

// pinned is the source a single call reads from.
type pinned struct {
	src      content.Source
	resolver *resolve.Resolver
	version  string
}

// pin fixes the current snapshot for the duration of one call. Sources
// without snapshots are read directly and carry no version.
func (s *ContentService) pin() pinned {
	sn, ok := s.src.(content.Snapshotter)
	if !ok {
		return pinned{src: s.src, resolver: s.resolver}
	}
	st := sn.Snapshot()
	return pinned{src: st, resolver: resolve.New(st, s.locales, s.logger), version: st.Version()}
}

// View resolves a document and builds its page view. Unknown locales and
// missing documents return content.ErrNotFound.
func (s *ContentService) View(ctx context.Context, kind model.Kind, slug string, locale model.Locale) (model.ResolvedView, error) {
	if !s.SupportsLocale(locale) {
		s.metrics.ObserveResolve(kind, metrics.OutcomeNotFound)
		return model.ResolvedView{}, content.ErrNotFound
	}

	var (
		view *model.ResolvedView
		err  error
	)
	p := s.pin()
	if s.views != nil {
		var hit bool
		view, hit, err = s.views.GetOrSet(ctx, ViewKey(p.version, kind, locale, slug), func() (*model.ResolvedView, error) {
			return s.buildView(ctx, p, kind, slug, locale)
		})
		if err == nil {
			s.metrics.ObserveViewCache(hit)
		}
	} else {
		view, err = s.buildView(ctx, p, kind, slug, locale)
	}

	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.metrics.ObserveResolve(kind, metrics.OutcomeNotFound)
		} else {
			s.metrics.ObserveResolve(kind, metrics.OutcomeError)
			s.logger.Error("resolving document failed",
				"category", model.EventCategoryContent, "kind", kind, "slug", slug, "locale", locale, "error", err)
		}
		return model.ResolvedView{}, err
	}

	if view.IsFallback {
		s.metrics.ObserveResolve(kind, metrics.OutcomeFallback)
	} else {
		s.metrics.ObserveResolve(kind, metrics.OutcomeExact)
	}
	return *view, nil
}

func (s *ContentService) buildView(ctx context.Context, p pinned, kind model.Kind, slug string, locale model.Locale) (*model.ResolvedView, error) {
	res, err := p.resolver.Resolve(ctx, kind, slug, locale, s.fallback)
	if err != nil {
		return nil, err
	}

	siblings, err := p.src.LoadAll(ctx, kind, res.ResolvedLocale)
	if err != nil {
		return nil, err
	}

	notice := ""
	if res.IsFallback {
		notice = i18n.T(string(locale), "content.not_translated")
	}

	view := present.BuildView(res, siblings, s.relatedLimit, p.resolver.Alternates(ctx, res.Document), notice)
	return &view, nil
}

// Redirect returns the translated slug a client asking for slug in locale
// should be sent to, if any.
func (s *ContentService) Redirect(ctx context.Context, kind model.Kind, slug string, locale model.Locale) (string, bool, error) {
	if !s.SupportsLocale(locale) {
		return "", false, content.ErrNotFound
	}
	return s.pin().resolver.Redirect(ctx, kind, slug, locale, s.fallback)
}

// List returns the documents of a kind and locale in store order. With a
// non-empty categorySlug only that category is returned along with its
// details; an unknown category is content.ErrNotFound.
func (s *ContentService) List(ctx context.Context, kind model.Kind, locale model.Locale, categorySlug string) ([]model.Document, *model.Category, error) {
	if !s.SupportsLocale(locale) {
		return nil, nil, content.ErrNotFound
	}
	p := s.pin()
	if categorySlug == "" {
		docs, err := p.src.LoadAll(ctx, kind, locale)
		return docs, nil, err
	}
	cat, docs, err := p.resolver.DocumentsInCategory(ctx, kind, locale, categorySlug)
	if err != nil {
		return nil, nil, err
	}
	return docs, &cat, nil
}

// Categories returns the categories of a kind and locale.
func (s *ContentService) Categories(ctx context.Context, kind model.Kind, locale model.Locale) ([]model.Category, error) {
	if !s.SupportsLocale(locale) {
		return nil, content.ErrNotFound
	}
	return s.pin().resolver.Categories(ctx, kind, locale)
}

// Outline returns the heading outline of a document in exactly locale.
func (s *ContentService) Outline(ctx context.Context, kind model.Kind, locale model.Locale, slug string) ([]model.Heading, error) {
	doc, err := s.pin().src.LoadOne(ctx, kind, locale, slug)
	if err != nil {
		return nil, err
	}
	return present.Outline([]byte(doc.Body)), nil
}

// InvalidateViews drops every cached view. It is called after a content
// reload swaps in a new snapshot to reclaim the space held by views of
// the old version.
func (s *ContentService) InvalidateViews(ctx context.Context) error {
	if s.views == nil {
		return nil
	}
	if err := s.views.Clear(ctx); err != nil {
		s.logger.Warn("clearing view cache failed", "category", model.EventCategoryCache, "error", err)
		return err
	}
	return nil
}
