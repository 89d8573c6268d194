// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content loads blog posts and knowledge base guides from a
// directory tree of front matter documents laid out as
// <kind>/<locale>/<slug>.mdx.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/util"
)

// Source provides documents by kind, locale and slug.
// Implementations must be safe for concurrent use.
type Source interface {
	// LoadAll returns every document of a kind and locale in store order
	// (newest first).
	LoadAll(ctx context.Context, kind model.Kind, locale model.Locale) ([]model.Document, error)

	// LoadOne returns a single document or ErrNotFound.
	LoadOne(ctx context.Context, kind model.Kind, locale model.Locale, slug string) (model.Document, error)
}

// Snapshotter is implemented by sources backed by immutable snapshots.
type Snapshotter interface {
	Snapshot() *Store
}

// Loader reads and parses documents from a filesystem on every call.
type Loader struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewLoader creates a loader rooted at fsys.
func NewLoader(fsys fs.FS, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fsys: fsys, logger: logger}
}

// dir returns the directory holding documents of a kind and locale.
func dir(kind model.Kind, locale model.Locale) string {
	return path.Join(kind.String(), locale.String())
}

// isContentFile reports whether name has a recognised content extension.
func isContentFile(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	return slices.Contains(Extensions, path.Ext(name))
}

// LoadAll reads every document of a kind and locale. The first malformed
// document aborts the load with a *ParseError. A missing directory yields
// an empty list.
func (l *Loader) LoadAll(ctx context.Context, kind model.Kind, locale model.Locale) ([]model.Document, error) {
	d := dir(kind, locale)
	entries, err := fs.ReadDir(l.fsys, d)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Document{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", d, err)
	}

	docs := make([]model.Document, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !isContentFile(entry.Name()) {
			continue
		}

		filePath := path.Join(d, entry.Name())
		doc, err := l.parseFile(filePath, kind, locale)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[doc.Slug]; dup {
			return nil, &ParseError{
				Path: filePath,
				Err:  fmt.Errorf("duplicate slug %q (already defined by %s)", doc.Slug, prev),
			}
		}
		seen[doc.Slug] = filePath
		docs = append(docs, doc)
	}

	SortDocuments(docs)

	l.logger.Debug("content loaded", "kind", kind, "locale", locale, "count", len(docs))
	return docs, nil
}

// LoadOne reads a single document. The file named after the slug is tried
// first; documents that override their slug in front matter are found by
// scanning the directory.
func (l *Loader) LoadOne(ctx context.Context, kind model.Kind, locale model.Locale, slug string) (model.Document, error) {
	if !util.IsValidSlug(slug) {
		return model.Document{}, ErrNotFound
	}

	d := dir(kind, locale)
	for _, ext := range Extensions {
		filePath := path.Join(d, slug+ext)
		doc, err := l.parseFile(filePath, kind, locale)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return model.Document{}, err
		}
		if doc.Slug == slug {
			return doc, nil
		}
	}

	docs, err := l.LoadAll(ctx, kind, locale)
	if err != nil {
		return model.Document{}, err
	}
	for _, doc := range docs {
		if doc.Slug == slug {
			return doc, nil
		}
	}
	return model.Document{}, ErrNotFound
}

// parseFile reads and parses one document. Read errors are returned
// unwrapped so callers can test for fs.ErrNotExist.
func (l *Loader) parseFile(filePath string, kind model.Kind, locale model.Locale) (model.Document, error) {
	data, err := fs.ReadFile(l.fsys, filePath)
	if err != nil {
		return model.Document{}, err
	}
	return ParseDocument(filePath, data, kind, locale)
}

// SortDocuments orders documents newest first. Documents without a
// machine-readable date go last; ties are broken by slug.
func SortDocuments(docs []model.Document) {
	slices.SortStableFunc(docs, func(a, b model.Document) int {
		switch {
		case a.PublishedAt.IsZero() && !b.PublishedAt.IsZero():
			return 1
		case !a.PublishedAt.IsZero() && b.PublishedAt.IsZero():
			return -1
		}
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
}

var _ Source = (*Loader)(nil)
