// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/olegiv/sitecontent/internal/model"
)

// StaleTranslation records a translation entry that pointed at a document
// missing from the target locale and was therefore dropped.
type StaleTranslation struct {
	Document model.DocumentKey
	Target   model.Locale
	Slug     string
}

// collection holds the documents of one kind and locale.
type collection struct {
	docs   []model.Document
	bySlug map[string]int
}

// Store is an immutable snapshot of every document, loaded once.
// It is safe for concurrent use without locking because nothing is
// written after NewStore returns.
type Store struct {
	collections map[model.Kind]map[model.Locale]*collection
	kinds       []model.Kind
	locales     []model.Locale
	stale       []StaleTranslation
	loadedAt    time.Time
	version     string
}

// NewStore loads every kind and locale from src. Any load error aborts the
// build. Translation entries pointing at documents that do not exist in the
// target locale are removed.
func NewStore(ctx context.Context, src Source, kinds []model.Kind, locales []model.Locale, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		collections: make(map[model.Kind]map[model.Locale]*collection, len(kinds)),
		kinds:       slices.Clone(kinds),
		locales:     slices.Clone(locales),
	}

	for _, kind := range kinds {
		byLocale := make(map[model.Locale]*collection, len(locales))
		for _, locale := range locales {
			docs, err := src.LoadAll(ctx, kind, locale)
			if err != nil {
				return nil, fmt.Errorf("loading %s/%s: %w", kind, locale, err)
			}
			c := &collection{
				docs:   docs,
				bySlug: make(map[string]int, len(docs)),
			}
			for i, doc := range docs {
				c.bySlug[doc.Slug] = i
			}
			byLocale[locale] = c
		}
		s.collections[kind] = byLocale
	}

	s.pruneTranslations()
	for _, st := range s.stale {
		logger.Warn("dropping stale translation",
			"category", model.EventCategoryContent,
			"kind", st.Document.Kind,
			"locale", st.Document.Locale,
			"slug", st.Document.Slug,
			"target_locale", st.Target,
			"target_slug", st.Slug,
		)
	}

	version, err := s.fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprinting content: %w", err)
	}
	s.version = version
	s.loadedAt = time.Now()
	logger.Info("content store loaded", "documents", s.Count(), "stale_translations", len(s.stale), "version", version)
	return s, nil
}

// pruneTranslations drops translation entries whose target does not exist.
func (s *Store) pruneTranslations() {
	for _, kind := range s.kinds {
		for _, locale := range s.locales {
			c := s.collections[kind][locale]
			for i := range c.docs {
				doc := &c.docs[i]
				if len(doc.Translations) == 0 {
					continue
				}
				kept := make(map[model.Locale]string, len(doc.Translations))
				for _, target := range slices.Sorted(maps.Keys(doc.Translations)) {
					slug := doc.Translations[target]
					if s.has(kind, target, slug) {
						kept[target] = slug
						continue
					}
					s.stale = append(s.stale, StaleTranslation{Document: doc.Key(), Target: target, Slug: slug})
				}
				if len(kept) == 0 {
					kept = nil
				}
				doc.Translations = kept
			}
		}
	}
}

// fingerprint hashes every document in kind and locale order. Identical
// content yields the same value in every process.
func (s *Store) fingerprint() (string, error) {
	h := xxhash.New()
	enc := json.NewEncoder(h)
	for _, kind := range s.kinds {
		for _, locale := range s.locales {
			if _, err := fmt.Fprintf(h, "%s/%s\n", kind, locale); err != nil {
				return "", err
			}
			if err := enc.Encode(s.collections[kind][locale].docs); err != nil {
				return "", err
			}
		}
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

func (s *Store) has(kind model.Kind, locale model.Locale, slug string) bool {
	c, ok := s.collections[kind][locale]
	if !ok {
		return false
	}
	_, ok = c.bySlug[slug]
	return ok
}

// LoadAll returns the documents of a kind and locale in store order.
// The returned slice is a copy; the documents themselves must be treated as read-only.
func (s *Store) LoadAll(_ context.Context, kind model.Kind, locale model.Locale) ([]model.Document, error) {
	c, ok := s.collections[kind][locale]
	if !ok {
		return []model.Document{}, nil
	}
	return slices.Clone(c.docs), nil
}

// LoadOne returns a single document or ErrNotFound.
func (s *Store) LoadOne(_ context.Context, kind model.Kind, locale model.Locale, slug string) (model.Document, error) {
	c, ok := s.collections[kind][locale]
	if !ok {
		return model.Document{}, ErrNotFound
	}
	idx, ok := c.bySlug[slug]
	if !ok {
		return model.Document{}, ErrNotFound
	}
	return c.docs[idx], nil
}

// Count returns the total number of documents in the snapshot.
func (s *Store) Count() int {
	total := 0
	for _, byLocale := range s.collections {
		for _, c := range byLocale {
			total += len(c.docs)
		}
	}
	return total
}

// Counts returns document counts per kind and locale.
func (s *Store) Counts() map[model.Kind]map[model.Locale]int {
	out := make(map[model.Kind]map[model.Locale]int, len(s.collections))
	for kind, byLocale := range s.collections {
		out[kind] = make(map[model.Locale]int, len(byLocale))
		for locale, c := range byLocale {
			out[kind][locale] = len(c.docs)
		}
	}
	return out
}

// Stale returns the translation entries dropped during load.
func (s *Store) Stale() []StaleTranslation {
	return slices.Clone(s.stale)
}

// LoadedAt returns when the snapshot was built.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}

// Version identifies the snapshot content. Snapshots built from identical
// documents share a version.
func (s *Store) Version() string {
	return s.version
}

// Snapshot returns s. A Store is its own snapshot.
func (s *Store) Snapshot() *Store {
	return s
}

var (
	_ Source      = (*Store)(nil)
	_ Snapshotter = (*Store)(nil)
)
