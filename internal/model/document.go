// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Document is a parsed content entry (blog post or knowledge base guide).
// Documents are built once by the content loader and never mutated.
type Document struct {
	Slug           string            `json:"slug"`
	Locale         Locale            `json:"locale"`
	Kind           Kind              `json:"kind"`
	Category       string            `json:"category,omitempty"`
	CategorySlug   string            `json:"category_slug,omitempty"`
	Title          string            `json:"title"`
	Excerpt        string            `json:"excerpt,omitempty"`
	Date           string            `json:"date,omitempty"` // display string in the document locale
	PublishedAt    time.Time         `json:"published_at,omitzero"`
	ReadTime       string            `json:"read_time,omitempty"`
	ReadingMinutes int               `json:"reading_minutes,omitempty"`
	Body           string            `json:"body"`
	Author         string            `json:"author,omitempty"`
	Featured       bool              `json:"featured"`
	Tags           []string          `json:"tags,omitempty"`
	Translations   map[Locale]string `json:"translations,omitempty"` // locale -> slug in that locale
	SourcePath     string            `json:"-"`
}

// Key identifies a document within its kind.
func (d *Document) Key() DocumentKey {
	return DocumentKey{Kind: d.Kind, Locale: d.Locale, Slug: d.Slug}
}

// HasCategory returns true if the document is assigned to a category.
func (d *Document) HasCategory() bool {
	return d.Category != ""
}

// DocumentKey is the unique identity of a document.
type DocumentKey struct {
	Kind   Kind
	Locale Locale
	Slug   string
}

// Category is derived by grouping documents of one kind and locale.
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Heading is an in-body section heading used for a table of contents.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Neighbors holds the adjacent documents in locale order.
type Neighbors struct {
	Previous *Document `json:"previous,omitempty"`
	Next     *Document `json:"next,omitempty"`
}

// ResolvedView is the page-ready result for a single document request.
type ResolvedView struct {
	Document        Document          `json:"document"`
	IsFallback      bool              `json:"is_fallback"`
	RequestedLocale Locale            `json:"requested_locale"`
	ResolvedLocale  Locale            `json:"resolved_locale"`
	Category        *Category         `json:"category,omitempty"`
	ReadTime        string            `json:"read_time,omitempty"`
	Related         []Document        `json:"related"`
	Previous        *Document         `json:"previous,omitempty"`
	Next            *Document         `json:"next,omitempty"`
	Headings        []Heading         `json:"headings"`
	Alternates      map[Locale]string `json:"alternates,omitempty"`
	Notice          string            `json:"notice,omitempty"`
}
