// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	"github.com/olegiv/sitecontent/internal/frontmatter"
	"github.com/olegiv/sitecontent/internal/i18n"
	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/util"
)

// WordsPerMinute is the reading speed used when a document has no readTime.
const WordsPerMinute = 200

// Extensions lists the recognised content file extensions, in lookup order.
var Extensions = []string{".mdx", ".md"}

// dateLayouts are the accepted machine-readable front matter date formats.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDocument parses a single source file into a Document.
// Any failure is returned as a *ParseError naming the file.
func ParseDocument(filePath string, data []byte, kind model.Kind, locale model.Locale) (model.Document, error) {
	doc, err := parseDocument(filePath, data, kind, locale)
	if err != nil {
		return model.Document{}, &ParseError{Path: filePath, Err: err}
	}
	return doc, nil
}

func parseDocument(filePath string, data []byte, kind model.Kind, locale model.Locale) (model.Document, error) {
	meta, body, err := frontmatter.Parse(data)
	if err != nil {
		return model.Document{}, err
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		return model.Document{}, errors.New("missing required field: title")
	}

	slug := strings.TrimSpace(meta.Slug)
	if slug == "" {
		slug = slugFromPath(filePath)
	}
	if !util.IsValidSlug(slug) {
		return model.Document{}, fmt.Errorf("invalid slug %q", slug)
	}

	translations, err := parseTranslations(meta.Translations, locale)
	if err != nil {
		return model.Document{}, err
	}

	doc := model.Document{
		Slug:         slug,
		Locale:       locale,
		Kind:         kind,
		Category:     strings.TrimSpace(meta.Category),
		Title:        title,
		Body:         string(body),
		Author:       strings.TrimSpace(meta.Author),
		Featured:     meta.Featured,
		Tags:         meta.Tags,
		Translations: translations,
		SourcePath:   filePath,
	}
	if doc.Category != "" {
		doc.CategorySlug = util.Slugify(doc.Category)
	}

	doc.Date, doc.PublishedAt = parseDate(meta.Date, locale)

	doc.ReadingMinutes = readingMinutes(body)
	doc.ReadTime = strings.TrimSpace(meta.ReadTime)
	if doc.ReadTime == "" {
		doc.ReadTime = i18n.ReadTime(locale.String(), doc.ReadingMinutes)
	}

	if summary := meta.Summary(); summary != "" {
		doc.Excerpt = cleanExcerpt(summary)
	} else {
		doc.Excerpt = deriveExcerpt(body)
	}

	return doc, nil
}

// slugFromPath returns the file name without its extension.
func slugFromPath(filePath string) string {
	base := path.Base(filePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// parseTranslations converts the front matter translation table.
// Entries for the document's own locale and empty slugs are ignored.
func parseTranslations(raw map[string]string, own model.Locale) (map[model.Locale]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[model.Locale]string, len(raw))
	for code, slug := range raw {
		l, ok := model.ParseLocale(code)
		if !ok {
			return nil, fmt.Errorf("unsupported translation locale %q", code)
		}
		slug = strings.TrimSpace(slug)
		if l == own || slug == "" {
			continue
		}
		if !util.IsValidSlug(slug) {
			return nil, fmt.Errorf("invalid translation slug %q for locale %s", slug, l)
		}
		out[l] = slug
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// parseDate returns the display date and, when the value is machine
// readable, the parsed time. Free text dates are shown as written.
func parseDate(raw string, locale model.Locale) (string, time.Time) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return i18n.FormatDate(locale.String(), t), t
		}
	}
	return raw, time.Time{}
}

// readingMinutes estimates reading time, never less than one minute.
func readingMinutes(body []byte) int {
	words := len(strings.Fields(string(body)))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	return max(minutes, 1)
}
