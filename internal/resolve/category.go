// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resolve

import (
	"context"

	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/model"
)

// GroupCategories groups docs by their exact category name. Categories appear
// in the order of their first document; documents without a category are
// not counted.
func GroupCategories(docs []model.Document) []model.Category {
	var out []model.Category
	index := make(map[string]int)
	for i := range docs {
		if !docs[i].HasCategory() {
			continue
		}
		if idx, ok := index[docs[i].Category]; ok {
			out[idx].Count++
			continue
		}
		index[docs[i].Category] = len(out)
		out = append(out, model.Category{
			Name:  docs[i].Category,
			Slug:  docs[i].CategorySlug,
			Count: 1,
		})
	}
	if out == nil {
		out = []model.Category{}
	}
	return out
}

// Categories returns the categories of a kind and locale.
func (r *Resolver) Categories(ctx context.Context, kind model.Kind, locale model.Locale) ([]model.Category, error) {
	docs, err := r.src.LoadAll(ctx, kind, locale)
	if err != nil {
		return nil, err
	}
	return GroupCategories(docs), nil
}

// DocumentsInCategory returns the documents whose category slug matches, in
// store order, along with the category. An unknown slug is content.ErrNotFound.
func (r *Resolver) DocumentsInCategory(ctx context.Context, kind model.Kind, locale model.Locale, categorySlug string) (model.Category, []model.Document, error) {
	docs, err := r.src.LoadAll(ctx, kind, locale)
	if err != nil {
		return model.Category{}, nil, err
	}

	var cat model.Category
	var out []model.Document
	for i := range docs {
		if !docs[i].HasCategory() || docs[i].CategorySlug != categorySlug {
			continue
		}
		if cat.Name == "" {
			cat = model.Category{Name: docs[i].Category, Slug: docs[i].CategorySlug}
		}
		cat.Count++
		out = append(out, docs[i])
	}
	if len(out) == 0 {
		return model.Category{}, nil, content.ErrNotFound
	}
	return cat, out, nil
}
