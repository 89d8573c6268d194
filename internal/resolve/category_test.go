// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/model"
)

func TestCategories(t *testing.T) {
	r := newStoreResolver(t)

	cats, err := r.Categories(context.Background(), model.KindBlog, model.LocaleNL)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{
		{Name: "SEO", Slug: "seo", Count: 2},
		{Name: "Webdesign", Slug: "webdesign", Count: 1},
		{Name: "Techniek", Slug: "techniek", Count: 1},
	}, cats)
}

func TestCategories_CountConsistency(t *testing.T) {
	r := newStoreResolver(t)
	ctx := context.Background()

	for _, locale := range model.Locales {
		docs, err := r.src.LoadAll(ctx, model.KindBlog, locale)
		require.NoError(t, err)
		withCategory := 0
		for _, d := range docs {
			if d.Category != "" {
				withCategory++
			}
		}

		cats, err := r.Categories(ctx, model.KindBlog, locale)
		require.NoError(t, err)
		sum := 0
		for _, c := range cats {
			sum += c.Count
		}
		assert.Equal(t, withCategory, sum, "locale %s", locale)
	}
}

func TestGroupCategories(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		cats := GroupCategories(nil)
		assert.NotNil(t, cats)
		assert.Empty(t, cats)
	})

	t.Run("exact name equality", func(t *testing.T) {
		docs := []model.Document{
			{Slug: "a", Category: "Web design", CategorySlug: "web-design"},
			{Slug: "b", Category: "web design", CategorySlug: "web-design"},
			{Slug: "c", Category: "Web design", CategorySlug: "web-design"},
			{Slug: "d"},
		}
		assert.Equal(t, []model.Category{
			{Name: "Web design", Slug: "web-design", Count: 2},
			{Name: "web design", Slug: "web-design", Count: 1},
		}, GroupCategories(docs))
	})
}

func TestDocumentsInCategory(t *testing.T) {
	r := newStoreResolver(t)
	ctx := context.Background()

	cat, docs, err := r.DocumentsInCategory(ctx, model.KindBlog, model.LocaleNL, "seo")
	require.NoError(t, err)
	assert.Equal(t, model.Category{Name: "SEO", Slug: "seo", Count: 2}, cat)
	require.Len(t, docs, 2)
	assert.Equal(t, "seo-gids", docs[0].Slug)
	assert.Equal(t, "seo-checklist", docs[1].Slug)

	_, _, err = r.DocumentsInCategory(ctx, model.KindBlog, model.LocaleNL, "onbekend")
	assert.ErrorIs(t, err, content.ErrNotFound)
}
