// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package present

import (
	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/resolve"
)

// BuildView assembles the page view for a resolution. siblings is the store
// ordered document list of the resolved kind and locale; it supplies the
// category count, related documents and neighbours.
func BuildView(res resolve.Resolution, siblings []model.Document, relatedLimit int, alternates map[model.Locale]string, notice string) model.ResolvedView {
	doc := res.Document
	neighbors := Neighbors(doc, siblings)

	view := model.ResolvedView{
		Document:        doc,
		IsFallback:      res.IsFallback,
		RequestedLocale: res.RequestedLocale,
		ResolvedLocale:  res.ResolvedLocale,
		ReadTime:        doc.ReadTime,
		Related:         Related(doc, siblings, relatedLimit),
		Previous:        neighbors.Previous,
		Next:            neighbors.Next,
		Headings:        Outline([]byte(doc.Body)),
		Alternates:      alternates,
	}
	if res.IsFallback {
		view.Notice = notice
	}

	if doc.HasCategory() {
		for _, c := range resolve.GroupCategories(siblings) {
			if c.Name == doc.Category {
				view.Category = &c
				break
			}
		}
		if view.Category == nil {
			view.Category = &model.Category{Name: doc.Category, Slug: doc.CategorySlug, Count: 1}
		}
	}
	return view
}
