// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package present

import "github.com/olegiv/sitecontent/internal/model"

// sameDocument compares documents by slug and locale.
func sameDocument(a, b *model.Document) bool {
	return a.Slug == b.Slug && a.Locale == b.Locale
}

// Related returns up to limit documents from all that share doc's category,
// in their existing order. doc itself is never included. A document without
// a category has no related documents.
func Related(doc model.Document, all []model.Document, limit int) []model.Document {
	out := []model.Document{}
	if limit <= 0 || !doc.HasCategory() {
		return out
	}
	for i := range all {
		if all[i].Category != doc.Category || sameDocument(&all[i], &doc) {
			continue
		}
		out = append(out, all[i])
		if len(out) == limit {
			break
		}
	}
	return out
}

// Neighbors returns the entries adjacent to doc in ordered. There is no
// wrap-around: the first document has no Previous and the last has no Next.
// A document missing from ordered has neither.
func Neighbors(doc model.Document, ordered []model.Document) model.Neighbors {
	var n model.Neighbors
	for i := range ordered {
		if !sameDocument(&ordered[i], &doc) {
			continue
		}
		if i > 0 {
			prev := ordered[i-1]
			n.Previous = &prev
		}
		if i < len(ordered)-1 {
			next := ordered[i+1]
			n.Next = &next
		}
		break
	}
	return n
}
