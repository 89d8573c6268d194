// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// TranslationLink represents a language switcher entry for a document.
type TranslationLink struct {
	Locale     Locale `json:"locale"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Slug       string `json:"slug,omitempty"`
	Exists     bool   `json:"exists"` // whether a translation exists
}

// TranslationLinks builds switcher entries for locales, in order, from a
// locale -> slug map of existing counterparts.
func TranslationLinks(locales []Locale, alternates map[Locale]string) []TranslationLink {
	links := make([]TranslationLink, 0, len(locales))
	for _, l := range locales {
		names := LanguageNames[l]
		slug, ok := alternates[l]
		links = append(links, TranslationLink{
			Locale:     l,
			Name:       names.Name,
			NativeName: names.NativeName,
			Slug:       slug,
			Exists:     ok,
		})
	}
	return links
}
