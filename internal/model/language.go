// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Locale is a content language code (ISO 639-1).
type Locale string

// Supported content locales.
const (
	LocaleNL Locale = "nl"
	LocaleEN Locale = "en"
)

// DefaultLocale is served when a document has no translation in the requested locale.
const DefaultLocale = LocaleNL

// Locales lists the supported locales in language switcher order.
var Locales = []Locale{LocaleNL, LocaleEN}

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// IsValid reports whether l is one of the supported locales.
func (l Locale) IsValid() bool {
	for _, supported := range Locales {
		if l == supported {
			return true
		}
	}
	return false
}

// ParseLocale converts a language code to a supported Locale.
// Matching is case-insensitive; region subtags ("en-GB") are ignored.
func ParseLocale(s string) (Locale, bool) {
	code := strings.ToLower(strings.TrimSpace(s))
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		code = code[:idx]
	}
	l := Locale(code)
	if !l.IsValid() {
		return "", false
	}
	return l, true
}

// LanguageNames holds display names for the language switcher.
var LanguageNames = map[Locale]struct {
	Name       string
	NativeName string
}{
	LocaleNL: {"Dutch", "Nederlands"},
	LocaleEN: {"English", "English"},
}
