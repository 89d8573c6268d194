// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Kind identifies a content collection.
type Kind string

// Content kinds
const (
	KindBlog  Kind = "blog"
	KindGuide Kind = "guide"
)

// Kinds lists every content kind.
var Kinds = []Kind{KindBlog, KindGuide}

// kindAliases maps route segments to kinds. "kennisbank" is the Dutch
// knowledge base route used by the site.
var kindAliases = map[string]Kind{
	"blog":       KindBlog,
	"guide":      KindGuide,
	"guides":     KindGuide,
	"kennisbank": KindGuide,
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a route segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(s)]
	return k, ok
}
