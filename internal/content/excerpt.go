// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MaxExcerptLength is the rune limit for excerpts derived from the body.
const MaxExcerptLength = 160

// stripPolicy removes all markup from excerpts.
var stripPolicy = bluemonday.StrictPolicy()

// cleanExcerpt removes HTML tags from a front matter excerpt.
func cleanExcerpt(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// deriveExcerpt returns the plain text of the first body paragraph,
// truncated on a word boundary.
func deriveExcerpt(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var para gmast.Node
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if n.Kind() == gmast.KindParagraph {
			para = n
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	if para == nil {
		return ""
	}

	var sb strings.Builder
	_ = gmast.Walk(para, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Text:
			sb.Write(node.Segment.Value(body))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(node.Value)
		case *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	return truncate(cleanExcerpt(sb.String()), MaxExcerptLength)
}

// truncate shortens s to at most limit runes, cutting at the last space.
func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
