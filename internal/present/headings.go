// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package present derives page-ready data from resolved documents: the
// heading outline, related documents and previous/next neighbours.
package present

import (
	"iter"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/util"
)

// Heading levels included in the outline. Level 1 is the page title.
const (
	MinHeadingLevel = 2
	MaxHeadingLevel = 3
)

var markdown = goldmark.New()

// ExtractHeadings returns the level 2 and 3 headings of body in document
// order. The body is parsed each time the sequence is ranged over. Duplicate
// headings yield duplicate ids.
func ExtractHeadings(body []byte) iter.Seq[model.Heading] {
	return func(yield func(model.Heading) bool) {
		root := markdown.Parser().Parse(text.NewReader(body))
		_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
			if !entering {
				return gmast.WalkContinue, nil
			}
			h, ok := n.(*gmast.Heading)
			if !ok {
				return gmast.WalkContinue, nil
			}
			if h.Level < MinHeadingLevel || h.Level > MaxHeadingLevel {
				return gmast.WalkSkipChildren, nil
			}
			txt := headingText(h, body)
			if txt == "" {
				return gmast.WalkSkipChildren, nil
			}
			if !yield(model.Heading{Level: h.Level, Text: txt, ID: util.Slugify(txt)}) {
				return gmast.WalkStop, nil
			}
			return gmast.WalkSkipChildren, nil
		})
	}
}

// Outline collects ExtractHeadings into a slice. It never returns nil.
func Outline(body []byte) []model.Heading {
	out := []model.Heading{}
	for h := range ExtractHeadings(body) {
		out = append(out, h)
	}
	return out
}

// headingText returns the plain text of a heading, dropping inline markup.
func headingText(h gmast.Node, src []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(h, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(node.Value)
		case *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}
