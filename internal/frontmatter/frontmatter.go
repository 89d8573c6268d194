// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package frontmatter splits YAML front matter from a Markdown/MDX body
// and decodes it into content metadata.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontmatter indicates the document does not start with a --- delimiter.
	ErrMissingFrontmatter = errors.New("document has no yaml front matter")

	// ErrMissingClosingDelimiter indicates the document started with a front
	// matter delimiter but did not contain a closing delimiter.
	ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")
)

// Meta is the front matter shape of a content document.
type Meta struct {
	Title        string            `yaml:"title"`
	Slug         string            `yaml:"slug"`
	Excerpt      string            `yaml:"excerpt"`
	Description  string            `yaml:"description"`
	Category     string            `yaml:"category"`
	Date         string            `yaml:"date"`
	ReadTime     string            `yaml:"readTime"`
	Author       string            `yaml:"author"`
	Featured     bool              `yaml:"featured"`
	Tags         []string          `yaml:"tags"`
	Translations map[string]string `yaml:"translations"`
}

// Summary returns the excerpt, falling back to the description.
func (m *Meta) Summary() string {
	if s := strings.TrimSpace(m.Excerpt); s != "" {
		return s
	}
	return strings.TrimSpace(m.Description)
}

// Split separates YAML front matter (`---` delimited) from the body.
//
// If the document does not start with a delimiter, had is false and body is
// the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[start:], closeLine) {
		return []byte{}, content[start+len(closeLine):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without trailing newline
		closeEOF := []byte(nl + "---")
		if bytes.HasSuffix(content, closeEOF) {
			return content[start : len(content)-len("---")], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes its front matter into Meta.
// Keys outside Meta, such as image or seo blocks used by page templates,
// are ignored.
func Parse(content []byte) (Meta, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Meta{}, nil, err
	}
	if !had {
		return Meta{}, nil, ErrMissingFrontmatter
	}

	var meta Meta
	if len(bytes.TrimSpace(raw)) == 0 {
		return meta, body, nil
	}

	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return Meta{}, nil, fmt.Errorf("decoding front matter: %w", err)
	}

	return meta, body, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
