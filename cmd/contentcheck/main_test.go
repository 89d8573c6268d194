// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
	return dir
}

func validTree(t *testing.T) string {
	return writeContent(t, map[string]string{
		"blog/nl/seo-gids.mdx":  "---\ntitle: SEO gids\ncategory: SEO\ndate: \"2024-05-01\"\ntranslations:\n  en: seo-guide\n---\n## Wat is SEO\n\n### Zoekwoorden\n",
		"blog/nl/oud.mdx":       "---\ntitle: Oud\ncategory: SEO\ntranslations:\n  en: bestaat-niet\n---\nBody.\n",
		"blog/nl/design.mdx":    "---\ntitle: Design\ncategory: Webdesign\n---\nBody.\n",
		"blog/en/seo-guide.mdx": "---\ntitle: SEO guide\ncategory: SEO\n---\n## What is SEO\n",
	})
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	var cli CLI
	g := &Global{Out: &out, Logger: newLogger(io.Discard, false)}

	parser, err := newParser(&cli, g)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = ctx.Run(&cli)
	return out.String(), err
}

func TestCheck(t *testing.T) {
	dir := validTree(t)

	out, err := run(t, "--dir", dir, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "blog   nl  3")
	assert.Contains(t, out, "stale translation: blog/nl/oud -> en:bestaat-niet")
	assert.Contains(t, out, "4 documents, 1 stale translations")

	_, err = run(t, "--dir", dir, "check", "--strict")
	assert.EqualError(t, err, "1 stale translations")
}

func TestCheckIsDefaultCommand(t *testing.T) {
	out, err := run(t, "--dir", validTree(t))
	require.NoError(t, err)
	assert.Contains(t, out, "4 documents")
}

func TestCheckParseError(t *testing.T) {
	dir := writeContent(t, map[string]string{
		"blog/nl/kapot.mdx": "---\ncategory: SEO\n---\nGeen titel.\n",
	})

	_, err := run(t, "--dir", dir, "check")
	var perr *content.ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Contains(t, perr.Path, "kapot.mdx")
}

func TestCheckMissingDir(t *testing.T) {
	_, err := run(t, "--dir", filepath.Join(t.TempDir(), "nope"), "check")
	assert.ErrorContains(t, err, "content directory")
}

func TestOutline(t *testing.T) {
	out, err := run(t, "--dir", validTree(t), "outline", "blog", "nl", "seo-gids")
	require.NoError(t, err)
	assert.Equal(t, "SEO gids\n- Wat is SEO (#wat-is-seo)\n  - Zoekwoorden (#zoekwoorden)\n", out)

	_, err = run(t, "--dir", validTree(t), "outline", "blog", "en", "seo-gids")
	assert.ErrorIs(t, err, content.ErrNotFound)

	_, err = run(t, "--dir", validTree(t), "outline", "podcast", "nl", "x")
	assert.EqualError(t, err, `unknown content kind "podcast"`)
}

func TestCategories(t *testing.T) {
	out, err := run(t, "--dir", validTree(t), "categories", "blog", "nl")
	require.NoError(t, err)
	assert.Equal(t, "SEO (seo): 2\nWebdesign (webdesign): 1\n", out)

	_, err = run(t, "--dir", validTree(t), "categories", "blog", "de")
	assert.EqualError(t, err, `unsupported locale "de"`)
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	logger := newLogger(&buf, false)
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	logger.Warn("dropping stale translation", "slug", "oud")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "slug=oud")

	assert.True(t, newLogger(io.Discard, true).Enabled(ctx, slog.LevelDebug))
}
