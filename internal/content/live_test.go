// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecontent/internal/model"
)

func dirBuild(root string) BuildFunc {
	return func(ctx context.Context) (*Store, error) {
		return NewStore(ctx, NewLoader(os.DirFS(root), nil), model.Kinds, model.Locales, nil)
	}
}

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestLive_ReloadSwapsSnapshot(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "blog/nl/eerste.mdx", "---\ntitle: Eerste\n---\n")

	ctx := context.Background()
	live, err := NewLive(ctx, dirBuild(root), nil)
	require.NoError(t, err)

	var reloaded atomic.Int32
	live.OnReload(func(*Store) { reloaded.Add(1) })

	_, err = live.LoadOne(ctx, model.KindBlog, model.LocaleNL, "tweede")
	require.ErrorIs(t, err, ErrNotFound)

	writeDoc(t, root, "blog/nl/tweede.mdx", "---\ntitle: Tweede\n---\n")
	require.NoError(t, live.Reload(ctx))

	got, err := live.LoadOne(ctx, model.KindBlog, model.LocaleNL, "tweede")
	require.NoError(t, err)
	assert.Equal(t, "Tweede", got.Title)
	assert.Equal(t, int32(1), reloaded.Load())
}

func TestLive_FailedReloadKeepsPreviousSnapshot(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "blog/nl/eerste.mdx", "---\ntitle: Eerste\n---\n")

	ctx := context.Background()
	live, err := NewLive(ctx, dirBuild(root), nil)
	require.NoError(t, err)
	before := live.Store()

	var failures atomic.Int32
	live.OnReloadError(func(error) { failures.Add(1) })

	writeDoc(t, root, "blog/nl/kapot.mdx", "---\ntitle: [\n---\n")
	err = live.Reload(ctx)
	require.True(t, IsParseError(err))
	assert.Same(t, before, live.Store())
	assert.Equal(t, int32(1), failures.Load())

	docs, err := live.LoadAll(ctx, model.KindBlog, model.LocaleNL)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestNewLive_BuildError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewLive(context.Background(), func(context.Context) (*Store, error) { return nil, boom }, nil)
	assert.ErrorIs(t, err, boom)
}

func TestLive_WatchReloadsOnChange(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "blog/nl/eerste.mdx", "---\ntitle: Eerste\n---\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live, err := NewLive(ctx, dirBuild(root), nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- live.Watch(ctx, root) }()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)
	writeDoc(t, root, "blog/nl/tweede.mdx", "---\ntitle: Tweede\n---\n")

	require.Eventually(t, func() bool {
		_, err := live.LoadOne(ctx, model.KindBlog, model.LocaleNL, "tweede")
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestLive_WatchMissingRoot(t *testing.T) {
	root := t.TempDir()
	live, err := NewLive(context.Background(), dirBuild(root), nil)
	require.NoError(t, err)

	err = live.Watch(context.Background(), filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/c/blog/nl/.hidden.mdx"))
	assert.True(t, shouldIgnoreEvent("/c/blog/nl/post.mdx~"))
	assert.True(t, shouldIgnoreEvent("/c/blog/nl/.post.mdx.swp"))
	assert.True(t, shouldIgnoreEvent("/c/blog/nl/#post#"))
	assert.False(t, shouldIgnoreEvent("/c/blog/nl/post.mdx"))
}

func TestLive_ReloadChangesVersion(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "blog/nl/eerste.mdx", "---\ntitle: Eerste\n---\n")

	ctx := context.Background()
	live, err := NewLive(ctx, dirBuild(root), nil)
	require.NoError(t, err)

	before := live.Snapshot()
	require.NotEmpty(t, before.Version())
	assert.Same(t, before, live.Store())

	// A rebuild of unchanged files keeps the version.
	require.NoError(t, live.Reload(ctx))
	assert.NotSame(t, before, live.Snapshot())
	assert.Equal(t, before.Version(), live.Snapshot().Version())

	writeDoc(t, root, "blog/nl/eerste.mdx", "---\ntitle: Eerste, herzien\n---\n")
	require.NoError(t, live.Reload(ctx))
	assert.NotEqual(t, before.Version(), live.Snapshot().Version())

	// The pinned snapshot still answers with the old content.
	old, err := before.LoadOne(ctx, model.KindBlog, model.LocaleNL, "eerste")
	require.NoError(t, err)
	assert.Equal(t, "Eerste", old.Title)
}
