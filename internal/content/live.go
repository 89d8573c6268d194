// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/olegiv/sitecontent/internal/model"
)

// ReloadDebounce is the quiet period after the last file event before a reload.
const ReloadDebounce = 300 * time.Millisecond

// BuildFunc builds a fresh store snapshot.
type BuildFunc func(ctx context.Context) (*Store, error)

// Live serves documents from the current Store snapshot and can swap in a
// rebuilt snapshot. Each snapshot stays immutable; a failed rebuild keeps
// the previous one.
type Live struct {
	current atomic.Pointer[Store]
	build   BuildFunc
	logger  *slog.Logger

	mu       sync.Mutex
	onReload []func(*Store)
	onError  []func(error)
}

// NewLive builds the initial snapshot. A build error is returned as is so a
// malformed document stops startup.
func NewLive(ctx context.Context, build BuildFunc, logger *slog.Logger) (*Live, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := build(ctx)
	if err != nil {
		return nil, err
	}
	l := &Live{build: build, logger: logger}
	l.current.Store(s)
	return l, nil
}

// Store returns the current snapshot.
func (l *Live) Store() *Store {
	return l.current.Load()
}

// Snapshot returns the current snapshot. Callers that read several times
// for one answer should pin it so a concurrent Reload cannot mix versions.
func (l *Live) Snapshot() *Store {
	return l.current.Load()
}

// OnReload registers fn to run after every successful reload.
func (l *Live) OnReload(fn func(*Store)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onReload = append(l.onReload, fn)
}

// OnReloadError registers fn to run after every failed reload.
func (l *Live) OnReloadError(fn func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = append(l.onError, fn)
}

// Reload rebuilds the snapshot and swaps it in on success.
func (l *Live) Reload(ctx context.Context) error {
	s, err := l.build(ctx)
	if err != nil {
		l.logger.Error("content reload failed, keeping previous snapshot",
			"category", model.EventCategoryContent, "error", err)
		l.mu.Lock()
		hooks := append([]func(error){}, l.onError...)
		l.mu.Unlock()
		for _, fn := range hooks {
			fn(err)
		}
		return err
	}
	l.current.Store(s)

	l.mu.Lock()
	hooks := append([]func(*Store){}, l.onReload...)
	l.mu.Unlock()
	for _, fn := range hooks {
		fn(s)
	}

	l.logger.Info("content reloaded", "documents", s.Count(), "version", s.Version())
	return nil
}

// LoadAll implements Source using the current snapshot.
func (l *Live) LoadAll(ctx context.Context, kind model.Kind, locale model.Locale) ([]model.Document, error) {
	return l.Store().LoadAll(ctx, kind, locale)
}

// LoadOne implements Source using the current snapshot.
func (l *Live) LoadOne(ctx context.Context, kind model.Kind, locale model.Locale, slug string) (model.Document, error) {
	return l.Store().LoadOne(ctx, kind, locale, slug)
}

// Watch reloads the snapshot whenever files under root change. It blocks
// until ctx is cancelled.
func (l *Live) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, root, l.logger); err != nil {
		return err
	}

	reload := make(chan struct{}, 1)
	var timerMu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(ReloadDebounce, func() {
			select {
			case reload <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	l.logger.Info("watching content for changes", "root", root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reload:
			_ = l.Reload(ctx)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name, l.logger)
				}
			}
			l.logger.Debug("content change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("content watcher error", "error", err)
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("watch root: %w", err)
	}
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if err := w.Add(p); err != nil {
				logger.Warn("watch add failed", "dir", p, "error", err)
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden, editor swap and temp files.
func shouldIgnoreEvent(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}

var (
	_ Source      = (*Live)(nil)
	_ Snapshotter = (*Live)(nil)
)
