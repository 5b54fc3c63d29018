// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs a handler when watched Markdown files change.
// Rapid saves to the same file are debounced into one call.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/pdiddy/snipcheck/internal/source"
	"github.com/pdiddy/snipcheck/pkg/types"
)

// tickInterval is how often settled events are flushed to the handler.
const tickInterval = 50 * time.Millisecond

// Handler receives the settled set of changed paths, sorted.
type Handler func(ctx context.Context, paths []string)

// Watcher watches files and directory trees for Markdown changes.
type Watcher struct {
	fs         *fsnotify.Watcher
	handler    Handler
	logger     *zap.Logger
	debounce   time.Duration
	extensions []string

	// files are explicitly named inputs; trees are directories whose
	// Markdown files are all watched.
	files map[string]bool
	trees map[string]bool

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a watcher over paths. Files are watched individually through
// their parent directory; directories are watched recursively for files
// with one of the extensions.
func New(paths []string, cfg types.WatchConfig, extensions []string, handler Handler, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:         fw,
		handler:    handler,
		logger:     logger,
		debounce:   cfg.Debounce,
		extensions: extensions,
		files:      make(map[string]bool),
		trees:      make(map[string]bool),
		pending:    make(map[string]time.Time),
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	if path == source.Stdin {
		return fmt.Errorf("cannot watch standard input")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		w.files[filepath.Clean(path)] = true
		dir := filepath.Dir(path)
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		return nil
	}
	return w.addTree(path)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && source.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.trees[filepath.Clean(path)] = true
		return nil
	})
}

// Run processes events until ctx is cancelled. It closes the underlying
// watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, time.Now())

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			if paths := w.due(now); len(paths) > 0 {
				w.handler(ctx, paths)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, now time.Time) {
	name := filepath.Clean(event.Name)

	// New directories inside a watched tree join the tree.
	if event.Has(fsnotify.Create) && w.trees[filepath.Dir(name)] {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if !source.SkipDir(info.Name()) {
				if err := w.addTree(name); err != nil {
					w.logger.Warn("watching new directory", zap.String("path", name), zap.Error(err))
				}
			}
			return
		}
	}

	if !w.relevant(name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("file event", zap.String("path", name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending[name] = now
	w.mu.Unlock()
}

func (w *Watcher) relevant(name string) bool {
	if w.files[name] {
		return true
	}
	return w.trees[filepath.Dir(name)] && source.HasExtension(name, w.extensions)
}

// due removes and returns the paths whose last event is at least one
// debounce interval old.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var paths []string
	for p, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			paths = append(paths, p)
			delete(w.pending, p)
		}
	}
	sort.Strings(paths)
	return paths
}
