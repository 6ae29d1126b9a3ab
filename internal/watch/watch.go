// Package watch triggers plugin reloads when source files change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/addonkit/internal/ctxlog"
	"github.com/vk/addonkit/internal/fsutil"
)

// DefaultDebounce collapses editor save bursts into one reload.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc is called once per burst of relevant changes.
type ReloadFunc func(ctx context.Context) error

// Watcher watches a plugin tree.
type Watcher struct {
	root     string
	ext      string
	policy   fsutil.ExcludePolicy
	debounce time.Duration
	reload   ReloadFunc

	// dirs holds every directory in the watch set. Only the loop goroutine
	// touches it once Run has started.
	dirs map[string]struct{}
}

// New creates a Watcher. A non-positive debounce uses DefaultDebounce.
func New(root, ext string, policy fsutil.ExcludePolicy, debounce time.Duration, reload ReloadFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     root,
		ext:      ext,
		policy:   policy,
		debounce: debounce,
		reload:   reload,
		dirs:     make(map[string]struct{}),
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	dirs, err := fsutil.Dirs(w.root, w.policy)
	if err != nil {
		return fmt.Errorf("listing directories under %s: %w", w.root, err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[filepath.Clean(dir)] = struct{}{}
	}
	logger.Info("👀 Watching plugin tree for changes.", "root", w.root, "directories", len(dirs))

	return w.loop(ctx, fw.Events, fw.Errors, fw.Add)
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, add func(string) error) error {
	logger := ctxlog.FromContext(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(logger, ev, add) {
				continue
			}
			logger.Debug("Plugin source changed.", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)

		case <-fire:
			timer, fire = nil, nil
			if err := w.reload(ctx); err != nil {
				logger.Error("Reload after change failed.", "error", err)
			}
		}
	}
}

// relevant reports whether ev should trigger a reload. New directories are
// added to the watch set on the way; a watched directory that is renamed or
// removed leaves it and always triggers a reload.
func (w *Watcher) relevant(logger *slog.Logger, ev fsnotify.Event, add func(string) error) bool {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	name := filepath.Clean(ev.Name)

	if ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
		if _, ok := w.dirs[name]; ok {
			w.forget(name)
			return true
		}
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if w.policy.Excluded(rel, true) {
				return false
			}
			if add != nil {
				if err := add(ev.Name); err != nil {
					logger.Warn("Failed to watch new directory.", "path", ev.Name, "error", err)
				}
			}
			w.dirs[name] = struct{}{}
			return true
		}
	}

	if !strings.HasSuffix(ev.Name, w.ext) {
		return false
	}
	return !w.policy.Excluded(rel, false)
}

// forget drops dir and everything below it from the watch set.
func (w *Watcher) forget(dir string) {
	prefix := dir + string(filepath.Separator)
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(w.dirs, d)
		}
	}
}
