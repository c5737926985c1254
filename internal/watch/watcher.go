// Package watch keeps the thread index aligned with external edits: it
// observes the comments directory with fsnotify and triggers a debounced
// reconciliation pass through the thread store.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexanderjmontague/jot-sub000/internal/sse"
	"github.com/alexanderjmontague/jot-sub000/internal/threadstore"
)

const debounce = 200 * time.Millisecond

// Run watches the comments directory until ctx is cancelled. While the
// host is unconfigured it waits; after every successful SetConfig it
// re-arms on the new directory. Reconciliation goes through the store's
// own serialized operations, so the watcher never mutates shared state
// concurrently with a request.
func Run(ctx context.Context, store *threadstore.Store, broker *sse.Broker, logger *slog.Logger) {
	for {
		dir, ok := store.CommentsDir()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case dir = <-store.ConfigChanges():
			}
		}
		if !watchDir(ctx, store, broker, dir, logger) {
			return
		}
	}
}

// watchDir watches one directory; it returns false when ctx ended and true
// when the caller should re-arm (config change or watcher failure).
func watchDir(ctx context.Context, store *threadstore.Store, broker *sse.Broker, dir string, logger *slog.Logger) bool {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("watcher: unavailable", slog.String("error", err.Error()))
		return waitForChange(ctx, store)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		logger.Warn("watcher: add dir failed", slog.String("dir", dir), slog.String("error", err.Error()))
		return waitForChange(ctx, store)
	}
	logger.Info("watcher: started", slog.String("dir", dir))

	// Debounce timer: bursts of events (editor save patterns, bulk copies)
	// collapse into one reconciliation pass.
	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(debounce)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return false

		case newDir := <-store.ConfigChanges():
			if newDir != dir {
				logger.Info("watcher: comments dir changed", slog.String("dir", newDir))
				return true
			}

		case <-timerCh:
			if err := store.Reconcile(); err != nil {
				logger.Warn("watcher: reconcile failed", slog.String("error", err.Error()))
			} else {
				logger.Debug("watcher: reconciled")
			}

		case ev, ok := <-w.Events:
			if !ok {
				return true
			}
			name := filepath.Base(ev.Name)
			if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: file event", slog.String("file", name), slog.String("op", ev.Op.String()))
			if broker != nil {
				broker.PublishThreadEvent(eventKind(ev.Op), name)
			}
			schedule()

		case werr, ok := <-w.Errors:
			if !ok {
				return true
			}
			logger.Error("watcher: error", slog.String("error", werr.Error()))
		}
	}
}

func eventKind(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "created"
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return "deleted"
	default:
		return "updated"
	}
}

// waitForChange blocks until ctx ends (false) or the config changes (true).
func waitForChange(ctx context.Context, store *threadstore.Store) bool {
	select {
	case <-ctx.Done():
		return false
	case <-store.ConfigChanges():
		return true
	}
}
