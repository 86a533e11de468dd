package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/minispec/visual/internal/logger"
)

// DefaultDebounce is the quiet period waited for after a change before reloading.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a Content when its file changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	content  *Content
	debounce time.Duration
}

// NewWatcher watches the file at path. The parent directory is watched, so that editors
// replacing the file instead of writing it in place are noticed too.
func NewWatcher(path string, content *Content, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:  watcher,
		path:     abs,
		content:  content,
		debounce: debounce,
	}, nil
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			logger.Errorf("Error closing file watcher: %v", err)
		}
	}()

	logger.Infof("Watching %s for changes", w.path)

	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			logger.Debugf("%s event for %s", event.Op, event.Name)
			reload = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorf("File watcher error: %v", err)

		case <-reload:
			reload = nil
			if err := w.content.Reload(w.path); err != nil {
				logger.Warnf("Keeping previous content: %v", err)
				continue
			}
			logger.Infof("Reloaded %s (%s)", w.path, w.content.Fingerprint())
		}
	}
}
