package file

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/locfilter/internal/logger"
)

// Watcher reloads a ConfigStore when its file changes on disk and then
// calls onChange. The directory is watched rather than the file because
// editors often replace the file instead of writing to it.
type Watcher struct {
	store    *ConfigStore
	watcher  *fsnotify.Watcher
	onChange func()
}

// NewWatcher creates a watcher for the store's config file.
func NewWatcher(store *ConfigStore, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(store.Path())); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &Watcher{
		store:    store,
		watcher:  w,
		onChange: onChange,
	}, nil
}

// Run processes file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// handleEvent reports whether the event changed the config file.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		logger.Warn("config watcher: reload %s: %v", w.store.Path(), err)
		return
	}
	logger.Info("config reloaded from %s", w.store.Path())
	if w.onChange != nil {
		w.onChange()
	}
}
