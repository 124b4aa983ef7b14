package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	applog "github.com/billie-coop/chatprefs/internal/log"
)

// FileWatcher reports changes to one file, debounced.
type FileWatcher struct {
	path          string
	debounceDelay time.Duration
	onChange      func()
	logger        zerolog.Logger

	fsw *fsnotify.Watcher

	timer   *time.Timer
	timerMu sync.Mutex
}

// New starts watching the directory that holds path. onChange runs once
// per burst of events touching path, debounceDelay after the last one.
// The directory must exist.
func New(path string, debounceDelay time.Duration, onChange func()) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	path = filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &FileWatcher{
		path:          path,
		debounceDelay: debounceDelay,
		onChange:      onChange,
		logger:        applog.WithComponent("watcher"),
		fsw:           fsw,
	}, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *FileWatcher) Run(ctx context.Context) {
	defer w.Stop()

	w.logger.Info().
		Str("event", "watcher.started").
		Str("path", w.path).
		Msg("watching settings file")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "watcher.stopped").Msg("watcher stopped")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug().
					Str("event", "watcher.file_changed").
					Str("op", event.Op.String()).
					Msg("settings file changed")
				w.FileChanged()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			applog.Log(w.logger, "watcher error", err)
		}
	}
}

// FileChanged (re)arms the debounce timer. Run calls it for matching
// events; it is exported so callers can force a reload.
func (w *FileWatcher) FileChanged() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.fire)
}

func (w *FileWatcher) fire() {
	w.timerMu.Lock()
	w.timer = nil
	w.timerMu.Unlock()

	if w.onChange != nil {
		w.onChange()
	}
}

// Stop closes the fsnotify watcher and cancels a pending callback.
func (w *FileWatcher) Stop() {
	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerMu.Unlock()

	_ = w.fsw.Close()
}
