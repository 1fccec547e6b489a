package tui

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/quitline/internal/logger"
)

const debounceInterval = 100 * time.Millisecond

// fileWatcher calls onChange once a burst of writes to one file settles.
type fileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()

	mu            sync.Mutex
	debounceTimer *time.Timer
}

// newFileWatcher watches the directory holding path, so replacing the file
// by rename is seen as well as writes in place.
func newFileWatcher(path string, onChange func()) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}
	return &fileWatcher{path: path, watcher: watcher, onChange: onChange}, nil
}

// run handles events until ctx is done, then closes the watcher.
func (w *fileWatcher) run(ctx context.Context) {
	defer w.close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Store watcher error", "error", err)

		case <-ctx.Done():
			return
		}
	}
}

func (w *fileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(debounceInterval, w.onChange)
}

func (w *fileWatcher) close() {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		logger.Error("failed to close watcher", "error", err)
	}
}
