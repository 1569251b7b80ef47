// Package watch regenerates on metadata document changes. Events are
// debounced because editors tend to fire several writes per save.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 500 * time.Millisecond

// Watcher runs a callback whenever one file changes. The containing
// directory is watched rather than the file itself, so atomic-rename
// saves keep working.
type Watcher struct {
	file     string
	callback func() error
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewWatcher prepares a watcher for the given file. Call Start to begin
// receiving events.
func NewWatcher(file string, callback func() error) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		watcher:  watcher,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine. Callback errors are
// reported to stderr and watching continues.
func (w *Watcher) Start() {
	go func() {
		debounce := time.NewTimer(debounceInterval)
		debounce.Stop()
		var pending <-chan time.Time

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if eventPath, err := filepath.Abs(event.Name); err == nil && eventPath == w.file {
					debounce.Reset(debounceInterval)
					pending = debounce.C
				}

			case <-pending:
				if err := w.callback(); err != nil {
					fmt.Fprintf(os.Stderr, "regeneration failed: %v\n", err)
				}
				pending = nil

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

			case <-w.done:
				return
			}
		}
	}()
}

// Stop ends watching and releases the underlying notifier.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
