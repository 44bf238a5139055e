// Package watcher provides a file system watcher for upload watch
// mode, implementing the driven.FileWatcher port with fsnotify.
package watcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/finqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finqa-cli/internal/logger"
)

// Ensure FSNotifyWatcher implements the interface.
var _ driven.FileWatcher = (*FSNotifyWatcher)(nil)

// eventBuffer bounds pending events while an upload is in progress.
const eventBuffer = 64

// FSNotifyWatcher implements driven.FileWatcher using fsnotify,
// filtered to PDF files.
type FSNotifyWatcher struct {
	watcher *fsnotify.Watcher
}

// New creates a new file watcher.
func New() (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FSNotifyWatcher{watcher: w}, nil
}

// Watch starts monitoring dir and emits create/write events for PDF
// files. The channel closes when ctx is cancelled or the watcher is
// stopped.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan driven.FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan driven.FileEvent, eventBuffer)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !isPDF(event.Name) {
					continue
				}

				var op driven.FileOperation
				switch {
				case event.Op.Has(fsnotify.Create):
					op = driven.FileCreated
				case event.Op.Has(fsnotify.Write):
					op = driven.FileModified
				default:
					continue
				}

				select {
				case events <- driven.FileEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}

// isPDF checks the file extension case-insensitively.
func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
