package driven

import "context"

// FileOperation identifies what happened to a watched file.
type FileOperation int

// File operations reported by a watcher.
const (
	// FileCreated means a new file appeared.
	FileCreated FileOperation = iota

	// FileModified means an existing file was written to.
	FileModified
)

// FileEvent is one change observed in a watched directory.
type FileEvent struct {
	// Path is the absolute or watcher-relative file path.
	Path string

	// Operation is what happened to the file.
	Operation FileOperation
}

// FileWatcher monitors a directory and emits events for files of
// interest. Used by upload watch mode.
type FileWatcher interface {
	// Watch starts monitoring dir. The channel closes when ctx is
	// cancelled or the watcher is stopped.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop releases watcher resources.
	Stop() error
}
