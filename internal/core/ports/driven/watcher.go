package driven

import "context"

// DocumentWatcher reports changes to a directory of documents.
type DocumentWatcher interface {
	// Watch blocks until ctx is cancelled, calling onChange after each
	// settled burst of changes to supported files.
	Watch(ctx context.Context, dir string, onChange func()) error

	// Close stops watching.
	Close() error
}
