// Package watcher reports changes to a directory of study documents.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.DocumentWatcher = (*Watcher)(nil)

// DefaultDebounce is how long the directory must be quiet before onChange runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches one directory with fsnotify. Bursts of events on
// supported files collapse into a single onChange call.
type Watcher struct {
	debounce time.Duration

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch blocks until ctx is cancelled or Close is called. A watcher runs one
// Watch at a time; once Watch returns it may be called again, unless Close
// stopped it.
func (w *Watcher) Watch(ctx context.Context, dir string, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		fsw.Close()
		return nil
	}
	w.fsw = fsw
	w.mu.Unlock()
	defer w.release(fsw)

	logger.Debug("watching %s", dir)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("document change: %s %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", dir, err)

		case <-timer.C:
			onChange()
		}
	}
}

// Close stops the watcher for good; later Watch calls return nil at once.
// It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.fsw == nil {
		return nil
	}
	err := w.fsw.Close()
	w.fsw = nil
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}

// release closes fsw after a Watch returns without marking the watcher
// closed.
func (w *Watcher) release(fsw *fsnotify.Watcher) {
	w.mu.Lock()
	if w.fsw == fsw {
		w.fsw = nil
	}
	w.mu.Unlock()
	if err := fsw.Close(); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		logger.Debug("close watcher: %v", err)
	}
}

// relevant reports whether an event touches a supported document. Chmod
// events alone never change document contents.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	_, err := domain.FormatForName(event.Name)
	return err == nil
}
