package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher implements Watcher on top of fsnotify with debouncing.
type FileWatcher struct {
	mu sync.RWMutex

	inner    *fsnotify.Watcher
	config   Config
	paths    map[string]bool
	events   chan Event
	errors   chan error
	debounce *debouncer

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a file watcher.
func New(opts ...Option) (*FileWatcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FileWatcher{
		inner:  inner,
		config: config,
		paths:  make(map[string]bool),
		events: make(chan Event, config.BufferSize),
		errors: make(chan error, config.BufferSize),
		done:   make(chan struct{}),
	}
	w.debounce = newDebouncer(config.Debounce, w.deliver)

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch starts watching path for changes.
func (w *FileWatcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.paths[abs] {
		return nil
	}
	if err := w.inner.Add(abs); err != nil {
		return err
	}
	w.paths[abs] = true
	return nil
}

// Unwatch stops watching path.
func (w *FileWatcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if !w.paths[abs] {
		return ErrNotWatching
	}
	delete(w.paths, abs)
	return w.inner.Remove(abs)
}

// Events returns the debounced event channel.
func (w *FileWatcher) Events() <-chan Event { return w.events }

// Errors returns the error channel.
func (w *FileWatcher) Errors() <-chan error { return w.errors }

// IsWatching reports whether path is being watched.
func (w *FileWatcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.paths[abs]
}

// Close stops the watcher. Events and Errors are closed after any
// in-flight delivery finishes.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.debounce.Close()
	err := w.inner.Close()
	close(w.done)
	w.wg.Wait()

	// Taking the write lock flushes out any deliver still holding the
	// read lock before the channels close.
	w.mu.Lock()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()
	return err
}

func (w *FileWatcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.inner.Events:
			if !ok {
				return
			}
			w.debounce.Add(Event{
				Path:      ev.Name,
				Op:        translateOp(ev.Op),
				Timestamp: time.Now(),
			})
		case err, ok := <-w.inner.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// deliver pushes a debounced event, dropping it if the consumer has
// fallen behind the buffer.
func (w *FileWatcher) deliver(ev Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.events <- ev:
	default:
	}
}

func translateOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Write):
		return OpWrite
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	case op.Has(fsnotify.Chmod):
		return OpChmod
	default:
		return OpWrite
	}
}
