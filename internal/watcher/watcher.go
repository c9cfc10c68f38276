// Package watcher detects external changes to files open in the
// editor, so the application layer can prompt for reload. Events are
// debounced: editors and build tools often touch a file several times
// in quick succession, and one notification per burst is enough.
package watcher

import (
	"errors"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrClosed       = errors.New("watcher: closed")
	ErrNotWatching  = errors.New("watcher: path is not being watched")
	ErrPathNotExist = errors.New("watcher: path does not exist")
)

// Op is the kind of file system change.
type Op uint8

const (
	OpWrite Op = iota
	OpCreate
	OpRemove
	OpRename
	OpChmod
)

func (op Op) String() string {
	switch op {
	case OpWrite:
		return "WRITE"
	case OpCreate:
		return "CREATE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

// Event is a change to a watched file.
type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

// Watcher monitors files for external changes.
type Watcher interface {
	// Watch starts watching a file. Watching an already watched path
	// is a no-op.
	Watch(path string) error

	// Unwatch stops watching a file.
	Unwatch(path string) error

	// Events returns the debounced change events. Closed on Close.
	Events() <-chan Event

	// Errors returns watcher errors. Closed on Close.
	Errors() <-chan error

	// IsWatching reports whether path is being watched.
	IsWatching(path string) bool

	// Close stops the watcher and releases resources.
	Close() error
}

// Config holds watcher configuration.
type Config struct {
	// Debounce is the quiet period before an event is delivered;
	// changes within the window coalesce into one event.
	Debounce time.Duration

	// BufferSize is the event and error channel capacity.
	BufferSize int
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() Config {
	return Config{
		Debounce:   100 * time.Millisecond,
		BufferSize: 64,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithDebounce sets the coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) { c.Debounce = d }
}

// WithBufferSize sets the channel capacity.
func WithBufferSize(n int) Option {
	return func(c *Config) { c.BufferSize = n }
}
