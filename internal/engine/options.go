package engine

import (
	"log/slog"

	"github.com/scribe-edit/scribe/internal/engine/bidi"
	"github.com/scribe-edit/scribe/internal/engine/bidi/paracache"
)

// Option configures an Editor.
type Option func(*Editor)

// WithContent seeds the editor with initial text.
func WithContent(text string) Option {
	return func(e *Editor) { e.initContent = text }
}

// WithFile loads the editor content from path.
func WithFile(path string) Option {
	return func(e *Editor) { e.initPath = path }
}

// WithReadOnly opens the buffer write-protected.
func WithReadOnly() Option {
	return func(e *Editor) { e.readOnly = true }
}

// WithDefaultLineEnding sets the convention used when the initial
// content has no line breaks to detect from.
func WithDefaultLineEnding(le LineEnding) Option {
	return func(e *Editor) { e.defaultLE = &le }
}

// WithHistoryLimits bounds undo memory by group count and bytes.
func WithHistoryLimits(maxGroups, maxBytes int) Option {
	return func(e *Editor) {
		e.maxGroups = maxGroups
		e.maxBytes = maxBytes
	}
}

// WithBaseDirection forces the paragraph direction instead of
// detecting it per line.
func WithBaseDirection(d bidi.Direction) Option {
	return func(e *Editor) { e.baseDir = d }
}

// WithParagraphCache configures the bidi resolution cache.
func WithParagraphCache(cfg paracache.Config) Option {
	return func(e *Editor) { e.cacheConfig = cfg }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}
