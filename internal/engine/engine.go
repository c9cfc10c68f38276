// Package engine is the facade over the editor core: it combines the
// rope-backed buffer, undo history, selection state, and the
// bidirectional text engine into one thread-safe API.
package engine

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/scribe-edit/scribe/internal/engine/bidi"
	"github.com/scribe-edit/scribe/internal/engine/bidi/paracache"
	"github.com/scribe-edit/scribe/internal/engine/buffer"
	"github.com/scribe-edit/scribe/internal/engine/history"
	"github.com/scribe-edit/scribe/internal/engine/position"
	"github.com/scribe-edit/scribe/internal/engine/selection"
)

// Re-export commonly used types for convenience.
type (
	// Position is a line/column position; columns count grapheme
	// clusters.
	Position = position.Position

	// Range is an ordered position pair.
	Range = position.Range

	// EditOperation describes an applied edit.
	EditOperation = buffer.EditOperation

	// LineEnding is the line ending convention of a buffer.
	LineEnding = buffer.LineEnding

	// Metrics describes buffer size.
	Metrics = buffer.Metrics

	// Snapshot is a tear-free view of buffer content.
	Snapshot = buffer.Snapshot

	// Selection is an anchor/head pair.
	Selection = selection.Selection

	// Cursor is a caret with sticky-column state.
	Cursor = selection.Cursor

	// MoveDirection names a cursor movement intent.
	MoveDirection = bidi.MoveDirection

	// VisualRun is a display-ordered directional run.
	VisualRun = bidi.VisualRun
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR

	MoveLeft      = bidi.MoveLeft
	MoveRight     = bidi.MoveRight
	MoveUp        = bidi.MoveUp
	MoveDown      = bidi.MoveDown
	MoveHome      = bidi.MoveHome
	MoveEnd       = bidi.MoveEnd
	MoveWordLeft  = bidi.MoveWordLeft
	MoveWordRight = bidi.MoveWordRight
)

// Editor is the main facade for the editing core. All operations are
// safe for concurrent use.
type Editor struct {
	mu sync.RWMutex

	buf    *buffer.Buffer
	hist   *history.UndoHistory
	sels   *selection.SelectionSet
	cursor selection.Cursor
	paras  *paracache.Cache

	baseDir bidi.Direction
	logger  *slog.Logger

	// Configuration captured by options before construction.
	initContent string
	initPath    string
	readOnly    bool
	defaultLE   *buffer.LineEnding
	maxGroups   int
	maxBytes    int
	cacheConfig paracache.Config
}

// New creates an editor with the given options.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		baseDir:     bidi.DirectionNeutral,
		logger:      slog.Default(),
		maxGroups:   history.DefaultMaxGroups,
		maxBytes:    history.DefaultMaxBytes,
		cacheConfig: paracache.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	switch {
	case e.initPath != "":
		buf, err := buffer.FromFile(e.initPath)
		if err != nil {
			return nil, err
		}
		e.buf = buf
	case e.initContent != "":
		e.buf = buffer.FromString(e.initContent)
	default:
		e.buf = buffer.New()
	}
	e.buf.SetReadOnly(e.readOnly)
	if e.defaultLE != nil && !strings.ContainsAny(e.buf.Text(), "\r\n") {
		e.buf.SetLineEnding(*e.defaultLE)
	}

	e.hist = history.New(
		history.WithMaxGroups(e.maxGroups),
		history.WithMaxBytes(e.maxBytes),
	)
	e.sels = selection.NewSet(position.Position{})
	e.cursor = selection.NewCursor(position.Position{})
	e.paras = paracache.New(e.cacheConfig)

	e.logger.Debug("editor created",
		"buffer", e.buf.ID(),
		"lines", e.buf.LineCount(),
		"line_ending", e.buf.LineEnding().String(),
	)
	return e, nil
}

// ============================================================================
// Read operations
// ============================================================================

// Text returns the full buffer content.
func (e *Editor) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// Line returns the content of line i without its terminator.
func (e *Editor) Line(i int) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Line(i)
}

// LineCount returns the number of lines.
func (e *Editor) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// Metrics returns buffer size metrics.
func (e *Editor) Metrics() Metrics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Metrics()
}

// Snapshot returns a point-in-time view safe for concurrent reads
// while editing continues.
func (e *Editor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// IsDirty reports whether there are unsaved changes.
func (e *Editor) IsDirty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsDirty()
}

// Version returns the buffer mutation counter.
func (e *Editor) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Version()
}

// Cursor returns the primary caret.
func (e *Editor) Cursor() Cursor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursor
}

// Selections returns every selection in document order.
func (e *Editor) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sels.All()
}

// VisualRuns returns line i's directional runs in display order, for
// shaping and rendering.
func (e *Editor) VisualRuns(i int) ([]VisualRun, error) {
	e.mu.RLock()
	text, err := e.buf.Line(i)
	base := e.baseDir
	e.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return e.paras.Get(text, base).VisualRuns(), nil
}

// ============================================================================
// Edit operations
// ============================================================================

// Insert places text at the primary caret and advances it.
func (e *Editor) Insert(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	op, err := e.buf.Insert(e.cursor.Position, text)
	if err != nil {
		return err
	}
	e.recordLocked(op)
	e.setCaretLocked(op.CursorAfter)
	return nil
}

// InsertAt places text at pos; the caret follows the insertion.
func (e *Editor) InsertAt(pos Position, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	op, err := e.buf.Insert(pos, text)
	if err != nil {
		return err
	}
	e.recordLocked(op)
	e.setCaretLocked(op.CursorAfter)
	return nil
}

// Delete removes the text between start and end.
func (e *Editor) Delete(start, end Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	op, err := e.buf.Delete(start, end)
	if err != nil {
		return err
	}
	e.recordLocked(op)
	e.setCaretLocked(op.CursorAfter)
	return nil
}

// Replace substitutes the text between start and end.
func (e *Editor) Replace(start, end Position, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	op, err := e.buf.Replace(start, end, text)
	if err != nil {
		return err
	}
	e.recordLocked(op)
	e.setCaretLocked(op.CursorAfter)
	return nil
}

// Backspace deletes the cluster before the caret, or the selected
// range when the primary selection is not collapsed.
func (e *Editor) Backspace() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sel := e.sels.Primary(); !sel.IsCollapsed() {
		return e.deleteSelectionLocked(sel)
	}
	op, ok, err := e.buf.Backspace(e.cursor.Position)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	e.recordLocked(op)
	e.setCaretLocked(op.CursorAfter)
	return nil
}

// DeleteForward deletes the cluster at the caret, or the selected
// range when the primary selection is not collapsed.
func (e *Editor) DeleteForward() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sel := e.sels.Primary(); !sel.IsCollapsed() {
		return e.deleteSelectionLocked(sel)
	}
	op, ok, err := e.buf.DeleteForward(e.cursor.Position)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	e.recordLocked(op)
	e.setCaretLocked(op.CursorAfter)
	return nil
}

func (e *Editor) deleteSelectionLocked(sel Selection) error {
	r := sel.Range()
	op, err := e.buf.Delete(r.Start, r.End)
	if err != nil {
		return err
	}
	e.recordLocked(op)
	e.setCaretLocked(op.CursorAfter)
	return nil
}

func (e *Editor) recordLocked(op EditOperation) {
	e.hist.RecordOperation(op)
	e.logger.Debug("edit applied",
		"kind", op.Kind.String(),
		"start", op.Start.String(),
		"version", e.buf.Version(),
	)
}

// setCaretLocked moves the caret, collapses selections to it, and
// clears sticky state, as every horizontal change does.
func (e *Editor) setCaretLocked(pos Position) {
	e.cursor.Position = pos
	e.cursor.ClearSticky()
	e.sels.ClearSecondary()
	e.sels.SetPrimary(selection.Collapsed(pos))
}

// ============================================================================
// Undo / redo
// ============================================================================

// Undo reverts the most recent edit group and restores the caret.
func (e *Editor) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	caret, err := e.hist.Undo(e.buf)
	if err != nil {
		return err
	}
	e.setCaretLocked(caret)
	e.logger.Debug("undo", "caret", caret.String())
	return nil
}

// Redo re-applies the most recently undone group.
func (e *Editor) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	caret, err := e.hist.Redo(e.buf)
	if err != nil {
		return err
	}
	e.setCaretLocked(caret)
	e.logger.Debug("redo", "caret", caret.String())
	return nil
}

// CreateUndoBoundary closes the open undo group.
func (e *Editor) CreateUndoBoundary() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hist.CreateUndoBoundary()
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.CanRedo()
}

// ============================================================================
// Cursor movement
// ============================================================================

// Move resolves a movement intent against the current caret. Vertical
// moves consult and update the sticky column; all other moves clear
// it.
func (e *Editor) Move(dir MoveDirection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch dir {
	case MoveUp, MoveDown:
		lines := make([]string, e.buf.LineCount())
		for i := range lines {
			text, err := e.buf.Line(i)
			if err != nil {
				return err
			}
			lines[i] = text
		}
		pos, sticky, err := bidi.MoveVertical(lines, e.cursor.Position, dir, e.cursor.StickyColumn)
		if err != nil {
			return err
		}
		e.cursor.Position = pos
		e.cursor.StickyColumn = sticky
		e.sels.ClearSecondary()
		e.sels.SetPrimary(selection.Collapsed(pos))
		return nil

	default:
		text, err := e.buf.Line(e.cursor.Position.Line)
		if err != nil {
			return err
		}
		para := e.paras.Get(text, e.baseDir)
		col, err := para.Move(dir, e.cursor.Position.Column)
		if err != nil {
			return err
		}
		e.setCaretLocked(position.New(e.cursor.Position.Line, col))
		return nil
	}
}

// SetCursor places the caret explicitly, as a click does.
func (e *Editor) SetCursor(pos Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.buf.PositionToCharIdx(pos); err != nil {
		return err
	}
	e.setCaretLocked(pos)
	return nil
}

// AddCursor adds a secondary caret at pos.
func (e *Editor) AddCursor(pos Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.buf.PositionToCharIdx(pos); err != nil {
		return err
	}
	e.sels.AddSelection(selection.Collapsed(pos))
	return nil
}

// Select replaces the primary selection; the caret tracks the head.
func (e *Editor) Select(anchor, head Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.buf.PositionToCharIdx(anchor); err != nil {
		return err
	}
	if _, err := e.buf.PositionToCharIdx(head); err != nil {
		return err
	}
	e.sels.SetPrimary(selection.New(anchor, head))
	e.cursor.Position = head
	e.cursor.ClearSticky()
	return nil
}

// ============================================================================
// File operations
// ============================================================================

// Save writes the buffer to its backing file.
func (e *Editor) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.buf.Save(); err != nil {
		return err
	}
	e.logger.Info("buffer saved", "path", e.buf.FilePath())
	return nil
}

// SaveAs writes the buffer to path and adopts it.
func (e *Editor) SaveAs(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.buf.SaveAs(path); err != nil {
		return err
	}
	e.logger.Info("buffer saved", "path", path)
	return nil
}

// Reload re-reads the backing file, discarding unsaved changes and
// all history.
func (e *Editor) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	path := e.buf.FilePath()
	if path == "" {
		return buffer.ErrNoFilePath
	}
	fresh, err := buffer.FromFile(path)
	if err != nil {
		return err
	}
	fresh.SetReadOnly(e.buf.IsReadOnly())
	e.buf = fresh
	e.hist.Clear()
	e.paras.InvalidateAll()
	e.sels = selection.NewSet(position.Position{})
	e.cursor = selection.NewCursor(position.Position{})
	e.logger.Info("buffer reloaded", "path", path)
	return nil
}
