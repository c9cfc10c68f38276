package history

import (
	"fmt"
	"unicode/utf8"

	"github.com/scribe-edit/scribe/internal/engine/buffer"
	"github.com/scribe-edit/scribe/internal/engine/position"
)

// Default memory bounds for a history.
const (
	DefaultMaxGroups = 1000
	DefaultMaxBytes  = 32 << 20
)

// UndoGroup is a run of operations undone and redone as a unit.
type UndoGroup struct {
	ops []buffer.EditOperation
}

// Operations returns the group's operations in application order.
func (g *UndoGroup) Operations() []buffer.EditOperation { return g.ops }

func (g *UndoGroup) byteSize() int {
	total := 0
	for i := range g.ops {
		total += g.ops[i].ByteSize()
	}
	return total
}

// UndoHistory tracks edits to one buffer. It is not safe for
// concurrent use.
type UndoHistory struct {
	undo    []*UndoGroup
	redo    []*UndoGroup
	pending *UndoGroup

	maxGroups int
	maxBytes  int
	bytes     int // closed undo groups plus pending
}

// Option configures an UndoHistory.
type Option func(*UndoHistory)

// WithMaxGroups bounds the number of closed undo groups retained.
func WithMaxGroups(n int) Option {
	return func(h *UndoHistory) { h.maxGroups = n }
}

// WithMaxBytes bounds the total text payload retained across groups.
func WithMaxBytes(n int) Option {
	return func(h *UndoHistory) { h.maxBytes = n }
}

// New returns an empty history with the default bounds.
func New(opts ...Option) *UndoHistory {
	h := &UndoHistory{
		maxGroups: DefaultMaxGroups,
		maxBytes:  DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RecordOperation appends op to the open group, folding it into the
// previous operation when the two are mergeable. Recording always
// clears the redo stack.
func (h *UndoHistory) RecordOperation(op buffer.EditOperation) {
	h.redo = nil
	if h.pending == nil {
		h.pending = &UndoGroup{}
	}
	h.bytes += op.ByteSize()
	if n := len(h.pending.ops); n > 0 {
		last := &h.pending.ops[n-1]
		if last.CanMergeWith(&op) {
			last.MergeWith(&op)
			h.evict()
			return
		}
	}
	h.pending.ops = append(h.pending.ops, op)
	h.evict()
}

// CreateUndoBoundary closes the open group. The next recorded
// operation starts a fresh group. Calling with no open group is a
// no-op.
func (h *UndoHistory) CreateUndoBoundary() {
	if h.pending == nil || len(h.pending.ops) == 0 {
		return
	}
	h.undo = append(h.undo, h.pending)
	h.pending = nil
	h.evict()
}

// evict drops the oldest closed groups until the count and byte bounds
// hold. The newest group survives even when it alone exceeds the byte
// bound.
func (h *UndoHistory) evict() {
	for len(h.undo) > h.maxGroups {
		h.dropOldest()
	}
	for h.bytes > h.maxBytes && len(h.undo) > 1 {
		h.dropOldest()
	}
	for h.bytes > h.maxBytes && len(h.undo) == 1 && h.pending != nil && len(h.pending.ops) > 0 {
		h.dropOldest()
	}
}

func (h *UndoHistory) dropOldest() {
	if len(h.undo) == 0 {
		return
	}
	h.bytes -= h.undo[0].byteSize()
	h.undo = h.undo[1:]
}

// CanUndo reports whether Undo would apply a group.
func (h *UndoHistory) CanUndo() bool {
	return len(h.undo) > 0 || (h.pending != nil && len(h.pending.ops) > 0)
}

// CanRedo reports whether Redo would apply a group.
func (h *UndoHistory) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of groups Undo can step through,
// counting an open group.
func (h *UndoHistory) UndoDepth() int {
	n := len(h.undo)
	if h.pending != nil && len(h.pending.ops) > 0 {
		n++
	}
	return n
}

// RedoDepth returns the number of groups Redo can step through.
func (h *UndoHistory) RedoDepth() int { return len(h.redo) }

// Clear discards all undo and redo state.
func (h *UndoHistory) Clear() {
	h.undo = nil
	h.redo = nil
	h.pending = nil
	h.bytes = 0
}

// Undo reverts the most recent group against buf and returns the caret
// position after the revert.
func (h *UndoHistory) Undo(buf *buffer.Buffer) (position.Position, error) {
	h.CreateUndoBoundary()
	if len(h.undo) == 0 {
		return position.Position{}, ErrNothingToUndo
	}
	g := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.bytes -= g.byteSize()

	for i := len(g.ops) - 1; i >= 0; i-- {
		if err := applyInverse(buf, &g.ops[i]); err != nil {
			return position.Position{}, fmt.Errorf("undo: %w", err)
		}
	}
	h.redo = append(h.redo, g)
	return g.ops[0].Start, nil
}

// Redo re-applies the most recently undone group against buf and
// returns the caret position after the edit.
func (h *UndoHistory) Redo(buf *buffer.Buffer) (position.Position, error) {
	if len(h.redo) == 0 {
		return position.Position{}, ErrNothingToRedo
	}
	g := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	for i := range g.ops {
		if err := applyForward(buf, &g.ops[i]); err != nil {
			return position.Position{}, fmt.Errorf("redo: %w", err)
		}
	}
	h.undo = append(h.undo, g)
	h.bytes += g.byteSize()
	h.evict()
	return g.ops[len(g.ops)-1].CursorAfter, nil
}

// applyInverse reverts one operation. Operations within a group are
// reverted newest first, so each op's recorded positions are valid
// when its turn comes.
func applyInverse(buf *buffer.Buffer, op *buffer.EditOperation) error {
	switch op.Kind {
	case buffer.OpInsert:
		_, err := buf.Delete(op.Start, op.End)
		return err
	case buffer.OpDelete:
		_, err := buf.Insert(op.Start, op.DeletedText)
		return err
	case buffer.OpReplace:
		_, err := buf.Replace(op.Start, op.CursorAfter, op.DeletedText)
		return err
	}
	return nil
}

// applyForward re-applies one operation. The end of a deleted region
// is recomputed from the deleted text because folding extends the text
// without restating the pre-edit range.
func applyForward(buf *buffer.Buffer, op *buffer.EditOperation) error {
	switch op.Kind {
	case buffer.OpInsert:
		_, err := buf.Insert(op.Start, op.InsertedText)
		return err
	case buffer.OpDelete:
		end, err := deletedEnd(buf, op)
		if err != nil {
			return err
		}
		_, err = buf.Delete(op.Start, end)
		return err
	case buffer.OpReplace:
		end, err := deletedEnd(buf, op)
		if err != nil {
			return err
		}
		_, err = buf.Replace(op.Start, end, op.InsertedText)
		return err
	}
	return nil
}

func deletedEnd(buf *buffer.Buffer, op *buffer.EditOperation) (position.Position, error) {
	si, err := buf.PositionToCharIdx(op.Start)
	if err != nil {
		return position.Position{}, err
	}
	return buf.CharIdxToPosition(si + utf8.RuneCountInString(op.DeletedText)), nil
}
