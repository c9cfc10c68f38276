package buffer

import (
	"fmt"

	"github.com/scribe-edit/scribe/internal/engine/position"
)

// OpKind tags an edit operation.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpDelete
	OpReplace
)

// String returns the operation tag name.
func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// EditOperation describes one applied mutation. The buffer produces an
// operation for every successful insert, delete, or replace; operations
// are immutable once created and carry everything needed to invert them.
//
// For OpInsert, Start..End is the range the inserted text occupies after
// the edit. For OpDelete and OpReplace, Start..End is the pre-edit range
// that was removed.
type EditOperation struct {
	Kind         OpKind
	Start        position.Position
	End          position.Position
	InsertedText string
	DeletedText  string

	// CursorAfter is where the caret lands after the edit. Undo uses it
	// (together with Start) to restore the caret around inverse application.
	CursorAfter position.Position
}

// String returns a human-readable description of the operation.
func (op *EditOperation) String() string {
	switch op.Kind {
	case OpInsert:
		return fmt.Sprintf("insert %q at %s", op.InsertedText, op.Start)
	case OpDelete:
		return fmt.Sprintf("delete %q at %s", op.DeletedText, op.Start)
	default:
		return fmt.Sprintf("replace %q with %q at %s", op.DeletedText, op.InsertedText, op.Start)
	}
}

// ByteSize approximates the memory held by the operation's payload.
// The history uses it to enforce its byte budget.
func (op *EditOperation) ByteSize() int {
	return len(op.InsertedText) + len(op.DeletedText)
}

// MergeWith folds next into op in place. Callers check CanMergeWith
// first.
func (op *EditOperation) MergeWith(next *EditOperation) {
	switch op.Kind {
	case OpInsert:
		op.InsertedText += next.InsertedText
		op.End = next.End
	case OpDelete:
		if next.End == op.Start {
			// Backward run: next removed text immediately before op.
			op.Start = next.Start
			op.DeletedText = next.DeletedText + op.DeletedText
		} else {
			// Forward run at the same position.
			op.DeletedText += next.DeletedText
		}
	}
	op.CursorAfter = next.CursorAfter
}

// CanMergeWith reports whether next can be folded into the same undo
// group as op. Operations merge only when they share a tag (Replace never
// merges) and are spatially adjacent: an insert chain grows forward from
// the previous end, a delete chain is contiguous in either direction so
// both backspace runs and forward-delete runs coalesce.
func (op *EditOperation) CanMergeWith(next *EditOperation) bool {
	if op.Kind != next.Kind || op.Kind == OpReplace {
		return false
	}
	if op.Kind == OpInsert {
		return op.End == next.Start
	}
	// Delete: forward-delete repeats at the same start; backspace walks
	// backward so the new deletion ends where the previous one started.
	return next.Start == op.Start || next.End == op.Start
}
