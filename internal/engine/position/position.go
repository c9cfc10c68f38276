// Package position provides the location value types shared by the engine.
//
// A Position addresses a point in a document by line and column. The column
// counts grapheme clusters from the start of the line, not bytes or runes,
// so a combining-mark sequence or a multi-codepoint emoji occupies a single
// column. Positions are only meaningful relative to a specific buffer
// snapshot; validation against line and grapheme counts happens in the
// buffer package.
package position

import "fmt"

// Position is a line/column location in a document.
// Line and Column are both 0-indexed. Column is measured in grapheme
// clusters from the start of the line.
type Position struct {
	Line   int
	Column int
}

// New creates a Position.
func New(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
// Ordering is lexicographic: line first, then column.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero position (0:0).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Min returns the earlier of two positions.
func Min(a, b Position) Position {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

// Max returns the later of two positions.
func Max(a, b Position) Position {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

// Range is a pair of positions with Start <= End.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a Range, swapping the endpoints if given out of order.
func NewRange(a, b Position) Range {
	if a.After(b) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start, r.End)
}

// IsEmpty returns true if the range has zero extent.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if the position falls within [Start, End).
func (r Range) Contains(p Position) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// Touches returns true if the ranges overlap or share an endpoint.
func (r Range) Touches(other Range) bool {
	return r.Start.Compare(other.End) <= 0 && other.Start.Compare(r.End) <= 0
}

// Union returns the smallest range covering both ranges.
func (r Range) Union(other Range) Range {
	return Range{
		Start: Min(r.Start, other.Start),
		End:   Max(r.End, other.End),
	}
}
