package selection

import (
	"fmt"

	"github.com/scribe-edit/scribe/internal/engine/position"
)

// Granularity is the unit a selection was made with. Extending a word
// or line selection snaps to the same unit.
type Granularity uint8

const (
	GranularityChar Granularity = iota
	GranularityWord
	GranularityLine
)

func (g Granularity) String() string {
	switch g {
	case GranularityChar:
		return "char"
	case GranularityWord:
		return "word"
	case GranularityLine:
		return "line"
	default:
		return fmt.Sprintf("Granularity(%d)", uint8(g))
	}
}

// Selection is an anchor/head pair. The anchor is the fixed end, the
// head the moving end; they may be in either order.
type Selection struct {
	Anchor      position.Position
	Head        position.Position
	Granularity Granularity
}

// Collapsed returns a zero-width selection at pos.
func Collapsed(pos position.Position) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// New returns a selection from anchor to head.
func New(anchor, head position.Position) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsCollapsed reports whether the selection is zero-width.
func (s Selection) IsCollapsed() bool { return s.Anchor == s.Head }

// IsForward reports whether the head is at or after the anchor.
func (s Selection) IsForward() bool { return !s.Head.Before(s.Anchor) }

// Range returns the selection as an ordered range.
func (s Selection) Range() position.Range {
	return position.NewRange(s.Anchor, s.Head)
}

// WithHead returns a copy with the head moved and the anchor kept.
func (s Selection) WithHead(head position.Position) Selection {
	s.Head = head
	return s
}

// CollapseToHead returns a zero-width selection at the head.
func (s Selection) CollapseToHead() Selection {
	s.Anchor = s.Head
	return s
}

func (s Selection) String() string {
	if s.IsCollapsed() {
		return s.Head.String()
	}
	return fmt.Sprintf("%s..%s", s.Anchor, s.Head)
}

// Affinity disambiguates which side of a direction boundary a caret
// sits on in bidirectional text.
type Affinity uint8

const (
	AffinityDownstream Affinity = iota
	AffinityUpstream
)

// Cursor is a caret with movement state. StickyColumn remembers the
// desired column across vertical moves through shorter lines; -1 means
// unset.
type Cursor struct {
	Position     position.Position
	Affinity     Affinity
	StickyColumn int
}

// NewCursor returns a cursor at pos with no sticky column.
func NewCursor(pos position.Position) Cursor {
	return Cursor{Position: pos, StickyColumn: -1}
}

// DesiredColumn returns the column vertical movement aims for.
func (c Cursor) DesiredColumn() int {
	if c.StickyColumn >= 0 {
		return c.StickyColumn
	}
	return c.Position.Column
}

// ClearSticky resets the sticky column, as any horizontal move does.
func (c *Cursor) ClearSticky() { c.StickyColumn = -1 }
