package bidi

import (
	"fmt"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/scribe-edit/scribe/internal/engine/position"
)

// MoveDirection names a cursor movement intent.
type MoveDirection uint8

const (
	MoveLeft MoveDirection = iota
	MoveRight
	MoveUp
	MoveDown
	MoveHome
	MoveEnd
	MoveWordLeft
	MoveWordRight
)

func (d MoveDirection) String() string {
	switch d {
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveHome:
		return "home"
	case MoveEnd:
		return "end"
	case MoveWordLeft:
		return "word-left"
	case MoveWordRight:
		return "word-right"
	default:
		return fmt.Sprintf("MoveDirection(%d)", uint8(d))
	}
}

// Move resolves a horizontal movement within the paragraph and
// returns the new logical column. Arrow keys step through visually
// adjacent clusters, so in mixed-direction text the caret can jump
// within logical order while gliding smoothly on screen. Vertical
// directions need line context and fail with ErrLineContext.
func (p *Paragraph) Move(dir MoveDirection, col int) (int, error) {
	n := p.Len()
	if col < 0 || col > n {
		return 0, ErrIndexOutOfRange
	}
	switch dir {
	case MoveLeft, MoveRight:
		v, err := p.LogicalToVisual(col)
		if err != nil {
			return 0, err
		}
		if dir == MoveLeft {
			v--
		} else {
			v++
		}
		if v < 0 {
			v = 0
		}
		if v > n {
			v = n
		}
		return p.VisualToLogical(v)
	case MoveHome:
		return p.home(col), nil
	case MoveEnd:
		return n, nil
	case MoveWordLeft:
		return p.wordLeft(col), nil
	case MoveWordRight:
		return p.wordRight(col), nil
	case MoveUp, MoveDown:
		return 0, ErrLineContext
	default:
		return 0, ErrInvalidDirection
	}
}

// home implements smart-home: first press targets the first
// non-whitespace cluster, a second press from there targets column 0.
func (p *Paragraph) home(col int) int {
	indent := firstNonWhitespaceColumn(p.text)
	if col == indent {
		return 0
	}
	return indent
}

// wordRight returns the start of the next word strictly after col, or
// the paragraph end when no word follows.
func (p *Paragraph) wordRight(col int) int {
	for _, c := range wordStartColumns(p.text) {
		if c > col {
			return c
		}
	}
	return p.Len()
}

// wordLeft returns the start of the nearest word strictly before col,
// or column 0 when none precedes.
func (p *Paragraph) wordLeft(col int) int {
	best := 0
	for _, c := range wordStartColumns(p.text) {
		if c >= col {
			break
		}
		best = c
	}
	return best
}

// MoveVertical moves the caret to the adjacent line of lines, clamping
// to the destination line's cluster count. The sticky column, when
// set (>= 0), is preferred over the literal current column so the
// caret recovers its horizontal position after shorter lines. It
// returns the new position and the sticky column to record, the
// larger of the requested and landed columns. Moving past the first
// or last line stays on the boundary line.
func MoveVertical(lines []string, pos position.Position, dir MoveDirection, sticky int) (position.Position, int, error) {
	if dir != MoveUp && dir != MoveDown {
		return position.Position{}, 0, ErrInvalidDirection
	}
	if pos.Line < 0 || pos.Line >= len(lines) {
		return position.Position{}, 0, ErrIndexOutOfRange
	}

	target := pos.Line
	if dir == MoveUp {
		target--
	} else {
		target++
	}
	if target < 0 {
		target = 0
	}
	if target >= len(lines) {
		target = len(lines) - 1
	}

	want := pos.Column
	if sticky >= 0 {
		want = sticky
	}
	width := uniseg.GraphemeClusterCount(lines[target])
	col := want
	if col > width {
		col = width
	}
	newSticky := want
	if col > newSticky {
		newSticky = col
	}
	return position.New(target, col), newSticky, nil
}

// firstNonWhitespaceColumn returns the cluster column of the first
// non-whitespace cluster, or 0 for blank text.
func firstNonWhitespaceColumn(text string) int {
	col := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		cluster, r, _, next := uniseg.StepString(rest, state)
		if !startsWithSpace(cluster) {
			return col
		}
		col++
		rest = r
		state = next
	}
	return 0
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return true
}

// wordStartColumns returns the cluster columns where non-whitespace
// word segments begin, per Unicode word segmentation.
func wordStartColumns(text string) []int {
	var cols []int
	col := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if !startsWithSpace(word) {
			cols = append(cols, col)
		}
		col += uniseg.GraphemeClusterCount(word)
	}
	return cols
}
