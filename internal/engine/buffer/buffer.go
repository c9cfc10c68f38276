package buffer

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/scribe-edit/scribe/internal/engine/position"
	"github.com/scribe-edit/scribe/internal/engine/rope"
)

// Buffer is a single in-memory text document. It is not safe for
// concurrent mutation; callers serialize writes.
type Buffer struct {
	id         uuid.UUID
	content    rope.Rope
	version    uint64
	filePath   string
	lineEnding LineEnding
	dirty      bool
	readOnly   bool
}

// Metrics describes the size of a buffer.
type Metrics struct {
	LineCount   int
	CharCount   int
	ByteCount   int
	LongestLine int // grapheme-free char count of the longest line
}

// New returns an empty buffer with the platform line ending.
func New() *Buffer {
	return &Buffer{
		id:         uuid.New(),
		content:    rope.New(),
		lineEnding: platformLineEnding(),
	}
}

// FromString returns a buffer holding text. The line ending convention
// is detected from the content.
func FromString(text string) *Buffer {
	return &Buffer{
		id:         uuid.New(),
		content:    rope.FromString(text),
		lineEnding: DetectLineEnding(text),
	}
}

// FromFile reads path into a new buffer. The file content is kept
// verbatim; CRLF sequences are preserved, not normalized.
func FromFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	b := FromString(string(data))
	b.filePath = path
	return b, nil
}

// ID returns the buffer's stable identifier.
func (b *Buffer) ID() uuid.UUID { return b.id }

// Version returns a counter incremented on every mutation.
func (b *Buffer) Version() uint64 { return b.version }

// FilePath returns the backing file path, or "" for scratch buffers.
func (b *Buffer) FilePath() string { return b.filePath }

// LineEnding returns the buffer's detected line ending convention.
func (b *Buffer) LineEnding() LineEnding { return b.lineEnding }

// IsDirty reports whether the buffer has unsaved changes.
func (b *Buffer) IsDirty() bool { return b.dirty }

// IsReadOnly reports whether mutations are rejected.
func (b *Buffer) IsReadOnly() bool { return b.readOnly }

// SetReadOnly toggles write protection.
func (b *Buffer) SetReadOnly(ro bool) { b.readOnly = ro }

// SetLineEnding overrides the line ending convention. Metadata only;
// existing content is not rewritten.
func (b *Buffer) SetLineEnding(le LineEnding) { b.lineEnding = le }

// SetFilePath adopts path as the backing file without writing it.
func (b *Buffer) SetFilePath(path string) { b.filePath = path }

// Content returns the buffer's rope. The rope is immutable and safe to
// retain across later edits.
func (b *Buffer) Content() rope.Rope { return b.content }

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string { return b.content.String() }

// Len returns the buffer length in characters.
func (b *Buffer) Len() int { return b.content.Len() }

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int { return b.content.LineCount() }

// Line returns the content of line (0-based) without its terminator.
func (b *Buffer) Line(line int) (string, error) {
	if line < 0 || line >= b.LineCount() {
		return "", &PositionError{Pos: position.New(line, 0)}
	}
	return b.lineContent(line), nil
}

// lineContent returns line text with the terminator stripped,
// including a trailing '\r' left by CRLF files.
func (b *Buffer) lineContent(line int) string {
	return strings.TrimSuffix(b.content.LineText(line), "\r")
}

// EndPosition returns the position just past the last character.
func (b *Buffer) EndPosition() position.Position {
	last := b.LineCount() - 1
	return position.New(last, graphemeCount(b.lineContent(last)))
}

// Metrics returns line, character, and byte counts plus the longest
// line's character length.
func (b *Buffer) Metrics() Metrics {
	sum := b.content.Summary()
	longest := 0
	it := b.content.Lines()
	for it.Next() {
		n := utf8.RuneCountInString(strings.TrimSuffix(it.Text(), "\r"))
		if n > longest {
			longest = n
		}
	}
	return Metrics{
		LineCount:   b.LineCount(),
		CharCount:   sum.Chars,
		ByteCount:   sum.Bytes,
		LongestLine: longest,
	}
}

// PositionToCharIdx converts a line/column position to a character
// offset into the buffer. Columns count grapheme clusters; a column
// past the end of the line is an error.
func (b *Buffer) PositionToCharIdx(pos position.Position) (rope.CharOffset, error) {
	if pos.Line < 0 || pos.Line >= b.LineCount() || pos.Column < 0 {
		return 0, &PositionError{Pos: pos}
	}
	content := b.lineContent(pos.Line)
	chars, clusters := graphemePrefixChars(content, pos.Column)
	if clusters < pos.Column {
		return 0, &PositionError{Pos: pos}
	}
	return b.content.LineStart(pos.Line) + chars, nil
}

// CharIdxToPosition converts a character offset to a line/column
// position. Out-of-range offsets clamp to the document bounds, and
// offsets inside a grapheme cluster land on the cluster boundary.
func (b *Buffer) CharIdxToPosition(idx rope.CharOffset) position.Position {
	if idx <= 0 {
		return position.Position{}
	}
	if idx > b.Len() {
		idx = b.Len()
	}
	line := b.content.CharToLine(idx)
	start := b.content.LineStart(line)
	col := charOffsetToColumn(b.lineContent(line), idx-start)
	return position.New(line, col)
}

// Insert places text at pos and returns the resulting edit operation.
// The returned operation's End is the position just past the inserted
// text in the post-edit buffer.
func (b *Buffer) Insert(pos position.Position, text string) (EditOperation, error) {
	if b.readOnly {
		return EditOperation{}, ErrReadOnly
	}
	idx, err := b.PositionToCharIdx(pos)
	if err != nil {
		return EditOperation{}, err
	}
	b.content = b.content.Insert(idx, text)
	b.bump()
	end := b.CharIdxToPosition(idx + utf8.RuneCountInString(text))
	return EditOperation{
		Kind:         OpInsert,
		Start:        pos,
		End:          end,
		InsertedText: text,
		CursorAfter:  end,
	}, nil
}

// Delete removes the text between start and end. A reversed range is
// an error, not normalized.
func (b *Buffer) Delete(start, end position.Position) (EditOperation, error) {
	if b.readOnly {
		return EditOperation{}, ErrReadOnly
	}
	if end.Before(start) {
		return EditOperation{}, &RangeError{Start: start, End: end}
	}
	si, err := b.PositionToCharIdx(start)
	if err != nil {
		return EditOperation{}, err
	}
	ei, err := b.PositionToCharIdx(end)
	if err != nil {
		return EditOperation{}, err
	}
	deleted := b.content.Slice(si, ei)
	b.content = b.content.Delete(si, ei)
	b.bump()
	return EditOperation{
		Kind:        OpDelete,
		Start:       start,
		End:         end,
		DeletedText: deleted,
		CursorAfter: start,
	}, nil
}

// Replace substitutes the text between start and end with text. A
// reversed range is an error, not normalized.
func (b *Buffer) Replace(start, end position.Position, text string) (EditOperation, error) {
	if b.readOnly {
		return EditOperation{}, ErrReadOnly
	}
	if end.Before(start) {
		return EditOperation{}, &RangeError{Start: start, End: end}
	}
	si, err := b.PositionToCharIdx(start)
	if err != nil {
		return EditOperation{}, err
	}
	ei, err := b.PositionToCharIdx(end)
	if err != nil {
		return EditOperation{}, err
	}
	deleted := b.content.Slice(si, ei)
	b.content = b.content.Replace(si, ei, text)
	b.bump()
	after := b.CharIdxToPosition(si + utf8.RuneCountInString(text))
	return EditOperation{
		Kind:         OpReplace,
		Start:        start,
		End:          end,
		InsertedText: text,
		DeletedText:  deleted,
		CursorAfter:  after,
	}, nil
}

// Backspace deletes the grapheme cluster before pos. At column 0 it
// joins the line with its predecessor, removing the full terminator
// sequence. At the start of the document it reports ok=false and does
// nothing.
func (b *Buffer) Backspace(pos position.Position) (op EditOperation, ok bool, err error) {
	if b.readOnly {
		return EditOperation{}, false, ErrReadOnly
	}
	if _, err := b.PositionToCharIdx(pos); err != nil {
		return EditOperation{}, false, err
	}
	if pos.Line == 0 && pos.Column == 0 {
		return EditOperation{}, false, nil
	}
	var start position.Position
	if pos.Column > 0 {
		start = position.New(pos.Line, pos.Column-1)
	} else {
		prev := pos.Line - 1
		start = position.New(prev, graphemeCount(b.lineContent(prev)))
	}
	op, err = b.Delete(start, pos)
	if err != nil {
		return EditOperation{}, false, err
	}
	return op, true, nil
}

// DeleteForward deletes the grapheme cluster at pos. At the end of a
// line it removes the terminator, joining the next line. At the end of
// the document it reports ok=false and does nothing.
func (b *Buffer) DeleteForward(pos position.Position) (op EditOperation, ok bool, err error) {
	if b.readOnly {
		return EditOperation{}, false, ErrReadOnly
	}
	if _, err := b.PositionToCharIdx(pos); err != nil {
		return EditOperation{}, false, err
	}
	clusters := graphemeCount(b.lineContent(pos.Line))
	var end position.Position
	switch {
	case pos.Column < clusters:
		end = position.New(pos.Line, pos.Column+1)
	case pos.Line < b.LineCount()-1:
		end = position.New(pos.Line+1, 0)
	default:
		return EditOperation{}, false, nil
	}
	op, err = b.Delete(pos, end)
	if err != nil {
		return EditOperation{}, false, err
	}
	return op, true, nil
}

// NextWordBoundary returns the start of the next word at or after pos,
// scanning forward across lines. With no further word it returns the
// document end.
func (b *Buffer) NextWordBoundary(pos position.Position) position.Position {
	for line := pos.Line; line < b.LineCount(); line++ {
		minCol := -1
		if line == pos.Line {
			minCol = pos.Column
		}
		for _, col := range wordStartColumns(b.lineContent(line)) {
			if col > minCol {
				return position.New(line, col)
			}
		}
	}
	return b.EndPosition()
}

// PrevWordBoundary returns the start of the nearest word before pos,
// scanning backward across lines. With no earlier word it returns the
// document start.
func (b *Buffer) PrevWordBoundary(pos position.Position) position.Position {
	for line := pos.Line; line >= 0; line-- {
		maxCol := -1
		cols := wordStartColumns(b.lineContent(line))
		for _, col := range cols {
			if line == pos.Line && col >= pos.Column {
				break
			}
			if col > maxCol {
				maxCol = col
			}
		}
		if maxCol >= 0 {
			return position.New(line, maxCol)
		}
	}
	return position.Position{}
}

// SetContent replaces the entire buffer content, re-detecting the line
// ending convention.
func (b *Buffer) SetContent(text string) {
	b.content = rope.FromString(text)
	b.lineEnding = DetectLineEnding(text)
	b.bump()
}

// Save writes the buffer to its backing file verbatim.
func (b *Buffer) Save() error {
	if b.filePath == "" {
		return ErrNoFilePath
	}
	if err := os.WriteFile(b.filePath, []byte(b.Text()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", b.filePath, err)
	}
	b.dirty = false
	return nil
}

// SaveAs writes the buffer to path and adopts it as the backing file.
func (b *Buffer) SaveAs(path string) error {
	b.filePath = path
	return b.Save()
}

func (b *Buffer) bump() {
	b.version++
	b.dirty = true
}
