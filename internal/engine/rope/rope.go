package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope value. The zero value is an empty rope.
// Operations return new Rope values; the original is never modified,
// which makes concurrent reads of shared snapshots safe without locks.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeaf(nil)}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Rope{}, err
		}
	}
	return b.Build(), nil
}

// buildFromChunks builds a balanced rope bottom-up from chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var nodes []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leaf := append([]Chunk(nil), chunks[i:end]...)
		nodes = append(nodes, newLeaf(leaf))
	}

	for len(nodes) > 1 {
		var parents []*Node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := min(i+MaxChildren, len(nodes))
			parents = append(parents, newInternal(append([]*Node(nil), nodes[i:end]...)))
		}
		nodes = parents
	}
	return Rope{root: nodes[0]}
}

// Len returns the total character count.
func (r Rope) Len() CharOffset {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Chars
}

// ByteLen returns the total byte count.
func (r Rope) ByteLen() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Bytes
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text. Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.root.summary.Bytes)
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the character range [start, end).
func (r Rope) Slice(start, end CharOffset) string {
	if r.root == nil || start >= end {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	var sb strings.Builder
	r.root.textInRange(&sb, start, end)
	return sb.String()
}

// Insert inserts text at the given character offset.
func (r Rope) Insert(at CharOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}
	if at <= 0 {
		return FromString(text).Concat(r)
	}
	if at >= r.Len() {
		return r.Concat(FromString(text))
	}
	left, right := r.Split(at)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes the character range [start, end).
func (r Rope) Delete(start, end CharOffset) Rope {
	if r.root == nil || start >= end {
		return r
	}
	total := r.Len()
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	if start == 0 && end == total {
		return New()
	}
	if start == 0 {
		_, right := r.Split(end)
		return right
	}
	if end == total {
		left, _ := r.Split(start)
		return left
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace replaces the character range [start, end) with new text.
func (r Rope) Replace(start, end CharOffset, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split divides the rope at a character offset into two ropes.
func (r Rope) Split(at CharOffset) (Rope, Rope) {
	if r.root == nil || at <= 0 {
		return New(), r
	}
	if at >= r.Len() {
		return r, New()
	}
	left, right := r.root.split(at)
	return Rope{root: left}, Rope{root: right}
}

// Concat joins two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{}
	}
	return r.root.summary
}

// LineStart returns the character offset of the start of a line.
// Lines are 0-indexed; out-of-range lines clamp to the rope end.
func (r Rope) LineStart(line int) CharOffset {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	nl := r.root.nthNewlineChar(line)
	if nl < 0 {
		return r.Len()
	}
	return nl + 1
}

// LineEnd returns the character offset of the end of a line, not
// including the newline character.
func (r Rope) LineEnd(line int) CharOffset {
	if r.root == nil {
		return 0
	}
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	nl := r.root.nthNewlineChar(line + 1)
	if nl < 0 {
		return r.Len()
	}
	return nl
}

// LineText returns the text of a line, not including the newline.
func (r Rope) LineText(line int) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// CharToLine returns the 0-indexed line containing the character offset.
// The offset one past the end maps to the last line.
func (r Rope) CharToLine(at CharOffset) int {
	if r.root == nil || at <= 0 {
		return 0
	}
	if at > r.Len() {
		at = r.Len()
	}
	return r.root.newlinesBefore(at)
}

// Height returns the height of the rope tree, for balance diagnostics.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// Equals returns true if two ropes contain the same text.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() || r.ByteLen() != other.ByteLen() {
		return false
	}
	return r.String() == other.String()
}
