package rope

import "strings"

// Tree structure constants.
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node in the rope B+ tree. Leaf nodes (height == 0) hold text
// chunks; internal nodes hold child references. Nodes are immutable once
// linked into a rope and may be shared between rope versions.
type Node struct {
	height  uint8
	summary TextSummary

	children []*Node // height > 0
	chunks   []Chunk // height == 0
}

// newLeaf creates a leaf node from chunks.
func newLeaf(chunks []Chunk) *Node {
	n := &Node{height: 0, chunks: chunks}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

// newInternal creates an internal node from children of equal height.
func newInternal(children []*Node) *Node {
	if len(children) == 0 {
		return newLeaf(nil)
	}
	n := &Node{height: children[0].height + 1, children: children}
	for _, c := range children {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// appendTo writes the subtree's text to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.data)
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// textInRange writes the text in the character range [start, end) to sb.
func (n *Node) textInRange(sb *strings.Builder, start, end CharOffset) {
	if start >= end {
		return
	}
	if n.IsLeaf() {
		pos := 0
		for _, c := range n.chunks {
			clen := c.summary.Chars
			lo, hi := start-pos, end-pos
			pos += clen
			if hi <= 0 {
				return
			}
			if lo >= clen {
				continue
			}
			if lo < 0 {
				lo = 0
			}
			if hi > clen {
				hi = clen
			}
			sb.WriteString(c.data[charToByte(c.data, lo):charToByte(c.data, hi)])
		}
		return
	}
	pos := 0
	for _, child := range n.children {
		clen := child.summary.Chars
		lo, hi := start-pos, end-pos
		pos += clen
		if hi <= 0 {
			return
		}
		if lo >= clen {
			continue
		}
		if lo < 0 {
			lo = 0
		}
		if hi > clen {
			hi = clen
		}
		child.textInRange(sb, lo, hi)
	}
}

// split divides the subtree at a character offset. The offset must be
// strictly inside the subtree; rope.Split handles the boundary cases.
func (n *Node) split(at CharOffset) (*Node, *Node) {
	if n.IsLeaf() {
		var left, right []Chunk
		pos := 0
		for _, c := range n.chunks {
			clen := c.summary.Chars
			switch {
			case at >= pos+clen:
				left = append(left, c)
			case at <= pos:
				right = append(right, c)
			default:
				l, r := c.Split(at - pos)
				if !l.IsEmpty() {
					left = append(left, l)
				}
				if !r.IsEmpty() {
					right = append(right, r)
				}
			}
			pos += clen
		}
		return newLeaf(left), newLeaf(right)
	}

	pos := 0
	for i, child := range n.children {
		clen := child.summary.Chars
		if at < pos+clen || i == len(n.children)-1 {
			cl, cr := child.split(at - pos)
			left := concatAll(n.children[:i])
			left = concat(left, cl)
			right := concatAll(n.children[i+1:])
			right = concat(cr, right)
			return left, right
		}
		pos += clen
	}
	return n, newLeaf(nil)
}

// concatAll folds a slice of sibling nodes into one subtree.
func concatAll(nodes []*Node) *Node {
	if len(nodes) == 0 {
		return newLeaf(nil)
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInternal(append([]*Node(nil), nodes...))
}

// concat joins two subtrees of any heights into a balanced subtree.
func concat(a, b *Node) *Node {
	if a == nil || a.summary.IsZero() {
		if b == nil {
			return newLeaf(nil)
		}
		return b
	}
	if b == nil || b.summary.IsZero() {
		return a
	}

	switch {
	case a.height == b.height:
		parts := mergeSiblings(a, b)
		if len(parts) == 1 {
			return parts[0]
		}
		return newInternal(parts)

	case a.height > b.height:
		children := append([]*Node(nil), a.children...)
		merged := concat(children[len(children)-1], b)
		if merged.height == a.height {
			children = append(children[:len(children)-1], merged.children...)
		} else {
			children[len(children)-1] = merged
		}
		return rebuildInternal(children)

	default: // b.height > a.height
		children := append([]*Node(nil), b.children...)
		merged := concat(a, children[0])
		if merged.height == b.height {
			children = append(merged.children, children[1:]...)
		} else {
			children[0] = merged
		}
		return rebuildInternal(children)
	}
}

// rebuildInternal builds an internal node from same-height children,
// splitting once if the fan-out limit is exceeded.
func rebuildInternal(children []*Node) *Node {
	if len(children) <= MaxChildren {
		return newInternal(children)
	}
	mid := len(children) / 2
	return newInternal([]*Node{
		newInternal(append([]*Node(nil), children[:mid]...)),
		newInternal(append([]*Node(nil), children[mid:]...)),
	})
}

// mergeSiblings joins two same-height nodes into one or two nodes of that
// same height.
func mergeSiblings(a, b *Node) []*Node {
	if a.IsLeaf() {
		combined := make([]Chunk, 0, len(a.chunks)+len(b.chunks))
		combined = append(combined, a.chunks...)
		combined = append(combined, b.chunks...)
		if len(combined) <= MaxChunksPerLeaf {
			return []*Node{newLeaf(combined)}
		}
		mid := len(combined) / 2
		return []*Node{
			newLeaf(append([]Chunk(nil), combined[:mid]...)),
			newLeaf(append([]Chunk(nil), combined[mid:]...)),
		}
	}

	combined := make([]*Node, 0, len(a.children)+len(b.children))
	combined = append(combined, a.children...)
	combined = append(combined, b.children...)
	if len(combined) <= MaxChildren {
		return []*Node{newInternal(combined)}
	}
	mid := len(combined) / 2
	return []*Node{
		newInternal(append([]*Node(nil), combined[:mid]...)),
		newInternal(append([]*Node(nil), combined[mid:]...)),
	}
}

// nthNewlineChar returns the character offset of the nth newline
// (1-indexed) within the subtree, or -1 if the subtree has fewer newlines.
func (n *Node) nthNewlineChar(nth int) CharOffset {
	if nth <= 0 || nth > n.summary.Lines {
		return -1
	}
	if n.IsLeaf() {
		base := 0
		for _, c := range n.chunks {
			if c.summary.Lines >= nth {
				return base + findNthNewline(c.data, nth)
			}
			nth -= c.summary.Lines
			base += c.summary.Chars
		}
		return -1
	}
	base := 0
	for _, child := range n.children {
		if child.summary.Lines >= nth {
			return base + child.nthNewlineChar(nth)
		}
		nth -= child.summary.Lines
		base += child.summary.Chars
	}
	return -1
}

// newlinesBefore counts newlines in the first `at` characters of the subtree.
func (n *Node) newlinesBefore(at CharOffset) int {
	if at <= 0 {
		return 0
	}
	if at >= n.summary.Chars {
		return n.summary.Lines
	}
	count := 0
	if n.IsLeaf() {
		for _, c := range n.chunks {
			if at >= c.summary.Chars {
				count += c.summary.Lines
				at -= c.summary.Chars
				continue
			}
			count += countNewlinesBefore(c.data, at)
			break
		}
		return count
	}
	for _, child := range n.children {
		if at >= child.summary.Chars {
			count += child.summary.Lines
			at -= child.summary.Chars
			continue
		}
		count += child.newlinesBefore(at)
		break
	}
	return count
}
