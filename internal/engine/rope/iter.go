package rope

// ChunkIterator walks the rope's chunks in document order.
type ChunkIterator struct {
	stack []*Node
	leaf  *Node
	idx   int
	cur   Chunk
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{}
	if r.root != nil && !r.root.summary.IsZero() {
		it.stack = append(it.stack, r.root)
	}
	return it
}

// Next advances to the next chunk. Returns false when exhausted.
func (it *ChunkIterator) Next() bool {
	for {
		if it.leaf != nil && it.idx < len(it.leaf.chunks) {
			it.cur = it.leaf.chunks[it.idx]
			it.idx++
			if it.cur.IsEmpty() {
				continue
			}
			return true
		}
		it.leaf = nil
		if len(it.stack) == 0 {
			return false
		}
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if n.IsLeaf() {
			it.leaf = n
			it.idx = 0
			continue
		}
		// Push children in reverse so the leftmost is visited first.
		for i := len(n.children) - 1; i >= 0; i-- {
			it.stack = append(it.stack, n.children[i])
		}
	}
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.cur
}

// LineIterator walks the rope's lines in order.
type LineIterator struct {
	rope Rope
	line int
	cur  string
}

// Lines returns an iterator over all lines in the rope.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r}
}

// Next advances to the next line. Returns false when exhausted.
func (it *LineIterator) Next() bool {
	if it.line >= it.rope.LineCount() {
		return false
	}
	it.cur = it.rope.LineText(it.line)
	it.line++
	return true
}

// Text returns the current line's text, without its newline.
func (it *LineIterator) Text() string {
	return it.cur
}

// Line returns the 0-indexed number of the current line.
func (it *LineIterator) Line() int {
	return it.line - 1
}
