package rope

// Chunk size constants control the granularity of text storage.
const (
	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = 192
)

// Chunk is a bounded immutable string stored in leaf nodes.
// Chunk boundaries always fall on character boundaries.
type Chunk struct {
	data    string
	summary TextSummary
}

// NewChunk creates a chunk from a string, computing its metrics eagerly.
func NewChunk(s string) Chunk {
	return Chunk{data: s, summary: ComputeSummary(s)}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Chars returns the character count of the chunk.
func (c Chunk) Chars() int {
	return c.summary.Chars
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Split splits a chunk at a character offset, returning two chunks.
func (c Chunk) Split(chars int) (Chunk, Chunk) {
	if chars <= 0 {
		return Chunk{}, c
	}
	if chars >= c.summary.Chars {
		return c, Chunk{}
	}
	b := charToByte(c.data, chars)
	return NewChunk(c.data[:b]), NewChunk(c.data[b:])
}

// splitIntoChunks divides s into chunks of at most TargetChunkSize bytes,
// never splitting inside a character.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}

	var chunks []Chunk
	for len(s) > 0 {
		if len(s) <= TargetChunkSize {
			chunks = append(chunks, NewChunk(s))
			break
		}

		// Back off to the nearest character boundary.
		cut := TargetChunkSize
		for cut > 0 && !isCharBoundary(s, cut) {
			cut--
		}
		if cut == 0 {
			cut = len(s)
		}
		chunks = append(chunks, NewChunk(s[:cut]))
		s = s[cut:]
	}
	return chunks
}

// isCharBoundary reports whether byte offset b is a UTF-8 sequence start.
func isCharBoundary(s string, b int) bool {
	if b <= 0 || b >= len(s) {
		return true
	}
	return s[b]&0xC0 != 0x80
}
