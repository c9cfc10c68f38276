package rope

import "unicode/utf8"

// Builder incrementally assembles a rope from sequential writes.
// Writes may end mid-character; incomplete UTF-8 sequences are held back
// until the remaining bytes arrive.
type Builder struct {
	chunks  []Chunk
	pending []byte
}

// Write appends bytes to the builder.
func (b *Builder) Write(p []byte) {
	b.pending = append(b.pending, p...)
	b.flushComplete()
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	b.pending = append(b.pending, s...)
	b.flushComplete()
}

// flushComplete emits full chunks, keeping any trailing partial character.
func (b *Builder) flushComplete() {
	for len(b.pending) > TargetChunkSize {
		cut := TargetChunkSize
		for cut > 0 && !utf8.RuneStart(b.pending[cut]) {
			cut--
		}
		if cut == 0 {
			return // need more bytes to complete the character
		}
		b.chunks = append(b.chunks, NewChunk(string(b.pending[:cut])))
		b.pending = b.pending[cut:]
	}
}

// Build finishes the rope. Any held-back bytes are emitted as-is.
func (b *Builder) Build() Rope {
	if len(b.pending) > 0 {
		b.chunks = append(b.chunks, NewChunk(string(b.pending)))
		b.pending = nil
	}
	if len(b.chunks) == 0 {
		return New()
	}
	r := buildFromChunks(b.chunks)
	b.chunks = nil
	return r
}

// Reset discards all accumulated state.
func (b *Builder) Reset() {
	b.chunks = nil
	b.pending = nil
}
