package buffer

import "github.com/scribe-edit/scribe/internal/engine/rope"

// Snapshot captures the buffer content at a point in time. The rope is
// immutable, so a snapshot stays valid while the buffer keeps editing.
type Snapshot struct {
	Content    rope.Rope
	Version    uint64
	LineEnding LineEnding
}

// Snapshot returns a point-in-time view of the buffer.
func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{
		Content:    b.content,
		Version:    b.version,
		LineEnding: b.lineEnding,
	}
}
