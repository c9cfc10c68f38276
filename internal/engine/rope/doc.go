// Package rope implements an immutable rope for efficient text storage.
//
// The rope is a B+ tree whose leaves hold small immutable text chunks and
// whose internal nodes carry aggregated summaries (bytes, characters,
// newlines) of their subtrees. All addressing is in characters (Unicode
// codepoints), matching the engine's position arithmetic; byte counts are
// carried only as metrics.
//
// Operations return new Rope values and never modify the receiver. Nodes
// are structurally shared between versions, which makes snapshots cheap:
// a buffer snapshot is just a rope value plus a version number, and is
// unaffected by later edits to the live buffer.
//
// Edit operations (Insert, Delete, Replace) are O(log n) amortized via
// Split and Concat. Line lookups descend the tree using the per-subtree
// newline counts.
package rope
