// Package selection models cursors and selections. A selection is an
// anchor/head pair where the head is the moving end; a cursor adds
// sticky-column state for vertical movement and a direction affinity
// used at bidirectional text boundaries. SelectionSet supports
// multiple cursors with overlap merging.
package selection
