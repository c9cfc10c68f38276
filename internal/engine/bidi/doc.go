// Package bidi resolves bidirectional text per UAX #9 and answers
// cursor-movement queries over the resolved paragraph.
//
// A Paragraph is computed once from its text (plus an optional base
// direction override) and is immutable afterward; visual runs,
// logical/visual position mapping, and movement are read-only lookups
// against the memoized resolution. Positions are grapheme cluster
// columns, matching the editor's Position model, so multi-codepoint
// emoji and combining sequences move as single steps.
package bidi
