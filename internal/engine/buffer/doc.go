// Package buffer implements the text document model: rope-backed
// content, line/column position arithmetic over grapheme clusters,
// line ending detection, and edit operations describing mutations.
//
// Positions address grapheme clusters, not bytes or codepoints, so a
// column is always a user-perceived character boundary. Buffers are
// single-writer; callers serialize mutations.
package buffer
