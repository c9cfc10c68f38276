package buffer

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// graphemeCount returns the number of grapheme clusters in s.
func graphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// graphemePrefixChars returns the character (codepoint) count of the
// first n grapheme clusters of s, and the number of clusters actually
// consumed (less than n when s is shorter).
func graphemePrefixChars(s string, n int) (chars, clusters int) {
	state := -1
	for len(s) > 0 && clusters < n {
		cluster, rest, _, next := uniseg.StepString(s, state)
		chars += utf8.RuneCountInString(cluster)
		clusters++
		s = rest
		state = next
	}
	return chars, clusters
}

// charOffsetToColumn converts a character offset within a line to a
// grapheme column. Offsets falling inside a multi-codepoint cluster
// clamp to the cluster's end boundary.
func charOffsetToColumn(s string, offset int) int {
	counted := 0
	column := 0
	state := -1
	for len(s) > 0 {
		if counted >= offset {
			break
		}
		cluster, rest, _, next := uniseg.StepString(s, state)
		counted += utf8.RuneCountInString(cluster)
		column++
		s = rest
		state = next
	}
	return column
}

// wordStartColumns returns the grapheme columns at which non-whitespace
// word segments begin, per Unicode word segmentation.
func wordStartColumns(s string) []int {
	var cols []int
	col := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if !isWhitespaceOnly(word) {
			cols = append(cols, col)
		}
		col += graphemeCount(word)
	}
	return cols
}

func isWhitespaceOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
