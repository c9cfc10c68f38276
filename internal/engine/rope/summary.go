package rope

// CharOffset is an absolute character (codepoint) position in the rope.
type CharOffset = int

// TextSummary holds aggregated metrics for a span of text.
// Summaries form a monoid under Add; the zero value is the identity.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the character (codepoint) count.
	Chars int

	// Lines is the number of newline characters.
	Lines int
}

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
	}
}

// IsZero returns true if the summary describes empty text.
func (s TextSummary) IsZero() bool {
	return s.Chars == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: len(s)}
	for _, r := range s {
		sum.Chars++
		if r == '\n' {
			sum.Lines++
		}
	}
	return sum
}

// charToByte converts a character offset within s to a byte offset.
// Offsets past the end clamp to len(s).
func charToByte(s string, chars int) int {
	if chars <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == chars {
			return i
		}
		n++
	}
	return len(s)
}

// findNthNewline returns the character offset of the nth newline in s
// (1-indexed), or -1 if s contains fewer than n newlines.
func findNthNewline(s string, n int) int {
	if n <= 0 {
		return -1
	}
	count := 0
	char := 0
	for _, r := range s {
		if r == '\n' {
			count++
			if count == n {
				return char
			}
		}
		char++
	}
	return -1
}

// countNewlinesBefore counts newlines in the first chars characters of s.
func countNewlinesBefore(s string, chars int) int {
	count := 0
	n := 0
	for _, r := range s {
		if n >= chars {
			break
		}
		if r == '\n' {
			count++
		}
		n++
	}
	return count
}
