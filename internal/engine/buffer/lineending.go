package buffer

import (
	"runtime"
	"strings"
)

// LineEnding specifies the line ending style of a buffer.
// The style is detected from content on load and preserved as metadata;
// buffer content itself is never normalized.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Classic Mac: \r
)

// String returns a readable representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "CRLF"
	case LineEndingCR:
		return "CR"
	default:
		return "LF"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// DetectLineEnding determines the line ending style of text by first
// match, checking CRLF before LF before CR. Content with no line breaks
// gets the platform convention.
func DetectLineEnding(text string) LineEnding {
	switch {
	case strings.Contains(text, "\r\n"):
		return LineEndingCRLF
	case strings.Contains(text, "\n"):
		return LineEndingLF
	case strings.Contains(text, "\r"):
		return LineEndingCR
	default:
		return platformLineEnding()
	}
}

func platformLineEnding() LineEnding {
	if runtime.GOOS == "windows" {
		return LineEndingCRLF
	}
	return LineEndingLF
}
