package bidi

import "fmt"

// Level is a UAX #9 embedding level. Even levels read left to right,
// odd levels right to left.
type Level uint8

// maxDepth is the UAX #9 limit on explicit embedding depth.
const maxDepth = 125

// IsRTL reports whether the level is right to left.
func (l Level) IsRTL() bool { return l&1 == 1 }

// Direction returns the level's display direction.
func (l Level) Direction() Direction {
	if l.IsRTL() {
		return DirectionRTL
	}
	return DirectionLTR
}

// nextEven returns the smallest even level above l.
func (l Level) nextEven() Level { return (l + 2) &^ 1 }

// nextOdd returns the smallest odd level above l.
func (l Level) nextOdd() Level { return (l + 1) | 1 }

// Direction is a display direction.
type Direction uint8

const (
	// DirectionNeutral lets the paragraph direction be detected from
	// its first strong character.
	DirectionNeutral Direction = iota
	DirectionLTR
	DirectionRTL
)

func (d Direction) String() string {
	switch d {
	case DirectionNeutral:
		return "neutral"
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}
