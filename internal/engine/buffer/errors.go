package buffer

import (
	"errors"
	"fmt"

	"github.com/scribe-edit/scribe/internal/engine/position"
)

// Errors returned by buffer operations.
var (
	// ErrReadOnly indicates a mutation was attempted on a read-only buffer.
	ErrReadOnly = errors.New("buffer is read-only")

	// ErrNoFilePath indicates Save was called on a buffer with no path.
	ErrNoFilePath = errors.New("buffer has no file path")

	// ErrInvalidPosition indicates a line or column outside the buffer.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = errors.New("invalid range")
)

// PositionError reports an out-of-range position.
// It matches ErrInvalidPosition with errors.Is.
type PositionError struct {
	Pos position.Position
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("invalid position %s", e.Pos)
}

func (e *PositionError) Unwrap() error {
	return ErrInvalidPosition
}

// RangeError reports a range whose start is after its end.
// It matches ErrInvalidRange with errors.Is.
type RangeError struct {
	Start position.Position
	End   position.Position
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start, e.End)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}
