package bidi

import "errors"

var (
	// ErrIndexOutOfRange is returned by position mapping queries for
	// indexes outside [0, paragraph length].
	ErrIndexOutOfRange = errors.New("bidi: index out of range")

	// ErrLineContext is returned when vertical movement is requested
	// against a single paragraph instead of the multi-line API.
	ErrLineContext = errors.New("bidi: vertical movement requires line context")

	// ErrInvalidDirection is returned when a movement direction is not
	// valid for the API it was passed to.
	ErrInvalidDirection = errors.New("bidi: invalid movement direction")
)
