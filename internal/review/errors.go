package review

import "errors"

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the session's current state.
	ErrInvalidTransition = errors.New("review: invalid session transition")
	// ErrNoCurrentCard is what callers with a strict contract report when Answer was a no-op.
	ErrNoCurrentCard = errors.New("review: no current card")
)
