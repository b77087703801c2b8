package join

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by join wraps one of these, so
// callers can branch with errors.Is.
var (
	// ErrInvalidArgument reports a caller-supplied value join cannot accept:
	// a non-positive duration, a nil callback, views from different engines.
	ErrInvalidArgument = errors.New("join: invalid argument")

	// ErrInvalidState reports an operation on a selection or transition that
	// is not attached to a usable engine.
	ErrInvalidState = errors.New("join: invalid state")

	// ErrInternal reports a broken engine invariant. It is not retryable.
	ErrInternal = errors.New("join: internal invariant violated")
)

// Refinements of the categories above.
var (
	ErrDuplicateKey    = fmt.Errorf("%w: duplicate key in batch", ErrInvalidArgument)
	ErrNotInterpolable = fmt.Errorf("%w: value type cannot be interpolated", ErrInvalidArgument)
	ErrStaleSelection  = fmt.Errorf("%w: selection predates Compact", ErrInvalidState)
)
