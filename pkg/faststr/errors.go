package faststr

import "errors"

var (
	// Caller input errors

	ErrOversizeInput    = errors.New("input exceeds maximum string length")
	ErrOutOfBounds      = errors.New("index out of bounds")
	ErrCapacityOverflow = errors.New("requested capacity exceeds maximum extra capacity")

	// Resource errors

	ErrAllocationFailure = errors.New("suffix allocation failed")
)
