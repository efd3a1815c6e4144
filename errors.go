package dnload

import "errors"

var (
	// ErrUnresolved occurs when a checked resolution faults before
	// finding a match.
	ErrUnresolved = errors.New("unresolved symbol hash")
)
