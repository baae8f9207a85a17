package core

import "errors"

// Error kinds surfaced by the editing kernel. Callers match them with
// errors.Is; concrete causes are wrapped around them.
var (
	// ErrInvalidOperation reports a user action that cannot run in the
	// current state, such as filling with no palette block selected.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrOutOfBounds reports a grid index outside the map. It is returned
	// before any cell is mutated.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrHistoryApply reports that an operation failed to apply or revert.
	ErrHistoryApply = errors.New("history apply failure")
)
