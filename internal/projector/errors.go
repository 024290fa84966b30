package projector

import "errors"

var (
	// ErrItemNotFound indicates the dragged card or the named neighbor is not on the board
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidTarget indicates a target with an unknown kind or column
	ErrInvalidTarget = errors.New("invalid move target")
)
