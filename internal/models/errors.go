package models

import "errors"

// Domain errors shared by storage, services, transport and the drag session.
// Every layer wraps these so callers classify failures with errors.Is.
var (
	// ErrInvalidStatus indicates a column outside the fixed enumeration
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPosition indicates a negative position
	ErrInvalidPosition = errors.New("invalid position: must be >= 0")

	// ErrInvalidReorder marks a malformed reorder batch; nothing was written
	ErrInvalidReorder = errors.New("invalid reorder")

	// ErrEmptyReorder indicates a reorder batch with no items
	ErrEmptyReorder = errors.New("reorder batch is empty")

	// ErrDuplicateItem indicates the same card id twice in one batch
	ErrDuplicateItem = errors.New("duplicate card id in batch")

	// ErrCardNotFound indicates a missing card, or one owned by someone else
	ErrCardNotFound = errors.New("card not found")

	// ErrConflict indicates the final ordering collided with another writer
	ErrConflict = errors.New("position conflict")
)
