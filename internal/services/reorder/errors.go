package reorder

import "errors"

// Card-related validation errors. Reorder validation errors live in models
// because the HTTP client and the drag session classify them too.
var (
	ErrEmptyTitle     = errors.New("card title cannot be empty")
	ErrTitleTooLong   = errors.New("card title cannot exceed 255 characters")
	ErrInvalidCardID  = errors.New("invalid card ID")
	ErrInvalidOwnerID = errors.New("invalid owner ID")
)
