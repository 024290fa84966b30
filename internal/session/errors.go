package session

import (
	"errors"

	"github.com/thenoetrevino/cardsort/internal/projector"
)

var (
	// ErrDragInProgress is returned by PickUp while another session is dragging
	ErrDragInProgress = errors.New("a drag is already in progress")

	// ErrSessionClosed is returned by calls on a cancelled or dropped session
	ErrSessionClosed = errors.New("drag session is closed")

	// ErrItemNotFound is returned by PickUp for a card missing from the board
	ErrItemNotFound = projector.ErrItemNotFound
)
