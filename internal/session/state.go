package session

import (
	"context"
	"errors"

	"github.com/thenoetrevino/cardsort/internal/models"
)

// State is a drag session's position in its lifecycle.
// Idle -> Dragging -> {Cancelled, Dropped}; the manager is Idle again as soon
// as a session leaves Dragging.
type State int

const (
	Idle State = iota
	Dragging
	Cancelled
	Dropped
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Cancelled:
		return "cancelled"
	case Dropped:
		return "dropped"
	default:
		return "idle"
	}
}

// Outcome is how a drop resolved
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeSkipped means nothing changed, so nothing was sent
	OutcomeSkipped
	OutcomeConflict
	OutcomeNotFound
	OutcomeInvalid
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeConflict:
		return "conflict"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Failed reports whether the committed board had to be resynced
func (o Outcome) Failed() bool {
	return o != OutcomeOK && o != OutcomeSkipped
}

// Classify maps a persister error onto an Outcome. Errors the persister does
// not classify are treated as conflicts: the only safe recovery is a resync.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, models.ErrInvalidReorder):
		return OutcomeInvalid
	case errors.Is(err, models.ErrCardNotFound):
		return OutcomeNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return OutcomeTimeout
	default:
		return OutcomeConflict
	}
}
