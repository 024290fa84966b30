package projector

import "github.com/thenoetrevino/cardsort/internal/models"

// TargetKind tags which variant of Target is populated
type TargetKind int

const (
	// TargetColumn drops onto a column itself (appends at the end)
	TargetColumn TargetKind = iota + 1
	// TargetNeighbor drops next to another card
	TargetNeighbor
)

// Side selects which side of the neighbor the dragged card lands on
type Side int

const (
	Before Side = iota
	After
)

func (s Side) String() string {
	if s == After {
		return "after"
	}
	return "before"
}

// Target is where a dragged card should land: either a column (Status set)
// or a neighbor card (NeighborID and Side set).
type Target struct {
	Kind       TargetKind
	Status     models.Status
	NeighborID string
	Side       Side
}

// ColumnTarget targets the end of a column
func ColumnTarget(status models.Status) Target {
	return Target{Kind: TargetColumn, Status: status}
}

// NeighborTarget targets the slot before or after another card
func NeighborTarget(neighborID string, side Side) Target {
	return Target{Kind: TargetNeighbor, NeighborID: neighborID, Side: side}
}

// IsZero reports whether no target has been set
func (t Target) IsZero() bool {
	return t.Kind == 0
}

// Move describes one projection request: which card, and where it goes
type Move struct {
	CardID string
	Target Target
}
