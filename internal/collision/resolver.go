// Package collision turns per-tick drag geometry into a single move target.
//
// Resolution is two-tiered: droppables under the pointer win over droppables
// that merely intersect the dragged card's rect. A hit on a non-empty column
// is refined to the nearest card in that column, and a tick with no hit keeps
// the previous target so the preview does not flicker.
package collision

import (
	"sort"

	"github.com/thenoetrevino/cardsort/internal/board"
	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/projector"
)

// DroppableKind distinguishes column drop zones from card drop zones
type DroppableKind int

const (
	DroppableColumn DroppableKind = iota + 1
	DroppableCard
)

// Droppable is one registered drop zone and its current on-screen rect.
// For columns, ID is the column's status key.
type Droppable struct {
	ID   string
	Kind DroppableKind
	Rect Rect
}

// Frame is the geometry observed on one pointer tick
type Frame struct {
	Pointer    Point
	Active     Rect // dragged card's translated rect
	Droppables []Droppable
}

type hit struct {
	droppable Droppable
	score     float64
}

// Resolve picks the move target for this frame.
// b is the board currently being rendered (preview, or committed when there is
// no preview) and is only used to look up column membership. The boolean is
// false only when nothing was hit and sticky is unset.
func Resolve(frame Frame, b *board.Board, sticky projector.Target) (projector.Target, bool) {
	hits := pointerHits(frame)
	if len(hits) == 0 {
		hits = rectHits(frame)
	}

	if len(hits) == 0 {
		if sticky.IsZero() {
			return projector.Target{}, false
		}
		return refreshSide(frame, sticky), true
	}

	over := hits[0].droppable
	if over.Kind == DroppableColumn {
		if nearest, ok := closestMember(frame, b, models.Status(over.ID)); ok {
			over = nearest
		}
	}

	return targetFor(frame, over), true
}

// pointerHits returns droppables containing the pointer, nearest center first
func pointerHits(frame Frame) []hit {
	var hits []hit
	for _, d := range frame.Droppables {
		if d.Rect.Contains(frame.Pointer) {
			hits = append(hits, hit{droppable: d, score: Distance(frame.Pointer, d.Rect.Center())})
		}
	}
	sortHits(hits, func(a, b float64) bool { return a < b })
	return hits
}

// rectHits returns droppables intersecting the active rect, largest overlap first
func rectHits(frame Frame) []hit {
	var hits []hit
	for _, d := range frame.Droppables {
		if ratio := frame.Active.IntersectionRatio(d.Rect); ratio > 0 {
			hits = append(hits, hit{droppable: d, score: ratio})
		}
	}
	sortHits(hits, func(a, b float64) bool { return a > b })
	return hits
}

func sortHits(hits []hit, better func(a, b float64) bool) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return better(hits[i].score, hits[j].score)
		}
		// Cards nest inside columns; prefer the more specific drop zone on ties
		if hits[i].droppable.Kind != hits[j].droppable.Kind {
			return hits[i].droppable.Kind == DroppableCard
		}
		return hits[i].droppable.ID < hits[j].droppable.ID
	})
}

// closestMember restricts a proximity pass to the column's members so hovering
// over empty space mid-column still targets the nearest card
func closestMember(frame Frame, b *board.Board, status models.Status) (Droppable, bool) {
	members := b.Column(status)
	if len(members) == 0 {
		return Droppable{}, false
	}

	inColumn := make(map[string]bool, len(members))
	for _, card := range members {
		inColumn[card.ID] = true
	}

	center := frame.Active.Center()
	var best Droppable
	bestDistance := -1.0
	for _, d := range frame.Droppables {
		if d.Kind != DroppableCard || !inColumn[d.ID] {
			continue
		}
		distance := Distance(center, d.Rect.Center())
		if bestDistance < 0 || distance < bestDistance || (distance == bestDistance && d.ID < best.ID) {
			best, bestDistance = d, distance
		}
	}
	return best, bestDistance >= 0
}

func targetFor(frame Frame, over Droppable) projector.Target {
	if over.Kind == DroppableColumn {
		return projector.ColumnTarget(models.Status(over.ID))
	}
	return projector.NeighborTarget(over.ID, sideOf(frame.Active, over.Rect))
}

// sideOf places the dragged card after the neighbor once its top edge has
// passed the neighbor's vertical centre
func sideOf(active, over Rect) projector.Side {
	if active.Y > over.Y+over.Height/2 {
		return projector.After
	}
	return projector.Before
}

// refreshSide recomputes the side of a sticky neighbor target when its
// droppable is still registered in this frame
func refreshSide(frame Frame, sticky projector.Target) projector.Target {
	if sticky.Kind != projector.TargetNeighbor {
		return sticky
	}
	for _, d := range frame.Droppables {
		if d.Kind == DroppableCard && d.ID == sticky.NeighborID {
			sticky.Side = sideOf(frame.Active, d.Rect)
			break
		}
	}
	return sticky
}
