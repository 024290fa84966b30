// Package projector computes the board that results from moving one card.
//
// Project is a pure function: it never mutates its input, never consults the
// clock, and returns the input pointer itself when the move changes nothing,
// so callers can compare pointers to skip re-rendering.
package projector

import (
	"fmt"

	"github.com/thenoetrevino/cardsort/internal/board"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// Project applies move to b and returns the resulting board.
// The destination column and, for cross-column moves, the source column are
// both renumbered to dense positions 0..n-1.
func Project(b *board.Board, move Move) (*board.Board, error) {
	moved, ok := b.Get(move.CardID)
	if !ok {
		return nil, fmt.Errorf("%w: card %s", ErrItemNotFound, move.CardID)
	}

	var dest models.Status
	switch move.Target.Kind {
	case TargetColumn:
		if !move.Target.Status.Valid() {
			return nil, fmt.Errorf("%w: column %q", ErrInvalidTarget, move.Target.Status)
		}
		dest = move.Target.Status

	case TargetNeighbor:
		// Dropping a card onto itself is always its current slot
		if move.Target.NeighborID == move.CardID {
			return b, nil
		}
		neighbor, ok := b.Get(move.Target.NeighborID)
		if !ok {
			return nil, fmt.Errorf("%w: neighbor %s", ErrItemNotFound, move.Target.NeighborID)
		}
		dest = neighbor.Status

	default:
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidTarget, move.Target.Kind)
	}

	members := without(b.Column(dest), moved.ID)
	index := insertionIndex(members, move.Target)

	moved.Status = dest
	reordered := make([]models.Card, 0, len(members)+1)
	reordered = append(reordered, members[:index]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, members[index:]...)

	changed := renumber(b, reordered, dest)

	if source, _ := b.Get(move.CardID); source.Status != dest {
		remaining := without(b.Column(source.Status), moved.ID)
		changed = append(changed, renumber(b, remaining, source.Status)...)
	}

	if len(changed) == 0 {
		return b, nil
	}
	return b.With(changed...), nil
}

// insertionIndex appends when there is no usable neighbor, otherwise lands
// on the neighbor's index (Before) or just past it (After), clamped to the
// member list.
func insertionIndex(members []models.Card, target Target) int {
	index := len(members)
	if target.Kind == TargetNeighbor {
		for i, card := range members {
			if card.ID == target.NeighborID {
				index = i
				if target.Side == After {
					index++
				}
				break
			}
		}
	}
	return max(0, min(index, len(members)))
}

// renumber assigns positions 0..n-1 in order and returns only the cards
// whose (column, position) actually differ from b
func renumber(b *board.Board, ordered []models.Card, status models.Status) []models.Card {
	var changed []models.Card
	for i, card := range ordered {
		card.Status = status
		card.Position = i
		if current, ok := b.Get(card.ID); ok && current.Status == status && current.Position == i {
			continue
		}
		changed = append(changed, card)
	}
	return changed
}

func without(cards []models.Card, id string) []models.Card {
	out := make([]models.Card, 0, len(cards))
	for _, card := range cards {
		if card.ID != id {
			out = append(out, card)
		}
	}
	return out
}
