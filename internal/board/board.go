// Package board holds the in-memory ordered collection of one owner's cards.
//
// A Board is an immutable snapshot: every operation that changes ordering
// (see the projector package) builds a new Board, so a previous snapshot can
// keep being rendered or compared while a drag is in progress.
package board

import (
	"fmt"
	"sort"

	"github.com/thenoetrevino/cardsort/internal/models"
)

// Board is an immutable snapshot of cards keyed by id
type Board struct {
	cards map[string]models.Card
}

// New builds a Board from the given cards. Later duplicates of an id replace
// earlier ones.
func New(cards []models.Card) *Board {
	b := &Board{cards: make(map[string]models.Card, len(cards))}
	for _, card := range cards {
		b.cards[card.ID] = card
	}
	return b
}

// Empty returns a board with no cards
func Empty() *Board {
	return New(nil)
}

// Len returns the number of cards on the board
func (b *Board) Len() int {
	return len(b.cards)
}

// Get returns the card with the given id
func (b *Board) Get(id string) (models.Card, bool) {
	card, ok := b.cards[id]
	return card, ok
}

// Cards returns every card ordered by (column rank, position, creation time, id)
func (b *Board) Cards() []models.Card {
	cards := make([]models.Card, 0, len(b.cards))
	for _, card := range b.cards {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool {
		return less(cards[i], cards[j])
	})
	return cards
}

// Column returns the members of one column in rank order
func (b *Board) Column(status models.Status) []models.Card {
	var members []models.Card
	for _, card := range b.cards {
		if card.Status == status {
			members = append(members, card)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return less(members[i], members[j])
	})
	return members
}

// IndexOf returns the card's index within its column's ordered member list
func (b *Board) IndexOf(id string) int {
	card, ok := b.cards[id]
	if !ok {
		return -1
	}
	for i, member := range b.Column(card.Status) {
		if member.ID == id {
			return i
		}
	}
	return -1
}

// Triples emits (id, column, index) for every member of the given columns,
// in column order then rank order. Positions are the members' indexes, not
// their stored positions, so the result is always dense.
func (b *Board) Triples(statuses ...models.Status) []models.ReorderItem {
	var items []models.ReorderItem
	seen := make(map[models.Status]bool, len(statuses))
	for _, status := range statuses {
		if seen[status] {
			continue
		}
		seen[status] = true
		for i, card := range b.Column(status) {
			items = append(items, models.ReorderItem{ID: card.ID, Status: status, Position: i})
		}
	}
	return items
}

// Matches reports whether every item already holds exactly its (column,
// position) on this board
func (b *Board) Matches(items []models.ReorderItem) bool {
	for _, item := range items {
		card, ok := b.cards[item.ID]
		if !ok || card.Status != item.Status || card.Position != item.Position {
			return false
		}
	}
	return true
}

// With returns a copy of the board with the given cards replaced or added
func (b *Board) With(updated ...models.Card) *Board {
	next := &Board{cards: make(map[string]models.Card, len(b.cards)+len(updated))}
	for id, card := range b.cards {
		next.cards[id] = card
	}
	for _, card := range updated {
		next.cards[card.ID] = card
	}
	return next
}

// Validate checks that every column holds the dense positions 0..n-1
func (b *Board) Validate() error {
	for _, status := range b.statuses() {
		for i, card := range b.Column(status) {
			if card.Position != i {
				return fmt.Errorf("%w: column %s has %s at position %d, expected %d",
					ErrNotDense, status, card.ID, card.Position, i)
			}
		}
	}
	return nil
}

// statuses returns the distinct columns present on the board, including
// any outside the fixed enumeration
func (b *Board) statuses() []models.Status {
	seen := make(map[models.Status]bool)
	var statuses []models.Status
	for _, card := range b.cards {
		if !seen[card.Status] {
			seen[card.Status] = true
			statuses = append(statuses, card.Status)
		}
	}
	return statuses
}

// less orders cards by column rank, position, then creation time and id as a
// deterministic tie-break for transient duplicate positions
func less(a, b models.Card) bool {
	if a.Status != b.Status {
		ra, rb := a.Status.Rank(), b.Status.Rank()
		if ra != rb {
			return ra < rb
		}
		return a.Status < b.Status
	}
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
