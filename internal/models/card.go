package models

import "time"

// Card represents a single item on the kanban board.
// Position is the card's dense 0-based rank within its (OwnerID, Status) column.
type Card struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReorderItem is the persistence unit of a batch reorder: the card's
// destination column and position.
type ReorderItem struct {
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Position int    `json:"position"`
}

// Placement returns the card's current (column, position) as a ReorderItem
func (c Card) Placement() ReorderItem {
	return ReorderItem{ID: c.ID, Status: c.Status, Position: c.Position}
}

// CardPatch is a partial update. Nil fields are left unchanged. A status
// change without a position appends the card at the end of the new column.
type CardPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
	Position    *int    `json:"position,omitempty"`
}

// Moves reports whether the patch changes the card's placement
func (p CardPatch) Moves() bool {
	return p.Status != nil || p.Position != nil
}
