package reorder

import (
	"context"

	"github.com/thenoetrevino/cardsort/internal/models"
)

// OwnerPersister binds a Service to one owner so an in-process drag
// session can commit to it directly
type OwnerPersister struct {
	Service Service
	OwnerID string
}

// Commit applies the batch for the bound owner
func (p OwnerPersister) Commit(ctx context.Context, items []models.ReorderItem) error {
	return p.Service.Commit(ctx, p.OwnerID, items)
}

// List returns the bound owner's cards in board order
func (p OwnerPersister) List(ctx context.Context) ([]models.Card, error) {
	return p.Service.ListCards(ctx, p.OwnerID)
}
