package database

import (
	"context"

	"github.com/thenoetrevino/cardsort/internal/models"
)

// DataStore is the storage contract the services depend on. Repository
// implements it for SQLite and Postgres; the cache package decorates it.
type DataStore interface {
	ListCards(ctx context.Context, ownerID string) ([]models.Card, error)
	GetCard(ctx context.Context, ownerID, id string) (models.Card, error)
	CreateCard(ctx context.Context, card models.Card) (models.Card, error)
	UpdateCard(ctx context.Context, ownerID, id string, patch models.CardPatch) (models.Card, error)
	DeleteCard(ctx context.Context, ownerID, id string) error
	ApplyReorder(ctx context.Context, ownerID string, items []models.ReorderItem) error
}

var _ DataStore = (*Repository)(nil)
