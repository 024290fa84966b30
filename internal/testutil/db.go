package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/thenoetrevino/cardsort/internal/database"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// SetupTestDB opens a migrated SQLite database in a temp dir.
// The database is closed by t.Cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.InitDB(context.Background(), filepath.Join(t.TempDir(), "cards.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// SetupTestRepo returns a SQLite-backed repository on a fresh database
func SetupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	return database.NewSQLiteRepository(SetupTestDB(t))
}

// CreateTestCard appends a card with a predictable ID (<owner>-<title>)
func CreateTestCard(t *testing.T, store database.DataStore, ownerID, title string, status models.Status) models.Card {
	t.Helper()

	card, err := store.CreateCard(context.Background(), models.Card{
		ID:      ownerID + "-" + title,
		OwnerID: ownerID,
		Title:   title,
		Status:  status,
	})
	if err != nil {
		t.Fatalf("Failed to create test card %q: %v", title, err)
	}
	return card
}

// Layout returns the card IDs of one column in position order
func Layout(t *testing.T, store database.DataStore, ownerID string, status models.Status) []string {
	t.Helper()

	cards, err := store.ListCards(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("Failed to list cards: %v", err)
	}

	ids := []string{}
	for _, c := range cards {
		if c.Status == status {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
