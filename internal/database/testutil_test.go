package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/cardsort/internal/board"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := runMigrations(context.Background(), db, sqliteDialect{}); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestDBFile opens a file-backed database through InitDB
func setupTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "cards.db")

	db, err := InitDB(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db, path
}

func createRepo(t *testing.T) *Repository {
	t.Helper()
	return NewSQLiteRepository(setupTestDB(t))
}

// ============================================================================
// FIXTURES
// ============================================================================

// seed creates cards in order, so each lands at the end of its column
func seed(t *testing.T, repo *Repository, ownerID string, specs ...string) map[string]models.Card {
	t.Helper()
	ctx := context.Background()

	created := make(map[string]models.Card, len(specs))
	for _, spec := range specs {
		var id, status string
		if _, err := fmt.Sscanf(spec, "%s %s", &id, &status); err != nil {
			t.Fatalf("bad seed spec %q: %v", spec, err)
		}
		card, err := repo.CreateCard(ctx, models.Card{
			ID:      ownerID + "-" + id,
			OwnerID: ownerID,
			Title:   id,
			Status:  models.Status(status),
		})
		require.NoError(t, err)
		created[id] = card
	}
	return created
}

// layout renders one column as "title@position" strings
func layout(t *testing.T, repo *Repository, ownerID string, status models.Status) []string {
	t.Helper()
	cards, err := repo.ListCards(context.Background(), ownerID)
	require.NoError(t, err)

	var out []string
	for _, c := range cards {
		if c.Status == status {
			out = append(out, fmt.Sprintf("%s@%d", c.Title, c.Position))
		}
	}
	return out
}

// requireDense fails unless every column of the owner holds 0..n-1
func requireDense(t *testing.T, repo *Repository, ownerID string) {
	t.Helper()
	cards, err := repo.ListCards(context.Background(), ownerID)
	require.NoError(t, err)
	require.NoError(t, board.New(cards).Validate())
}
