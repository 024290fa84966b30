package database

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/cardsort/internal/models"
)

func getTestDatabaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}

// TestPostgresReorder exercises the single-statement reorder against a
// real server. Each run uses a fresh owner so runs never interfere.
func TestPostgresReorder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, err := OpenPostgres(ctx, getTestDatabaseURL(t))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgresRepository(db)
	owner := "it-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM cards WHERE owner_id = $1`, owner)
	})

	c := seed(t, repo, owner, "X todo", "Y todo", "Z todo", "P done")

	// Rotation: every row passes through another row's slot mid-statement
	err = repo.ApplyReorder(ctx, owner, []models.ReorderItem{
		{ID: c["Y"].ID, Status: models.StatusTodo, Position: 0},
		{ID: c["Z"].ID, Status: models.StatusTodo, Position: 1},
		{ID: c["X"].ID, Status: models.StatusTodo, Position: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Y@0", "Z@1", "X@2"}, layout(t, repo, owner, models.StatusTodo))

	err = repo.ApplyReorder(ctx, owner, []models.ReorderItem{
		{ID: c["X"].ID, Status: models.StatusDone, Position: 0},
	})
	assert.ErrorIs(t, err, models.ErrConflict)

	err = repo.ApplyReorder(ctx, "someone-else", []models.ReorderItem{
		{ID: c["X"].ID, Status: models.StatusTodo, Position: 0},
	})
	assert.ErrorIs(t, err, models.ErrCardNotFound)

	require.NoError(t, repo.DeleteCard(ctx, owner, c["Y"].ID))
	assert.Equal(t, []string{"Z@0", "X@1"}, layout(t, repo, owner, models.StatusTodo))
}
