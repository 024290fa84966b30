package board

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/cardsort/internal/models"
)

func card(id string, status models.Status, position int) models.Card {
	return models.Card{ID: id, OwnerID: "alice", Title: id, Status: status, Position: position}
}

func ids(cards []models.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestColumnOrdersByPosition(t *testing.T) {
	b := New([]models.Card{
		card("z", models.StatusTodo, 2),
		card("x", models.StatusTodo, 0),
		card("p", models.StatusDone, 0),
		card("y", models.StatusTodo, 1),
	})

	assert.Equal(t, []string{"x", "y", "z"}, ids(b.Column(models.StatusTodo)))
	assert.Equal(t, []string{"p"}, ids(b.Column(models.StatusDone)))
	assert.Empty(t, b.Column(models.StatusBacklog))
	assert.Equal(t, 3, b.Len())
}

func TestCardsOrderedByColumnRankThenPosition(t *testing.T) {
	b := New([]models.Card{
		card("d0", models.StatusDone, 0),
		card("b1", models.StatusBacklog, 1),
		card("i0", models.StatusInProgress, 0),
		card("b0", models.StatusBacklog, 0),
	})

	assert.Equal(t, []string{"b0", "b1", "i0", "d0"}, ids(b.Cards()))
}

func TestDuplicatePositionsFallBackToCreationTime(t *testing.T) {
	now := time.Now()
	older := card("older", models.StatusTodo, 0)
	older.CreatedAt = now.Add(-time.Minute)
	newer := card("newer", models.StatusTodo, 0)
	newer.CreatedAt = now

	b := New([]models.Card{newer, older})

	assert.Equal(t, []string{"older", "newer"}, ids(b.Column(models.StatusTodo)))
	assert.True(t, errors.Is(b.Validate(), ErrNotDense))
}

func TestTriplesAreDenseIndexes(t *testing.T) {
	// Stored positions with a gap still produce dense triples
	b := New([]models.Card{
		card("a", models.StatusTodo, 0),
		card("b", models.StatusTodo, 5),
		card("c", models.StatusDone, 0),
	})

	items := b.Triples(models.StatusTodo, models.StatusDone, models.StatusTodo)
	assert.Equal(t, []models.ReorderItem{
		{ID: "a", Status: models.StatusTodo, Position: 0},
		{ID: "b", Status: models.StatusTodo, Position: 1},
		{ID: "c", Status: models.StatusDone, Position: 0},
	}, items)
}

func TestMatches(t *testing.T) {
	b := New([]models.Card{
		card("a", models.StatusTodo, 0),
		card("b", models.StatusTodo, 1),
	})

	assert.True(t, b.Matches(b.Triples(models.StatusTodo)))
	assert.False(t, b.Matches([]models.ReorderItem{{ID: "a", Status: models.StatusTodo, Position: 1}}))
	assert.False(t, b.Matches([]models.ReorderItem{{ID: "ghost", Status: models.StatusTodo, Position: 0}}))
}

func TestWithLeavesOriginalUntouched(t *testing.T) {
	b := New([]models.Card{card("a", models.StatusTodo, 0)})
	moved := card("a", models.StatusDone, 0)

	next := b.With(moved)

	original, _ := b.Get("a")
	updated, _ := next.Get("a")
	assert.Equal(t, models.StatusTodo, original.Status)
	assert.Equal(t, models.StatusDone, updated.Status)
}

func TestValidate(t *testing.T) {
	dense := New([]models.Card{
		card("a", models.StatusTodo, 0),
		card("b", models.StatusTodo, 1),
		card("c", models.StatusDone, 0),
	})
	require.NoError(t, dense.Validate())

	gap := New([]models.Card{
		card("a", models.StatusTodo, 0),
		card("b", models.StatusTodo, 2),
	})
	assert.ErrorIs(t, gap.Validate(), ErrNotDense)

	offset := New([]models.Card{card("a", models.StatusDone, 1)})
	assert.ErrorIs(t, offset.Validate(), ErrNotDense)
}

func TestIndexOf(t *testing.T) {
	b := New([]models.Card{
		card("a", models.StatusTodo, 0),
		card("b", models.StatusTodo, 1),
	})
	assert.Equal(t, 1, b.IndexOf("b"))
	assert.Equal(t, -1, b.IndexOf("missing"))
}
