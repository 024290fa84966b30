package card

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/cardsort/internal/board"
	"github.com/thenoetrevino/cardsort/internal/models"
)

func TestRedrawOnChange(t *testing.T) {
	var current atomic.Pointer[board.Board]
	current.Store(board.New(nil))

	drawn := make(chan *board.Board, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- redrawOnChange(ctx, current.Load, func(b *board.Board) { drawn <- b })
	}()

	first := <-drawn
	assert.Equal(t, 0, first.Len())

	next := board.New([]models.Card{{ID: "a", OwnerID: "o", Title: "A", Status: models.StatusTodo}})
	current.Store(next)

	select {
	case b := <-drawn:
		assert.Same(t, next, b)
	case <-time.After(2 * time.Second):
		t.Fatal("board change was not redrawn")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, drawn, "unchanged board must not be redrawn")
}
