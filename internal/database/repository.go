package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/cardsort/internal/board"
	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/projector"
)

const cardColumns = `id, owner_id, title, description, status, position, created_at, updated_at`

// Repository stores cards in one SQL engine. Every method is scoped to an
// owner: a card belonging to someone else is indistinguishable from a
// missing one.
type Repository struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLiteRepository wraps a database opened with InitDB
func NewSQLiteRepository(db *sql.DB) *Repository {
	return &Repository{db: db, dialect: sqliteDialect{}}
}

// NewPostgresRepository wraps a database opened with OpenPostgres
func NewPostgresRepository(db *sql.DB) *Repository {
	return &Repository{db: db, dialect: postgresDialect{}}
}

// Engine names the SQL engine behind the repository
func (r *Repository) Engine() string {
	return r.dialect.name()
}

// ListCards returns the owner's cards ordered by column rank, position and
// creation time
func (r *Repository) ListCards(ctx context.Context, ownerID string) ([]models.Card, error) {
	return r.listCards(ctx, r.db, ownerID)
}

// GetCard returns one card
func (r *Repository) GetCard(ctx context.Context, ownerID, id string) (models.Card, error) {
	return r.getCard(ctx, r.db, ownerID, id)
}

// CreateCard inserts card at the end of its column. ID, OwnerID, Title and
// Status must be set; Position and timestamps are assigned here.
func (r *Repository) CreateCard(ctx context.Context, card models.Card) (models.Card, error) {
	now := time.Now().UTC()
	card.CreatedAt, card.UpdatedAt = now, now

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, r.dialect.rebind(
			`SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE owner_id = ? AND status = ?`),
			card.OwnerID, string(card.Status),
		).Scan(&card.Position)
		if err != nil {
			return fmt.Errorf("failed to find column end: %w", err)
		}

		_, err = tx.ExecContext(ctx, r.dialect.rebind(
			`INSERT INTO cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			card.ID, card.OwnerID, card.Title, card.Description, string(card.Status),
			card.Position, card.CreatedAt, card.UpdatedAt,
		)
		return r.classify(err, "failed to insert card")
	})
	if err != nil {
		return models.Card{}, err
	}
	return card, nil
}

// UpdateCard applies patch. Moving to a new column without a position
// appends at its end; every touched column stays dense.
func (r *Repository) UpdateCard(ctx context.Context, ownerID, id string, patch models.CardPatch) (models.Card, error) {
	var updated models.Card

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		card, err := r.getCard(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}

		if patch.Title != nil || patch.Description != nil {
			if patch.Title != nil {
				card.Title = *patch.Title
			}
			if patch.Description != nil {
				card.Description = *patch.Description
			}
			_, err := tx.ExecContext(ctx, r.dialect.rebind(
				`UPDATE cards SET title = ?, description = ?, updated_at = ? WHERE id = ? AND owner_id = ?`),
				card.Title, card.Description, time.Now().UTC(), id, ownerID,
			)
			if err != nil {
				return fmt.Errorf("failed to update card: %w", err)
			}
		}

		if patch.Moves() {
			if err := r.moveCard(ctx, tx, card, patch); err != nil {
				return err
			}
		}

		updated, err = r.getCard(ctx, tx, ownerID, id)
		return err
	})
	if err != nil {
		return models.Card{}, err
	}
	return updated, nil
}

// DeleteCard removes a card and closes the gap it leaves in its column
func (r *Repository) DeleteCard(ctx context.Context, ownerID, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		card, err := r.getCard(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, r.dialect.rebind(
			`DELETE FROM cards WHERE id = ? AND owner_id = ?`), id, ownerID,
		); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}

		cards, err := r.listCards(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		b := board.New(cards)
		items := b.Triples(card.Status)
		if len(items) == 0 || b.Matches(items) {
			return nil
		}
		return r.applyPlacements(ctx, tx, ownerID, items)
	})
}

// ApplyReorder writes every (id, status, position) of the batch in one
// transaction. It fails with models.ErrCardNotFound when any id is missing
// or owned by someone else, and with models.ErrConflict when the final
// ordering duplicates a slot. Nothing is written on failure.
func (r *Repository) ApplyReorder(ctx context.Context, ownerID string, items []models.ReorderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidReorder, models.ErrEmptyReorder)
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return r.applyPlacements(ctx, tx, ownerID, items)
	})
}

func (r *Repository) applyPlacements(ctx context.Context, tx *sql.Tx, ownerID string, items []models.ReorderItem) error {
	matched, err := r.dialect.reorder(ctx, tx, ownerID, items)
	if err != nil {
		return r.classify(err, "failed to apply reorder")
	}
	if matched < int64(len(items)) {
		return fmt.Errorf("%w: %d of %d cards matched owner %s",
			models.ErrCardNotFound, matched, len(items), ownerID)
	}
	return nil
}

// moveCard places card per patch using the same projection the drag
// session uses, then persists both touched columns
func (r *Repository) moveCard(ctx context.Context, tx *sql.Tx, card models.Card, patch models.CardPatch) error {
	cards, err := r.listCards(ctx, tx, card.OwnerID)
	if err != nil {
		return err
	}
	b := board.New(cards)

	dest := card.Status
	if patch.Status != nil {
		dest = *patch.Status
	}

	target := projector.ColumnTarget(dest)
	if patch.Position != nil {
		var others []models.Card
		for _, member := range b.Column(dest) {
			if member.ID != card.ID {
				others = append(others, member)
			}
		}
		if p := *patch.Position; p < len(others) {
			target = projector.NeighborTarget(others[p].ID, projector.Before)
		}
	} else if dest == card.Status {
		// Neither column nor position changes
		return nil
	}

	next, err := projector.Project(b, projector.Move{CardID: card.ID, Target: target})
	if err != nil {
		return fmt.Errorf("failed to place card: %w", err)
	}

	items := next.Triples(card.Status, dest)
	if b.Matches(items) {
		return nil
	}
	return r.applyPlacements(ctx, tx, card.OwnerID, items)
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) listCards(ctx context.Context, q querier, ownerID string) ([]models.Card, error) {
	rows, err := q.QueryContext(ctx, r.dialect.rebind(
		`SELECT `+cardColumns+` FROM cards WHERE owner_id = ?
		 ORDER BY `+statusRank()+`, position, created_at, id`),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	return cards, nil
}

func (r *Repository) getCard(ctx context.Context, q querier, ownerID, id string) (models.Card, error) {
	row := q.QueryRowContext(ctx, r.dialect.rebind(
		`SELECT `+cardColumns+` FROM cards WHERE id = ? AND owner_id = ?`),
		id, ownerID,
	)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, fmt.Errorf("%w: %s", models.ErrCardNotFound, id)
	}
	return card, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (models.Card, error) {
	var card models.Card
	var status string
	err := s.Scan(&card.ID, &card.OwnerID, &card.Title, &card.Description,
		&status, &card.Position, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Card{}, err
		}
		return models.Card{}, fmt.Errorf("failed to scan card: %w", err)
	}
	card.Status = models.Status(status)
	return card, nil
}

// classify maps unique violations to models.ErrConflict
func (r *Repository) classify(err error, action string) error {
	if err == nil {
		return nil
	}
	if r.dialect.uniqueViolation(err) {
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
