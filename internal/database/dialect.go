package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/thenoetrevino/cardsort/internal/models"
)

// dialect isolates the SQL that differs between engines
type dialect interface {
	name() string
	schema() []string
	// rebind rewrites ? placeholders into the engine's style
	rebind(query string) string
	// reorder applies every placement in one set-based operation and returns
	// the number of cards matched for owner
	reorder(ctx context.Context, tx *sql.Tx, ownerID string, items []models.ReorderItem) (int64, error)
	uniqueViolation(err error) bool
}

// ============================================================================
// SQLite
// ============================================================================

type sqliteDialect struct{}

func (sqliteDialect) name() string { return "sqlite" }

func (sqliteDialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK (status IN (` + statusList() + `)),
			position INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE (owner_id, status, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_owner ON cards(owner_id, status, position)`,
	}
}

func (sqliteDialect) rebind(query string) string { return query }

// reorder runs two set-based statements. SQLite checks UNIQUE row by row, so
// the batch first parks every card at a negative slot (-1 - position), which
// cannot collide with live rows, then flips the parked rows in place.
func (sqliteDialect) reorder(ctx context.Context, tx *sql.Tx, ownerID string, items []models.ReorderItem) (int64, error) {
	values, args := valuesList(items, func(int) string { return "(?, ?, ?)" })
	args = append(args, ownerID)

	result, err := tx.ExecContext(ctx, `
		WITH input(id, status, position) AS (VALUES `+values+`)
		UPDATE cards
		SET status = input.status,
		    position = -1 - input.position,
		    updated_at = CURRENT_TIMESTAMP
		FROM input
		WHERE cards.id = input.id AND cards.owner_id = ?`,
		args...,
	)
	if err != nil {
		return 0, err
	}
	matched, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if matched < int64(len(items)) {
		return matched, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE cards SET position = -1 - position WHERE owner_id = ? AND position < 0`,
		ownerID,
	); err != nil {
		return 0, err
	}
	return matched, nil
}

func (sqliteDialect) uniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Extended result codes disabled
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

// ============================================================================
// Postgres
// ============================================================================

type postgresDialect struct{}

func (postgresDialect) name() string { return "postgres" }

func (postgresDialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK (status IN (` + statusList() + `)),
			position INTEGER NOT NULL CHECK (position >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT cards_owner_status_position_key
				UNIQUE (owner_id, status, position) DEFERRABLE INITIALLY IMMEDIATE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_owner ON cards(owner_id, status, position)`,
	}
}

func (postgresDialect) rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// reorder is a single UPDATE ... FROM (VALUES ...). The unique constraint is
// deferrable, so Postgres checks it once at the end of the statement and
// transient duplicates mid-statement are not violations.
func (postgresDialect) reorder(ctx context.Context, tx *sql.Tx, ownerID string, items []models.ReorderItem) (int64, error) {
	values, args := valuesList(items, func(i int) string {
		base := 2 + i*3
		return fmt.Sprintf("($%d::text, $%d::text, $%d::int)", base, base+1, base+2)
	})
	args = append([]any{ownerID}, args...)

	result, err := tx.ExecContext(ctx, `
		UPDATE cards AS c
		SET status = v.status,
		    position = v.position,
		    updated_at = now()
		FROM (VALUES `+values+`) AS v(id, status, position)
		WHERE c.id = v.id AND c.owner_id = $1`,
		args...,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (postgresDialect) uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// valuesList renders one tuple per item and the flattened arguments
func valuesList(items []models.ReorderItem, tuple func(i int) string) (string, []any) {
	tuples := make([]string, len(items))
	args := make([]any, 0, len(items)*3)
	for i, item := range items {
		tuples[i] = tuple(i)
		args = append(args, item.ID, string(item.Status), item.Position)
	}
	return strings.Join(tuples, ", "), args
}
