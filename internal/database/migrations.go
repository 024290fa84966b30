package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thenoetrevino/cardsort/internal/models"
)

// runMigrations creates the schema for the given engine
func runMigrations(ctx context.Context, db *sql.DB, d dialect) error {
	for _, stmt := range d.schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// statusList renders the fixed column enumeration as a SQL IN list
func statusList() string {
	quoted := make([]string, len(models.Statuses))
	for i, status := range models.Statuses {
		quoted[i] = "'" + string(status) + "'"
	}
	return strings.Join(quoted, ", ")
}

// statusRank renders an ORDER BY expression for board column order
func statusRank() string {
	var b strings.Builder
	b.WriteString("CASE status")
	for _, status := range models.Statuses {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", status, status.Rank())
	}
	b.WriteString(" ELSE 99 END")
	return b.String()
}
