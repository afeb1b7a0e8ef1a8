// Package tests holds end-to-end HTTP tests that run against a real Postgres.
// They are skipped when DATABASE_URL is unset.
package tests

import (
	"context"
	"database/sql"
	"fmt"
)

// TruncateTables empties every table for a clean test state. Messages go
// first because they reference accounts.
func TruncateTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, "TRUNCATE TABLE messages, doctors, accounts RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
