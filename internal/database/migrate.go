package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schema string

// migrationLockID serializes concurrent startups against the same database.
const migrationLockID int64 = 7340021

// Migrate applies the bundled schema. Every statement is IF NOT EXISTS, so
// running it against an initialized database is a no-op.
func (db *DB) Migrate(ctx context.Context) error {
	if db.pool == nil {
		return fmt.Errorf("migrate: no connection pool")
	}

	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockID); err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		if _, err := tx.Exec(ctx, schema); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Schema up to date")
	return nil
}
