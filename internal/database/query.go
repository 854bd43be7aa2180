package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"shop-api/internal/telemetry"
)

// Execute runs a statement that returns no rows.
func (db *DB) Execute(ctx context.Context, stmt string, args ...any) error {
	defer telemetry.ObserveQuery("execute", time.Now())

	if _, err := db.q.Exec(ctx, stmt, args...); err != nil {
		return &QueryError{Query: stmt, Err: err}
	}
	return nil
}

// QueryMany returns every row mapped through scan, in result order. The
// slice is empty, never nil, when nothing matched.
func QueryMany[T any](ctx context.Context, db *DB, scan pgx.RowToFunc[T], stmt string, args ...any) ([]T, error) {
	defer telemetry.ObserveQuery("query", time.Now())

	rows, err := db.q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, &QueryError{Query: stmt, Err: err}
	}

	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, &QueryError{Query: stmt, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// QueryOne requires exactly one row.
func QueryOne[T any](ctx context.Context, db *DB, scan pgx.RowToFunc[T], stmt string, args ...any) (T, error) {
	var zero T

	items, err := QueryMany(ctx, db, scan, stmt, args...)
	if err != nil {
		return zero, err
	}

	switch len(items) {
	case 0:
		return zero, ErrNoResult
	case 1:
		return items[0], nil
	default:
		return zero, &AmbiguousResultError{Count: len(items)}
	}
}
