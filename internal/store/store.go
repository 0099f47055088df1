// Package store holds the data access functions. Each function issues a
// single query against one table and returns rows, a single row, or nil when
// nothing matched.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/propkeeper/internal/metrics"
)

// psql builds statements with SQLite's "?" placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type rowScanner interface {
	Scan(dest ...any) error
}

// queryRows runs a select and scans every row with scan.
func queryRows[T any](ctx context.Context, db *sql.DB, op, table string, b sq.Sqlizer, scan func(rowScanner) (T, error)) (_ []T, err error) {
	defer observe(op, table, time.Now(), &err)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		out = append(out, v)
	}
	return out, translate(rows.Err())
}

// queryRow runs a statement expected to yield at most one row. It returns
// nil, nil when no row matched.
func queryRow[T any](ctx context.Context, db *sql.DB, op, table string, b sq.Sqlizer, scan func(rowScanner) (T, error)) (_ *T, err error) {
	defer observe(op, table, time.Now(), &err)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	v, err := scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// execStmt runs a statement that returns no rows and reports the number of
// affected rows.
func execStmt(ctx context.Context, db *sql.DB, op, table string, b sq.Sqlizer) (_ int64, err error) {
	defer observe(op, table, time.Now(), &err)

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translate(err)
	}
	return result.RowsAffected()
}

func observe(op, table string, start time.Time, err *error) {
	metrics.DBQueryDuration.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	if *err != nil {
		metrics.DBQueryErrors.WithLabelValues(op, table).Inc()
	}
}
