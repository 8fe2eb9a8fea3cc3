package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrUniqueViolation is returned when a statement breaks a unique constraint.
// It is not a storage failure and never wraps lists.ErrStorageUnavailable.
var ErrUniqueViolation = errors.New("unique constraint violation")

// pgUniqueViolation is the SQLSTATE postgres reports for duplicate keys.
const pgUniqueViolation = "23505"

// Scanner reads the current row into dest. *sql.Rows satisfies it.
type Scanner interface {
	Scan(dest ...any) error
}

// Queries runs parameterized statements against one of the Database's pools.
// Values are always passed out-of-band, never spliced into the statement text.
type Queries struct {
	db    *sql.DB
	pool  string
	owner *Database
}

// Exec runs a mutation and returns the number of affected rows.
func (q *Queries) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := q.owner.run(ctx, "exec", q.pool, func(ctx context.Context) error {
		res, err := q.db.ExecContext(ctx, q.owner.rebind(query), args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

// QueryOne scans the first matching row into dest. found is false when no row
// matched, which callers must treat differently from a row holding empty values.
func (q *Queries) QueryOne(ctx context.Context, query string, args []any, dest ...any) (found bool, err error) {
	err = q.owner.run(ctx, "query_one", q.pool, func(ctx context.Context) error {
		scanErr := q.db.QueryRowContext(ctx, q.owner.rebind(query), args...).Scan(dest...)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return nil
		}
		if scanErr != nil {
			return scanErr
		}
		found = true
		return nil
	})
	return found, err
}

// QueryAll calls scan once per matching row, in the order the backend returns them.
func (q *Queries) QueryAll(ctx context.Context, query string, args []any, scan func(Scanner) error) error {
	return q.owner.run(ctx, "query_all", q.pool, func(ctx context.Context) error {
		rows, err := q.db.QueryContext(ctx, q.owner.rebind(query), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// run applies the per-call timeout, records metrics and classifies the error.
func (d *Database) run(ctx context.Context, op, pool string, fn func(context.Context) error) error {
	if d.closed.Load() {
		return unavailable(op, errors.New("database closed"))
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.QueryTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed >= d.config.SlowStatementThreshold {
		d.logger.Performance("storage."+op, elapsed, slog.String("pool", pool))
	}

	switch {
	case err == nil:
		d.metrics.Observe(op, pool, outcomeSuccess, elapsed)
		return nil
	case isUniqueViolation(err):
		d.metrics.Observe(op, pool, outcomeConflict, elapsed)
		return fmt.Errorf("%s: %w", op, ErrUniqueViolation)
	case errors.Is(err, context.DeadlineExceeded):
		d.metrics.Observe(op, pool, outcomeTimeout, elapsed)
		d.logger.Error("Storage operation timed out",
			"operation", op,
			"pool", pool,
			"timeout", d.config.QueryTimeout.String())
		return unavailable(op, fmt.Errorf("timed out after %s: %w", d.config.QueryTimeout, err))
	default:
		d.metrics.Observe(op, pool, outcomeError, elapsed)
		d.logger.Error("Storage operation failed", "operation", op, "pool", pool, "error", err)
		return unavailable(op, err)
	}
}

func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
