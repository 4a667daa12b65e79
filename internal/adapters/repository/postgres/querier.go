// Package postgres implements the persistence ports against PostgreSQL via
// pgx/v5. Every repository accepts the querier interface rather than a
// concrete *pgxpool.Pool or pgx.Tx, so the same repository type works both
// standalone and bound to a transaction inside a UnitOfWork.Execute call.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vitalya420/loyalty-auth-core/pkg/telemetry"
)

// querier is the subset of *pgxpool.Pool and pgx.Tx this package relies on.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// tracedQuerier wraps a querier with an OpenTelemetry span per call, using
// the same db.* span shape pkg/telemetry uses for every other outbound call.
type tracedQuerier struct {
	inner querier
	cfg   *telemetry.DBSpanConfig
}

// Trace wraps q so every Exec/Query/QueryRow call against it produces a span.
func Trace(q querier, cfg telemetry.DBSpanConfig) querier {
	return &tracedQuerier{inner: q, cfg: &cfg}
}

func (t *tracedQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return telemetry.TraceDBQueryFunc(ctx, "exec", sql, t.cfg, func(ctx context.Context) (pgconn.CommandTag, error) {
		return t.inner.Exec(ctx, sql, args...)
	})
}

func (t *tracedQuerier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return telemetry.TraceDBQueryFunc(ctx, "query", sql, t.cfg, func(ctx context.Context) (pgx.Rows, error) {
		return t.inner.Query(ctx, sql, args...)
	})
}

func (t *tracedQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	ctx, span := telemetry.TraceDBQuery(ctx, "query_row", sql, t.cfg)
	defer span.End()
	return t.inner.QueryRow(ctx, sql, args...)
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
