package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/userdir/user-directory-api/pkg/apperrors"
)

// DB is the subset of pgxpool.Pool the gateway relies on; tests substitute a
// pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Gateway owns the shared handle to the store and exposes the three
// parameterized primitives the repository is built on. Statement failures
// come back already translated into the application error taxonomy.
type Gateway struct {
	db DB
}

func NewGateway(db DB) *Gateway {
	return &Gateway{db: db}
}

// Exec runs an INSERT/UPDATE/DELETE/DDL statement and reports affected rows.
func (g *Gateway) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := g.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}

// QueryRow fetches at most one row. Scan errors are translated, except
// pgx.ErrNoRows which callers map to their own NotFound semantics.
func (g *Gateway) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return row{inner: g.db.QueryRow(ctx, sql, args...)}
}

// Query fetches an ordered sequence of rows.
func (g *Gateway) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := g.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.Ping(ctx)
}

func (g *Gateway) Close() {
	g.db.Close()
}

type row struct {
	inner pgx.Row
}

func (r row) Scan(dest ...any) error {
	err := r.inner.Scan(dest...)
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return translateError(err)
}

// translateError folds native PostgreSQL error codes into the taxonomy:
// unique violations become DuplicateEntry, remaining integrity violations
// become ValidationError, everything else DatabaseError.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return apperrors.Duplicate("Email address already exists")
		}
		if strings.HasPrefix(pgErr.Code, "23") {
			return apperrors.Validation("Invalid data provided", nil)
		}
	}
	return apperrors.Database("Database operation failed", err)
}
