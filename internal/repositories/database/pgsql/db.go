package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidibemd/mobile_money_app/internal/apperrors"
)

// Pool is the subset of pgxpool.Pool the repositories use. Keeping it narrow
// lets tests substitute a pgxmock pool.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Pool = (*pgxpool.Pool)(nil)

// Postgres error codes the repositories translate into app errors.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// translateError maps low-level Postgres failures onto the app error
// taxonomy. Check violations come from the non-negative balance constraint,
// the final backstop against overdrafts.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.ErrDuplicate
		case pgCheckViolation:
			return apperrors.ErrInsufficientFunds
		}
	}
	return err
}
