package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/apperrors"
	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	portsrepo "github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
)

type PgxPreTransactionRepository struct {
	BaseRepository
}

// newPgxPreTransactionRepository creates a new repository for the
// reservation ledger.
func newPgxPreTransactionRepository(pool Pool) portsrepo.PreTransactionRepositoryFacade {
	return &PgxPreTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PreTransactionRepositoryFacade = (*PgxPreTransactionRepository)(nil)

const preTransactionColumns = `pre_transaction_id, code, client_phone, amount, fee_amount, is_used, created_at`

func (r *PgxPreTransactionRepository) SavePreTransaction(ctx context.Context, pt domain.PreTransaction) error {
	query := `
		INSERT INTO pre_transactions (` + preTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		pt.PreTransactionID,
		pt.Code,
		pt.ClientPhone,
		pt.Amount,
		pt.FeeAmount,
		pt.IsUsed,
		pt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pre-transaction %s: %w", pt.PreTransactionID, translateError(err))
	}
	return nil
}

func (r *PgxPreTransactionRepository) FindByCode(ctx context.Context, code string) (*domain.PreTransaction, error) {
	query := `SELECT ` + preTransactionColumns + ` FROM pre_transactions WHERE code = $1;`
	var pt domain.PreTransaction
	err := r.Pool.QueryRow(ctx, query, code).Scan(
		&pt.PreTransactionID,
		&pt.Code,
		&pt.ClientPhone,
		&pt.Amount,
		&pt.FeeAmount,
		&pt.IsUsed,
		&pt.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &pt, nil
}

func (r *PgxPreTransactionRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pre_transactions WHERE code = $1);`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reservation code: %w", translateError(err))
	}
	return exists, nil
}

// SumActiveReservations totals amount+fee over unused reservations inside
// the activity window, optionally excluding one reservation (the one being
// redeemed).
func (r *PgxPreTransactionRepository) SumActiveReservations(ctx context.Context, clientPhone string, excludeID string, activeSince time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount + fee_amount), 0)
		FROM pre_transactions
		WHERE client_phone = $1
		  AND is_used = FALSE
		  AND created_at > $2
		  AND ($3 = '' OR pre_transaction_id <> $3);
	`
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, clientPhone, activeSince, excludeID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum active reservations: %w", translateError(err))
	}
	return total, nil
}

func (r *PgxPreTransactionRepository) DeleteByCode(ctx context.Context, code string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM pre_transactions WHERE code = $1;`, code)
	if err != nil {
		return fmt.Errorf("failed to delete pre-transaction: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPreTransactionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM pre_transactions WHERE created_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pre-transactions: %w", translateError(err))
	}
	return tag.RowsAffected(), nil
}

// MarkUsedInTx flips is_used inside the caller's transaction. The is_used
// guard in the WHERE clause makes concurrent redemptions of the same code
// mutually exclusive: the loser affects zero rows.
func (r *PgxPreTransactionRepository) MarkUsedInTx(ctx context.Context, tx pgx.Tx, preTransactionID string) error {
	query := `
		UPDATE pre_transactions
		SET is_used = TRUE
		WHERE pre_transaction_id = $1 AND is_used = FALSE;
	`
	tag, err := tx.Exec(ctx, query, preTransactionID)
	if err != nil {
		return fmt.Errorf("failed to mark pre-transaction used: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pre-transaction %s already consumed or missing: %w", preTransactionID, apperrors.ErrNotFound)
	}
	return nil
}
