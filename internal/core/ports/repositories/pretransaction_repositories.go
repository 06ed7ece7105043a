package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// PreTransactionRepository provides access to the reservation ledger.
type PreTransactionRepository interface {
	// SavePreTransaction persists a new reservation.
	SavePreTransaction(ctx context.Context, pt domain.PreTransaction) error

	// FindByCode retrieves a reservation by its 4-digit code.
	FindByCode(ctx context.Context, code string) (*domain.PreTransaction, error)

	// CodeExists reports whether any reservation in the tenant holds the code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// SumActiveReservations returns the total amount+fee held by unused
	// reservations created after activeSince for the given phone, excluding
	// the reservation with excludeID (pass empty to exclude none). This is
	// what available-balance checks subtract from the account balance.
	SumActiveReservations(ctx context.Context, clientPhone string, excludeID string, activeSince time.Time) (decimal.Decimal, error)

	// DeleteByCode removes a reservation (cancellation).
	DeleteByCode(ctx context.Context, code string) error

	// DeleteExpired removes reservations created before the cutoff. Advisory
	// housekeeping; correctness never depends on it because the activity
	// window already excludes expired reservations from redemption.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// PreTransactionTxSupport is used by the transaction store inside an atomic
// ledger entry.
type PreTransactionTxSupport interface {
	// MarkUsedInTx flips is_used within the given transaction, guarded so a
	// reservation already consumed by a concurrent operation is not flipped
	// twice. Returns apperrors.ErrNotFound when the guard rejects the flip.
	MarkUsedInTx(ctx context.Context, tx pgx.Tx, preTransactionID string) error
}

// PreTransactionRepositoryFacade combines reservation access with the
// transaction-scoped support operations.
type PreTransactionRepositoryFacade interface {
	PreTransactionRepository
	PreTransactionTxSupport
}
