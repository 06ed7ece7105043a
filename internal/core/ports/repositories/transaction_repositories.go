package repositories

import (
	"context"
	"time"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// TransactionRepository persists the auditable transaction trail and applies
// ledger entries atomically.
type TransactionRepository interface {
	// SaveEntry applies a ledger entry as one all-or-nothing unit: the
	// optional reservation consumption, account locks, balance updates and
	// transaction/fee row creation either all commit or none do. Rows are
	// inserted pending and flipped to success before commit.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// RecordFailed persists transaction rows with status failure after a
	// rolled-back apply, keeping evidence of the attempt. Best effort.
	RecordFailed(ctx context.Context, transactions []domain.Transaction) error

	// FindTransactionByID retrieves a single trail entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves trail entries touching an account
	// (as source or destination) within a date range, newest first, using
	// token pagination. Read-only reporting access.
	ListTransactionsByAccount(ctx context.Context, accountID string, from, to time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
