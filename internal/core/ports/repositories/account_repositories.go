package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByOwnerAndType retrieves the account of the given type held
	// by the given user.
	FindAccountByOwnerAndType(ctx context.Context, userID string, accountType domain.AccountType) (*domain.Account, error)

	// FindCommissionAccount retrieves the tenant's single internal account of
	// purpose commission (no owner), the mandatory fee sink.
	FindCommissionAccount(ctx context.Context) (*domain.Account, error)

	// CodeExists reports whether any account in the tenant holds the given
	// 6-digit merchant/agent code.
	CodeExists(ctx context.Context, code string) (bool, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus sets a new lifecycle status on an account.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error
}

// AccountTransactionSupport defines the operations the transaction store
// uses inside an atomic ledger entry. These must only ever be called within
// the apply phase of an engine operation; balances are never mutated through
// any other path.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update
	// within the given transaction, preventing two concurrent debits from
	// passing the balance check against the same stale balance.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies net balance deltas to multiple
	// accounts within the given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
