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

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, account_type, account_number, user_id, balance, status,
	registration_number, tax_id, code, deposit_percentage, withdrawal_percentage, purpose,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	// Purpose is nullable in storage; the zero value maps to NULL.
	var purpose *string
	if account.Purpose != "" {
		p := string(account.Purpose)
		purpose = &p
	}
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		string(account.Type),
		account.AccountNumber,
		account.UserID,
		account.Balance,
		string(account.Status),
		nullableString(account.RegistrationNumber),
		nullableString(account.TaxID),
		account.Code,
		account.DepositPercentage,
		account.WithdrawalPercentage,
		purpose,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", account.AccountID, translateError(err))
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return scanAccount(r.Pool.QueryRow(ctx, query, accountID))
}

func (r *PgxAccountRepository) FindAccountByOwnerAndType(ctx context.Context, userID string, accountType domain.AccountType) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND account_type = $2;`
	return scanAccount(r.Pool.QueryRow(ctx, query, userID, string(accountType)))
}

func (r *PgxAccountRepository) FindCommissionAccount(ctx context.Context) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_type = $1 AND purpose = $2;`
	return scanAccount(r.Pool.QueryRow(ctx, query, string(domain.Internal), string(domain.PurposeCommission)))
}

func (r *PgxAccountRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE code = $1);`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account code: %w", translateError(err))
	}
	return exists, nil
}

func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, string(status), now, userID, accountID)
	if err != nil {
		return fmt.Errorf("failed to update status of account %s: %w", accountID, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByIDsForUpdate locks the given accounts with FOR UPDATE inside
// the caller's transaction. IDs are sorted before locking so concurrent
// entries touching the same accounts cannot deadlock each other.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", translateError(err))
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts[account.AccountID] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("account %s missing during lock: %w", id, apperrors.ErrNotFound)
		}
	}
	return accounts, nil
}

// UpdateAccountBalancesInTx writes the final balances computed by the caller
// within the transaction. The table's non-negative check rejects overdrafts
// that slipped past the service pre-checks.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balances map[string]decimal.Decimal, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $1, last_updated_at = $2
		WHERE account_id = $3;
	`
	for accountID, balance := range balances {
		tag, err := tx.Exec(ctx, query, balance, now, accountID)
		if err != nil {
			return fmt.Errorf("failed to update balance of account %s: %w", accountID, translateError(err))
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("account %s vanished during balance update: %w", accountID, apperrors.ErrNotFound)
		}
	}
	return nil
}

func scanAccount(row interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var (
		account            domain.Account
		accountType        string
		status             string
		registrationNumber *string
		taxID              *string
		purpose            *string
	)
	err := row.Scan(
		&account.AccountID,
		&accountType,
		&account.AccountNumber,
		&account.UserID,
		&account.Balance,
		&status,
		&registrationNumber,
		&taxID,
		&account.Code,
		&account.DepositPercentage,
		&account.WithdrawalPercentage,
		&purpose,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		return nil, translateError(err)
	}
	account.Type = domain.AccountType(accountType)
	account.Status = domain.AccountStatus(status)
	if registrationNumber != nil {
		account.RegistrationNumber = *registrationNumber
	}
	if taxID != nil {
		account.TaxID = *taxID
	}
	if purpose != nil {
		account.Purpose = domain.InternalPurpose(*purpose)
	}
	return &account, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
