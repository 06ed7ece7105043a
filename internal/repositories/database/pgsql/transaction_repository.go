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
	"github.com/sidibemd/mobile_money_app/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
	preTxnRepo  portsrepo.PreTransactionTxSupport
}

// newPgxTransactionRepository creates the repository for the transaction
// trail and the atomic ledger entry apply.
func newPgxTransactionRepository(pool Pool, accountRepo portsrepo.AccountRepositoryFacade, preTxnRepo portsrepo.PreTransactionTxSupport) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		preTxnRepo:     preTxnRepo,
	}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, transaction_type, status, amount,
		source_type, source_account_id, destination_type, destination_account_id, transaction_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// SaveEntry applies one ledger entry atomically: consume the optional
// reservation, lock the touched accounts, re-check and write the final
// balances, insert the transaction and fee rows, then flip the rows to
// success. Any failure rolls back the whole unit.
func (r *PgxTransactionRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	// 1. Consume the reservation first so a concurrent redemption of the
	// same code fails here, before any balance is touched.
	if entry.ConsumeReservationID != "" {
		if err := r.preTxnRepo.MarkUsedInTx(ctx, tx, entry.ConsumeReservationID); err != nil {
			return err
		}
	}

	// 2. Lock the touched accounts and accumulate deltas.
	accountIDs := make([]string, 0, len(entry.Changes))
	seen := make(map[string]bool, len(entry.Changes))
	deltas := make(map[string]decimal.Decimal, len(entry.Changes))
	for _, change := range entry.Changes {
		deltas[change.AccountID] = deltas[change.AccountID].Add(change.Delta)
		if !seen[change.AccountID] {
			seen[change.AccountID] = true
			accountIDs = append(accountIDs, change.AccountID)
		}
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	// 3. Re-check balances under the locks; service pre-checks ran on stale
	// reads and cannot be trusted here.
	now := time.Now()
	finalBalances := make(map[string]decimal.Decimal, len(deltas))
	for accountID, delta := range deltas {
		final := lockedAccounts[accountID].Balance.Add(delta)
		if final.IsNegative() {
			return fmt.Errorf("account %s balance would become %s: %w",
				accountID, final.String(), apperrors.ErrInsufficientFunds)
		}
		finalBalances[accountID] = final
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, finalBalances, now); err != nil {
		return err
	}

	// 4. Insert the transaction rows as given (pending), batched.
	batch := &pgx.Batch{}
	transactionIDs := make([]string, 0, len(entry.Transactions))
	for _, txn := range entry.Transactions {
		sourceType, sourceID := refColumns(txn.Source)
		destType, destID := refColumns(txn.Destination)
		batch.Queue(insertTransactionQuery,
			txn.TransactionID,
			string(txn.Type),
			string(txn.Status),
			txn.Amount,
			sourceType,
			sourceID,
			destType,
			destID,
			txn.Date,
		)
		transactionIDs = append(transactionIDs, txn.TransactionID)
	}
	if entry.Fee != nil {
		batch.Queue(`INSERT INTO fees (fee_id, transaction_id, amount, created_at) VALUES ($1, $2, $3, $4);`,
			entry.Fee.FeeID, entry.Fee.TransactionID, entry.Fee.Amount, entry.Fee.CreatedAt)
	}
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert ledger entry rows: %w", translateError(err))
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close ledger entry batch: %w", translateError(err))
	}

	// 5. Everything applied: flip the rows to success before commit.
	_, err = tx.Exec(ctx, `UPDATE transactions SET status = $1 WHERE transaction_id = ANY($2);`,
		string(domain.StatusTxnSuccess), transactionIDs)
	if err != nil {
		return fmt.Errorf("failed to finalize ledger entry: %w", translateError(err))
	}

	return r.Commit(ctx, tx)
}

// RecordFailed persists failure evidence rows after a rolled-back apply.
func (r *PgxTransactionRepository) RecordFailed(ctx context.Context, transactions []domain.Transaction) error {
	for _, txn := range transactions {
		sourceType, sourceID := refColumns(txn.Source)
		destType, destID := refColumns(txn.Destination)
		_, err := r.Pool.Exec(ctx, insertTransactionQuery,
			txn.TransactionID,
			string(txn.Type),
			string(domain.StatusTxnFailure),
			txn.Amount,
			sourceType,
			sourceID,
			destType,
			destID,
			txn.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to record failed transaction %s: %w", txn.TransactionID, translateError(err))
		}
	}
	return nil
}

const transactionColumns = `transaction_id, transaction_type, status, amount,
	source_type, source_account_id, destination_type, destination_account_id, transaction_date`

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	return scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
}

// ListTransactionsByAccount pages through the trail entries touching an
// account, newest first. The token encodes the last row's date and ID so
// pages stay stable while new transactions arrive.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, from, to time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (source_account_id = $1 OR destination_account_id = $1)
		  AND transaction_date >= $2 AND transaction_date <= $3
	`
	args := []any{accountID, from, to}

	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		}
		query += ` AND (transaction_date < $4 OR (transaction_date = $4 AND transaction_id < $5))`
		args = append(args, tokenDate, tokenID)
	}

	// Fetch one extra row to learn whether another page exists.
	query += fmt.Sprintf(` ORDER BY transaction_date DESC, transaction_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", translateError(err))
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, err
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, translateError(err)
	}

	var token *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[limit-1]
		encoded := pagination.EncodeToken(last.Date, last.TransactionID)
		token = &encoded
	}
	return transactions, token, nil
}

func scanTransaction(row interface{ Scan(dest ...any) error }) (*domain.Transaction, error) {
	var (
		txn             domain.Transaction
		transactionType string
		status          string
		sourceType      *string
		sourceID        *string
		destType        *string
		destID          *string
	)
	err := row.Scan(
		&txn.TransactionID,
		&transactionType,
		&status,
		&txn.Amount,
		&sourceType,
		&sourceID,
		&destType,
		&destID,
		&txn.Date,
	)
	if err != nil {
		return nil, translateError(err)
	}
	txn.Type = domain.TransactionType(transactionType)
	txn.Status = domain.TransactionStatus(status)
	if sourceType != nil && sourceID != nil {
		txn.Source = &domain.AccountRef{Type: domain.AccountType(*sourceType), AccountID: *sourceID}
	}
	if destType != nil && destID != nil {
		txn.Destination = &domain.AccountRef{Type: domain.AccountType(*destType), AccountID: *destID}
	}
	return &txn, nil
}

func refColumns(ref *domain.AccountRef) (*string, *string) {
	if ref == nil {
		return nil, nil
	}
	refType := string(ref.Type)
	return &refType, &ref.AccountID
}
