package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
)

// statement query defaults.
const (
	defaultStatementDays  = 30
	defaultStatementLimit = 50
	maxStatementLimit     = 200
)

// StatementService is the read-only reporting surface over the transaction
// trail. It never touches balances.
type StatementService struct{}

func NewStatementService() *StatementService {
	return &StatementService{}
}

// GetAccountStatement returns a page of trail entries touching the account,
// newest first.
func (s *StatementService) GetAccountStatement(ctx context.Context, tn portsrepo.Tenant, accountID string, params dto.StatementParams) (*dto.StatementResponse, error) {
	// The existence check gives callers a clean not-found instead of an
	// empty statement for a bogus account.
	if _, err := tn.Accounts().FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	now := time.Now()
	from, to := params.From, params.To
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultStatementDays)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultStatementLimit
	}
	if limit > maxStatementLimit {
		limit = maxStatementLimit
	}

	txns, nextToken, err := tn.Transactions().ListTransactionsByAccount(ctx, accountID, from, to, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list account transactions",
			slog.String("bank_code", tn.BankCode()),
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
		return nil, err
	}

	return &dto.StatementResponse{
		AccountID:    accountID,
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}
