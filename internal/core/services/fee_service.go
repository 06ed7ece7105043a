package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/apperrors"
	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	portsrepo "github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
)

// FeeService resolves charges against the tenant fee schedule. Rules are
// banded: each rule covers amounts up to its ceiling, and the first band
// (ascending) that admits the amount wins.
type FeeService struct{}

func NewFeeService() *FeeService {
	return &FeeService{}
}

// Lookup returns the fee owed for an operation of the given type and amount.
// An amount above every ceiling means the schedule does not allow the
// operation at that size.
func (s *FeeService) Lookup(ctx context.Context, tn portsrepo.Tenant, transactionType domain.TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	rules, err := tn.FeeRules().ListFeeRulesByType(ctx, transactionType)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list fee rules",
			slog.String("bank_code", tn.BankCode()),
			slog.String("transaction_type", string(transactionType)),
			slog.String("error", err.Error()))
		return decimal.Zero, err
	}

	for _, rule := range rules {
		if amount.LessThanOrEqual(rule.MaxAmount) {
			return rule.FeeAmount, nil
		}
	}
	return decimal.Zero, fmt.Errorf("no %s fee rule covers amount %s: %w", transactionType, amount.String(), apperrors.ErrFeeDisabled)
}

// CreateRule adds a band to the schedule.
func (s *FeeService) CreateRule(ctx context.Context, tn portsrepo.Tenant, req dto.CreateFeeRuleRequest) (*domain.FeeRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.MaxAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("max amount must be positive: %w", apperrors.ErrValidation)
	}
	if req.FeeAmount.IsNegative() {
		return nil, fmt.Errorf("fee amount must not be negative: %w", apperrors.ErrValidation)
	}

	rule := domain.FeeRule{
		RuleID:          uuid.NewString(),
		TransactionType: domain.TransactionType(req.TransactionType),
		MaxAmount:       req.MaxAmount,
		FeeAmount:       req.FeeAmount,
	}

	if err := tn.FeeRules().SaveFeeRule(ctx, rule); err != nil {
		logger.Error("Failed to save fee rule", slog.String("bank_code", tn.BankCode()), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Fee rule created",
		slog.String("bank_code", tn.BankCode()),
		slog.String("rule_id", rule.RuleID),
		slog.String("transaction_type", string(rule.TransactionType)))
	return &rule, nil
}

// ListRules returns the whole schedule.
func (s *FeeService) ListRules(ctx context.Context, tn portsrepo.Tenant) ([]domain.FeeRule, error) {
	return tn.FeeRules().ListFeeRules(ctx)
}

// Quote prices an operation without moving money.
func (s *FeeService) Quote(ctx context.Context, tn portsrepo.Tenant, transactionType domain.TransactionType, amount decimal.Decimal) (*dto.FeeQuoteResponse, error) {
	fee, err := s.Lookup(ctx, tn, transactionType, amount)
	if err != nil {
		return nil, err
	}
	return &dto.FeeQuoteResponse{
		TransactionType: string(transactionType),
		Amount:          amount,
		FeeAmount:       fee,
	}, nil
}
