package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// FeeSvcFacade resolves and administers the tenant fee schedule.
type FeeSvcFacade interface {
	// Lookup returns the fee for the first rule whose ceiling admits the
	// amount. No matching rule means the operation is disabled for that
	// amount (apperrors.ErrFeeDisabled).
	Lookup(ctx context.Context, tn repositories.Tenant, transactionType domain.TransactionType, amount decimal.Decimal) (decimal.Decimal, error)

	// CreateRule adds a band to the schedule.
	CreateRule(ctx context.Context, tn repositories.Tenant, req dto.CreateFeeRuleRequest) (*domain.FeeRule, error)

	// ListRules returns the full schedule.
	ListRules(ctx context.Context, tn repositories.Tenant) ([]domain.FeeRule, error)

	// Quote answers what an operation of the given type and amount would
	// cost, without moving money.
	Quote(ctx context.Context, tn repositories.Tenant, transactionType domain.TransactionType, amount decimal.Decimal) (*dto.FeeQuoteResponse, error)
}
