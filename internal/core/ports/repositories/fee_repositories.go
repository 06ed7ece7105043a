package repositories

import (
	"context"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// FeeRuleRepository provides access to the tenant's fee schedule. The ledger
// core only reads rules; rule administration is an external surface.
type FeeRuleRepository interface {
	// SaveFeeRule persists a new fee rule.
	SaveFeeRule(ctx context.Context, rule domain.FeeRule) error

	// ListFeeRulesByType returns all rules for a transaction type ordered by
	// ascending amount ceiling.
	ListFeeRulesByType(ctx context.Context, transactionType domain.TransactionType) ([]domain.FeeRule, error)

	// ListFeeRules returns the whole schedule ordered by type then ceiling.
	ListFeeRules(ctx context.Context) ([]domain.FeeRule, error)
}
