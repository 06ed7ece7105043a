package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee records the total fee charged for a transaction (1:1 with the
// principal transaction of a chargeable operation). It exists for reporting;
// balances are never re-derived from it.
type Fee struct {
	FeeID         string          `json:"feeID"` // Primary key (UUID)
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// FeeRule maps (transaction type, amount ceiling) to a fee amount. Rules are
// scanned in ascending ceiling order; the first rule whose ceiling covers the
// amount wins. No matching rule means the type is disabled for the tenant.
type FeeRule struct {
	RuleID          string          `json:"ruleID"` // Primary key (UUID)
	TransactionType TransactionType `json:"transactionType"`
	MaxAmount       decimal.Decimal `json:"maxAmount"`
	FeeAmount       decimal.Decimal `json:"feeAmount"`
}
