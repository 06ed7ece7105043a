package dto

import (
	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// CreateFeeRuleRequest adds a band to the tenant's fee schedule.
type CreateFeeRuleRequest struct {
	TransactionType string          `json:"transactionType" binding:"required,oneof=transfer withdrawal deposit paiement"`
	MaxAmount       decimal.Decimal `json:"maxAmount" binding:"required"`
	FeeAmount       decimal.Decimal `json:"feeAmount" binding:"required"`
}

// FeeRuleResponse is the wire view of a schedule band.
type FeeRuleResponse struct {
	RuleID          string          `json:"ruleID"`
	TransactionType string          `json:"transactionType"`
	MaxAmount       decimal.Decimal `json:"maxAmount"`
	FeeAmount       decimal.Decimal `json:"feeAmount"`
}

// FeeQuoteResponse answers "what would this operation cost" without moving
// money.
type FeeQuoteResponse struct {
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	FeeAmount       decimal.Decimal `json:"feeAmount"`
}

// ToFeeRuleResponse converts a domain rule to its wire view.
func ToFeeRuleResponse(rule *domain.FeeRule) *FeeRuleResponse {
	return &FeeRuleResponse{
		RuleID:          rule.RuleID,
		TransactionType: string(rule.TransactionType),
		MaxAmount:       rule.MaxAmount,
		FeeAmount:       rule.FeeAmount,
	}
}

// ToFeeRuleResponses converts a schedule listing.
func ToFeeRuleResponses(rules []domain.FeeRule) []FeeRuleResponse {
	responses := make([]FeeRuleResponse, len(rules))
	for i := range rules {
		responses[i] = *ToFeeRuleResponse(&rules[i])
	}
	return responses
}
