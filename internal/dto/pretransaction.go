package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// CreatePreTransactionRequest reserves funds for a future withdrawal.
type CreatePreTransactionRequest struct {
	ClientPhone string          `json:"clientPhone" binding:"required,msisdn"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// RetrievePreTransactionRequest looks up a reservation by phone and code.
type RetrievePreTransactionRequest struct {
	ClientPhone string `json:"clientPhone" binding:"required,msisdn"`
	Code        string `json:"code" binding:"required,len=4"`
}

// PreTransactionResponse is the wire view of a reservation.
type PreTransactionResponse struct {
	PreTransactionID string          `json:"preTransactionID"`
	Code             string          `json:"code"`
	ClientPhone      string          `json:"clientPhone"`
	Amount           decimal.Decimal `json:"amount"`
	FeeAmount        decimal.Decimal `json:"feeAmount"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToPreTransactionResponse converts a domain reservation to its wire view.
func ToPreTransactionResponse(pt *domain.PreTransaction) *PreTransactionResponse {
	return &PreTransactionResponse{
		PreTransactionID: pt.PreTransactionID,
		Code:             pt.Code,
		ClientPhone:      pt.ClientPhone,
		Amount:           pt.Amount,
		FeeAmount:        pt.FeeAmount,
		CreatedAt:        pt.CreatedAt,
	}
}
