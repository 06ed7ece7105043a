package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// TransferRequest moves money between two personal accounts.
type TransferRequest struct {
	SourcePhone      string          `json:"sourcePhone" binding:"required,msisdn"`
	DestinationPhone string          `json:"destinationPhone" binding:"required,msisdn"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawalRequest is an agent-assisted cash-out gated by a reservation code.
type WithdrawalRequest struct {
	ClientPhone string          `json:"clientPhone" binding:"required,msisdn"`
	AgentPhone  string          `json:"agentPhone" binding:"required,msisdn"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Code        string          `json:"code" binding:"required,len=4"`
}

// MerchantWithdrawalRequest debits a business account directly, no
// reservation gate.
type MerchantWithdrawalRequest struct {
	ClientPhone string          `json:"clientPhone" binding:"required,msisdn"`
	AgentPhone  string          `json:"agentPhone" binding:"required,msisdn"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// MerchantPaymentRequest pays a merchant from a personal account.
type MerchantPaymentRequest struct {
	ClientPhone   string          `json:"clientPhone" binding:"required,msisdn"`
	MerchantPhone string          `json:"merchantPhone" binding:"required,msisdn"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// DepositRequest is an agency cash-in to a personal account.
type DepositRequest struct {
	ClientPhone string          `json:"clientPhone" binding:"required,msisdn"`
	AgencyPhone string          `json:"agencyPhone" binding:"required,msisdn"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// RechargeRequest is an external cash injection into an agency account.
type RechargeRequest struct {
	AgencyPhone string          `json:"agencyPhone" binding:"required,msisdn"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// AccountRefResponse mirrors domain.AccountRef on the wire.
type AccountRefResponse struct {
	Type      string `json:"type"`
	AccountID string `json:"accountID"`
}

// TransactionResponse is the committed summary returned by every engine
// operation. FeeAmount is only set for chargeable operations.
type TransactionResponse struct {
	TransactionID string              `json:"transactionID"`
	Type          string              `json:"type"`
	Status        string              `json:"status"`
	Amount        decimal.Decimal     `json:"amount"`
	Date          time.Time           `json:"date"`
	Source        *AccountRefResponse `json:"sourceAccount,omitempty"`
	Destination   *AccountRefResponse `json:"destinationAccount,omitempty"`
	FeeAmount     *decimal.Decimal    `json:"feeAmount,omitempty"`
}

func toAccountRefResponse(ref *domain.AccountRef) *AccountRefResponse {
	if ref == nil {
		return nil
	}
	return &AccountRefResponse{Type: string(ref.Type), AccountID: ref.AccountID}
}

// ToTransactionResponse converts the principal transaction of an operation
// (plus its optional fee) to the wire summary.
func ToTransactionResponse(txn *domain.Transaction, fee *decimal.Decimal) *TransactionResponse {
	return &TransactionResponse{
		TransactionID: txn.TransactionID,
		Type:          string(txn.Type),
		Status:        string(txn.Status),
		Amount:        txn.Amount,
		Date:          txn.Date,
		Source:        toAccountRefResponse(txn.Source),
		Destination:   toAccountRefResponse(txn.Destination),
		FeeAmount:     fee,
	}
}

// ToTransactionResponses converts a slice of trail entries.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = *ToTransactionResponse(&txns[i], nil)
	}
	return responses
}
