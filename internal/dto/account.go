package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// CreatePersonalAccountRequest provisions an ACTIVE personal account for an
// existing user (back-office path; self-registration goes through the user
// surface and starts PENDING).
type CreatePersonalAccountRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// CreateBusinessAccountRequest provisions a merchant account. The merchant
// code is generated server side.
type CreateBusinessAccountRequest struct {
	UserID             string `json:"userID" binding:"required"`
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	TaxID              string `json:"taxID" binding:"required"`
}

// CreateAgencyAccountRequest provisions an agency account with its commission
// split percentages.
type CreateAgencyAccountRequest struct {
	UserID               string          `json:"userID" binding:"required"`
	RegistrationNumber   string          `json:"registrationNumber" binding:"required"`
	TaxID                string          `json:"taxID" binding:"required"`
	DepositPercentage    decimal.Decimal `json:"depositPercentage" binding:"required"`
	WithdrawalPercentage decimal.Decimal `json:"withdrawalPercentage" binding:"required"`
}

// CreateInternalAccountRequest provisions a bank-owned account for a purpose
// (commission, fee, tax, reserve).
type CreateInternalAccountRequest struct {
	Purpose string `json:"purpose" binding:"required,oneof=commission fee tax reserve"`
}

// AccountResponse is the wire view of an account. Balance is included; the
// surface is bank-operator facing.
type AccountResponse struct {
	AccountID            string           `json:"accountID"`
	AccountNumber        string           `json:"accountNumber"`
	Type                 string           `json:"type"`
	Status               string           `json:"status"`
	Balance              decimal.Decimal  `json:"balance"`
	UserID               *string          `json:"userID,omitempty"`
	Code                 *string          `json:"code,omitempty"`
	DepositPercentage    *decimal.Decimal `json:"depositPercentage,omitempty"`
	WithdrawalPercentage *decimal.Decimal `json:"withdrawalPercentage,omitempty"`
	Purpose              string           `json:"purpose,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// AccountStatusResponse reports the outcome of a KYC status change. Changed
// is false when the account was already in the requested state.
type AccountStatusResponse struct {
	AccountID string `json:"accountID"`
	Status    string `json:"status"`
	Changed   bool   `json:"changed"`
}

// ToAccountResponse converts a domain account to its wire view.
func ToAccountResponse(account *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountID:            account.AccountID,
		AccountNumber:        account.AccountNumber,
		Type:                 string(account.Type),
		Status:               string(account.Status),
		Balance:              account.Balance,
		UserID:               account.UserID,
		Code:                 account.Code,
		DepositPercentage:    account.DepositPercentage,
		WithdrawalPercentage: account.WithdrawalPercentage,
		Purpose:              string(account.Purpose),
		CreatedAt:            account.CreatedAt,
	}
}
