package domain

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
)

// AccountType is the closed set of account variants a tenant can hold.
type AccountType string

const (
	Personal AccountType = "personal"
	Business AccountType = "business"
	Agency   AccountType = "agency"
	Internal AccountType = "internal"
)

// AccountStatus is the lifecycle state of an account.
// Only ACTIVE accounts may act as the source of a money movement.
type AccountStatus string

const (
	StatusActive  AccountStatus = "ACTIVE"
	StatusPending AccountStatus = "PENDING"
	StatusBlocked AccountStatus = "BLOCKED"
	StatusClosed  AccountStatus = "CLOSED"
)

// InternalPurpose qualifies internal (bank-owned) accounts.
type InternalPurpose string

const (
	PurposeCommission InternalPurpose = "commission"
	PurposeFee        InternalPurpose = "fee"
	PurposeTax        InternalPurpose = "tax"
	PurposeReserve    InternalPurpose = "reserve"
)

// Account represents any tenant account. The Type discriminator selects the
// variant; variant-only fields are pointers or zero values elsewhere.
type Account struct {
	AccountID     string          `json:"accountID"` // Primary key (UUID)
	Type          AccountType     `json:"type"`
	AccountNumber string          `json:"accountNumber"` // Immutable once set
	UserID        *string         `json:"userID"`        // Nil for internal accounts
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`

	// Business / Agency only.
	RegistrationNumber string  `json:"registrationNumber,omitempty"`
	TaxID              string  `json:"taxID,omitempty"`
	Code               *string `json:"code,omitempty"` // Unique 6-digit merchant/agent code

	// Agency only. Nil means no commission split applies.
	DepositPercentage    *decimal.Decimal `json:"depositPercentage,omitempty"`
	WithdrawalPercentage *decimal.Decimal `json:"withdrawalPercentage,omitempty"`

	// Internal only.
	Purpose InternalPurpose `json:"purpose,omitempty"`

	AuditFields
}

// Ref returns the (type, id) reference pair transactions use to point at
// this account.
func (a *Account) Ref() AccountRef {
	return AccountRef{Type: a.Type, AccountID: a.AccountID}
}

// IsActive reports whether the account may take part in money movement as a
// source.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// AccountRef is a polymorphic account reference: variant tag plus id, rather
// than a foreign key into a single table.
type AccountRef struct {
	Type      AccountType `json:"type"`
	AccountID string      `json:"accountID"`
}

// Fixed bank identification used in generated account numbers.
const (
	countryCode = "MR"
	bankCode    = "00020"
	branchCode  = "00101"
)

// GenerateAccountNumber builds an account number: country code, 2-digit
// check, bank and branch codes, an 11-digit random body and a 2-digit key.
// The format makes collisions negligible; the store does not retry on them.
func GenerateAccountNumber() string {
	check := rand.Intn(90) + 10
	body := rand.Int63n(9e10) + 1e10
	key := rand.Intn(90) + 10
	return fmt.Sprintf("%s%d%s%s%d%d", countryCode, check, bankCode, branchCode, body, key)
}

// RandomMerchantCode produces a candidate 6-digit merchant/agent code.
// Uniqueness is enforced by the caller with a retry loop against the store.
func RandomMerchantCode() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}
