package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction records.
// Paiement is the generic payment leg, also used for fee movements.
type TransactionType string

const (
	TypeTransfer   TransactionType = "transfer"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDeposit    TransactionType = "deposit"
	TypePaiement   TransactionType = "paiement"
)

// TransactionStatus tracks the lifecycle of a transaction row. Rows are
// created pending and flipped to success only once every balance mutation of
// the same atomic unit has been applied. Failure rows persist as evidence.
type TransactionStatus string

const (
	StatusTxnPending TransactionStatus = "pending"
	StatusTxnSuccess TransactionStatus = "success"
	StatusTxnFailure TransactionStatus = "failure"
)

// Transaction is one entry of the auditable transaction trail. Source and
// destination are polymorphic account references; either may be absent
// (an external recharge has no source).
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Time-ordered: TR + timestamp + random suffix
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"` // Always positive
	Source        *AccountRef       `json:"sourceAccount,omitempty"`
	Destination   *AccountRef       `json:"destinationAccount,omitempty"`
	Date          time.Time         `json:"date"` // Creation timestamp, immutable
}

// NewTransactionID builds a time-ordered transaction identifier that doubles
// as a coarse audit ordering key: TR + yyyymmddhhmmss + 3 random digits.
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TR%s%03d", now.UTC().Format("20060102150405"), uuid.New().ID()%1000)
}

// BalanceChange is one signed balance delta of an atomic ledger entry.
// Changes are applied in slice order, debits first.
type BalanceChange struct {
	AccountID string
	Delta     decimal.Decimal
}

// LedgerEntry is the unit of work the transaction store applies atomically:
// transaction rows, their balance deltas, an optional fee record and an
// optional pre-authorization to consume. Either everything commits or
// nothing does.
type LedgerEntry struct {
	Transactions []Transaction
	Fee          *Fee
	Changes      []BalanceChange
	// ConsumeReservationID, when set, marks the pre-transaction used as the
	// first step of the atomic unit so a concurrent redemption fails cleanly.
	ConsumeReservationID string
}
