package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PreTransactionTTL is the single canonical activation window of a
// reservation code.
const PreTransactionTTL = 5 * time.Minute

// PreTransaction is a short-lived reservation binding a client and amount,
// authorizing an agent-assisted withdrawal without yet moving money. The fee
// is captured at creation so the reserved total (amount + fee) stays stable
// even if fee rules change before redemption.
type PreTransaction struct {
	PreTransactionID string          `json:"preTransactionID"` // PT + timestamp + random suffix
	Code             string          `json:"code"`             // Unique 4-digit redemption code
	ClientPhone      string          `json:"clientPhone"`
	Amount           decimal.Decimal `json:"amount"`
	FeeAmount        decimal.Decimal `json:"feeAmount"`
	IsUsed           bool            `json:"isUsed"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// IsActive reports whether the reservation can still be redeemed at the
// given instant.
func (p *PreTransaction) IsActive(now time.Time) bool {
	return !p.IsUsed && now.Sub(p.CreatedAt) < PreTransactionTTL
}

// ReservedTotal is the amount held against the client's available balance.
func (p *PreTransaction) ReservedTotal() decimal.Decimal {
	return p.Amount.Add(p.FeeAmount)
}

// NewPreTransactionID builds a time-ordered reservation identifier:
// PT + yyyymmddhhmmss + 3 random digits.
func NewPreTransactionID(now time.Time) string {
	return fmt.Sprintf("PT%s%03d", now.UTC().Format("20060102150405"), uuid.New().ID()%1000)
}

// RandomReservationCode produces a candidate 4-digit code. Uniqueness is
// enforced by the caller with a retry loop against the store.
func RandomReservationCode() string {
	return fmt.Sprintf("%04d", rand.Intn(9000)+1000)
}
