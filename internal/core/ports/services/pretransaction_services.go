package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// PreTransactionSvcFacade manages the reservation ledger: short-lived
// withdrawal codes that hold funds against an account's available balance.
type PreTransactionSvcFacade interface {
	// CreatePreTransaction reserves amount plus the snapshotted withdrawal
	// fee against the client's available balance and returns the 4-digit
	// code the client hands to an agent.
	CreatePreTransaction(ctx context.Context, tn repositories.Tenant, req dto.CreatePreTransactionRequest) (*dto.PreTransactionResponse, error)

	// RetrievePreTransaction looks up an active reservation by phone and
	// code. Expired or consumed reservations are reported as not found.
	RetrievePreTransaction(ctx context.Context, tn repositories.Tenant, clientPhone, code string) (*dto.PreTransactionResponse, error)

	// CancelPreTransaction releases a reservation before redemption.
	CancelPreTransaction(ctx context.Context, tn repositories.Tenant, code string) error

	// VerifyForRedemption checks that a code is active, belongs to the
	// client, and matches the requested amount. Used by the withdrawal
	// operation before it consumes the reservation.
	VerifyForRedemption(ctx context.Context, tn repositories.Tenant, code, clientPhone string, amount decimal.Decimal, now time.Time) (*domain.PreTransaction, error)

	// AvailableBalance returns the account balance minus all active
	// reservations held by clientPhone, excluding the reservation with
	// excludeID (pass empty to exclude none).
	AvailableBalance(ctx context.Context, tn repositories.Tenant, account *domain.Account, clientPhone, excludeID string, now time.Time) (decimal.Decimal, error)

	// PurgeExpired removes reservations past the activity window. Called by
	// the housekeeping timer; advisory only.
	PurgeExpired(ctx context.Context, tn repositories.Tenant) (int64, error)
}
