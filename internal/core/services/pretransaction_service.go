package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/apperrors"
	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	portsrepo "github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
)

// PreTransactionService manages the reservation ledger. A reservation holds
// amount plus the withdrawal fee snapshotted at creation; it expires on its
// own after the activation window, so purging is housekeeping only.
type PreTransactionService struct {
	feeSvc *FeeService
}

func NewPreTransactionService(feeSvc *FeeService) *PreTransactionService {
	return &PreTransactionService{feeSvc: feeSvc}
}

// CreatePreTransaction reserves funds for a future agent-assisted
// withdrawal and returns the 4-digit code the client hands to the agent.
func (s *PreTransactionService) CreatePreTransaction(ctx context.Context, tn portsrepo.Tenant, req dto.CreatePreTransactionRequest) (*dto.PreTransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
	}

	account, err := s.resolveClientAccount(ctx, tn, req.ClientPhone)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("client account is not active: %w", apperrors.ErrAccountInactive)
	}

	// Snapshot the fee now so the reserved total survives schedule changes.
	fee, err := s.feeSvc.Lookup(ctx, tn, domain.TypeWithdrawal, req.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	available, err := s.AvailableBalance(ctx, tn, account, req.ClientPhone, "", now)
	if err != nil {
		return nil, err
	}
	if available.LessThan(req.Amount.Add(fee)) {
		return nil, fmt.Errorf("available balance %s cannot cover %s plus fee %s: %w",
			available.String(), req.Amount.String(), fee.String(), apperrors.ErrInsufficientFunds)
	}

	code, err := s.generateUniqueReservationCode(ctx, tn)
	if err != nil {
		return nil, err
	}

	pt := domain.PreTransaction{
		PreTransactionID: domain.NewPreTransactionID(now),
		Code:             code,
		ClientPhone:      req.ClientPhone,
		Amount:           req.Amount,
		FeeAmount:        fee,
		IsUsed:           false,
		CreatedAt:        now,
	}

	if err := tn.PreTransactions().SavePreTransaction(ctx, pt); err != nil {
		logger.Error("Failed to save pre-transaction",
			slog.String("bank_code", tn.BankCode()),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Pre-transaction created",
		slog.String("bank_code", tn.BankCode()),
		slog.String("pre_transaction_id", pt.PreTransactionID),
		slog.String("client_phone", pt.ClientPhone))
	return dto.ToPreTransactionResponse(&pt), nil
}

// RetrievePreTransaction looks up an active reservation. Expired or consumed
// codes report not found; callers cannot distinguish them from codes that
// never existed.
func (s *PreTransactionService) RetrievePreTransaction(ctx context.Context, tn portsrepo.Tenant, clientPhone, code string) (*dto.PreTransactionResponse, error) {
	pt, err := tn.PreTransactions().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if pt.ClientPhone != clientPhone || !pt.IsActive(time.Now()) {
		return nil, fmt.Errorf("no active reservation for this code: %w", apperrors.ErrNotFound)
	}
	return dto.ToPreTransactionResponse(pt), nil
}

// CancelPreTransaction releases a reservation before redemption, freeing the
// held funds immediately.
func (s *PreTransactionService) CancelPreTransaction(ctx context.Context, tn portsrepo.Tenant, code string) error {
	pt, err := tn.PreTransactions().FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if pt.IsUsed {
		return fmt.Errorf("reservation already redeemed: %w", apperrors.ErrValidation)
	}
	if err := tn.PreTransactions().DeleteByCode(ctx, code); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Pre-transaction cancelled",
		slog.String("bank_code", tn.BankCode()),
		slog.String("pre_transaction_id", pt.PreTransactionID))
	return nil
}

// VerifyForRedemption checks a code against the redeeming client and amount.
// The reservation is not consumed here; the transaction store consumes it
// inside the atomic apply.
func (s *PreTransactionService) VerifyForRedemption(ctx context.Context, tn portsrepo.Tenant, code, clientPhone string, amount decimal.Decimal, now time.Time) (*domain.PreTransaction, error) {
	pt, err := tn.PreTransactions().FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("withdrawal code not found: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	if pt.ClientPhone != clientPhone {
		return nil, fmt.Errorf("withdrawal code does not belong to this client: %w", apperrors.ErrValidation)
	}
	if !pt.IsActive(now) {
		return nil, fmt.Errorf("withdrawal code is expired or already used: %w", apperrors.ErrValidation)
	}
	if !pt.Amount.Equal(amount) {
		return nil, fmt.Errorf("withdrawal amount %s does not match reserved amount %s: %w",
			amount.String(), pt.Amount.String(), apperrors.ErrValidation)
	}
	return pt, nil
}

// AvailableBalance returns the account balance minus every active
// reservation held by clientPhone, excluding the reservation with excludeID.
// Redemption passes its own reservation as the exclusion so the held funds
// count toward the withdrawal itself.
func (s *PreTransactionService) AvailableBalance(ctx context.Context, tn portsrepo.Tenant, account *domain.Account, clientPhone, excludeID string, now time.Time) (decimal.Decimal, error) {
	activeSince := now.Add(-domain.PreTransactionTTL)
	reserved, err := tn.PreTransactions().SumActiveReservations(ctx, clientPhone, excludeID, activeSince)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance.Sub(reserved), nil
}

// PurgeExpired removes reservations past the activation window. Correctness
// never depends on this sweep; expired rows are already unredeemable.
func (s *PreTransactionService) PurgeExpired(ctx context.Context, tn portsrepo.Tenant) (int64, error) {
	cutoff := time.Now().Add(-domain.PreTransactionTTL)
	removed, err := tn.PreTransactions().DeleteExpired(ctx, cutoff)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to purge expired pre-transactions",
			slog.String("bank_code", tn.BankCode()),
			slog.String("error", err.Error()))
		return 0, err
	}
	if removed > 0 {
		middleware.GetLoggerFromCtx(ctx).Info("Purged expired pre-transactions",
			slog.String("bank_code", tn.BankCode()),
			slog.Int64("removed", removed))
	}
	return removed, nil
}

// resolveClientAccount maps a phone number to its personal account.
func (s *PreTransactionService) resolveClientAccount(ctx context.Context, tn portsrepo.Tenant, phone string) (*domain.Account, error) {
	user, err := tn.Users().FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("no user with phone %s: %w", phone, apperrors.ErrNotFound)
		}
		return nil, err
	}
	account, err := tn.Accounts().FindAccountByOwnerAndType(ctx, user.UserID, domain.Personal)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("no personal account for phone %s: %w", phone, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return account, nil
}

// generateUniqueReservationCode draws candidate 4-digit codes until one is
// free. The keyspace is small, so collisions are expected under load; the
// attempt bound keeps the loop finite.
func (s *PreTransactionService) generateUniqueReservationCode(ctx context.Context, tn portsrepo.Tenant) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := domain.RandomReservationCode()
		exists, err := tn.PreTransactions().CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique reservation code after %d attempts", maxCodeAttempts)
}
