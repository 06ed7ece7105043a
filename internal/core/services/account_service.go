package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/apperrors"
	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	portsrepo "github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
)

// systemActor tags audit fields on operations performed by the service
// itself rather than an authenticated operator.
const systemActor = "system"

// maxCodeAttempts bounds the retry loop when generating unique merchant and
// agent codes.
const maxCodeAttempts = 10

// AccountService manages typed account provisioning and KYC status
// transitions. Accounts are created with zero balance; only the transaction
// engine ever changes balances afterwards.
type AccountService struct{}

func NewAccountService() *AccountService {
	return &AccountService{}
}

// CreatePersonalAccount provisions an ACTIVE personal account for an
// existing user. Self-registration goes through the user service instead and
// starts PENDING.
func (s *AccountService) CreatePersonalAccount(ctx context.Context, tn portsrepo.Tenant, req dto.CreatePersonalAccountRequest) (*domain.Account, error) {
	return s.createOwnedAccount(ctx, tn, req.UserID, domain.Personal, domain.StatusActive, func(a *domain.Account) error { return nil })
}

// CreateBusinessAccount provisions a merchant account with a generated
// 6-digit code.
func (s *AccountService) CreateBusinessAccount(ctx context.Context, tn portsrepo.Tenant, req dto.CreateBusinessAccountRequest) (*domain.Account, error) {
	return s.createOwnedAccount(ctx, tn, req.UserID, domain.Business, domain.StatusActive, func(a *domain.Account) error {
		code, err := s.generateUniqueCode(ctx, tn)
		if err != nil {
			return err
		}
		a.Code = &code
		a.RegistrationNumber = req.RegistrationNumber
		a.TaxID = req.TaxID
		return nil
	})
}

// CreateAgencyAccount provisions an agency account with its commission split
// percentages and a generated agent code.
func (s *AccountService) CreateAgencyAccount(ctx context.Context, tn portsrepo.Tenant, req dto.CreateAgencyAccountRequest) (*domain.Account, error) {
	if !validPercentage(req.DepositPercentage) || !validPercentage(req.WithdrawalPercentage) {
		return nil, fmt.Errorf("commission percentages must be between 0 and 100: %w", apperrors.ErrValidation)
	}
	depositPct := req.DepositPercentage
	withdrawalPct := req.WithdrawalPercentage
	return s.createOwnedAccount(ctx, tn, req.UserID, domain.Agency, domain.StatusActive, func(a *domain.Account) error {
		code, err := s.generateUniqueCode(ctx, tn)
		if err != nil {
			return err
		}
		a.Code = &code
		a.RegistrationNumber = req.RegistrationNumber
		a.TaxID = req.TaxID
		a.DepositPercentage = &depositPct
		a.WithdrawalPercentage = &withdrawalPct
		return nil
	})
}

// CreateInternalAccount provisions a bank-owned account. At most one
// commission account may exist per tenant; every commission payout and fee
// split flows through it.
func (s *AccountService) CreateInternalAccount(ctx context.Context, tn portsrepo.Tenant, req dto.CreateInternalAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	purpose := domain.InternalPurpose(req.Purpose)

	if purpose == domain.PurposeCommission {
		_, err := tn.Accounts().FindCommissionAccount(ctx)
		if err == nil {
			return nil, fmt.Errorf("commission account already exists for bank %s: %w", tn.BankCode(), apperrors.ErrDuplicate)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Type:          domain.Internal,
		AccountNumber: domain.GenerateAccountNumber(),
		Balance:       decimal.Zero,
		Status:        domain.StatusActive,
		Purpose:       purpose,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemActor,
			LastUpdatedAt: now,
			LastUpdatedBy: systemActor,
		},
	}

	if err := tn.Accounts().SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save internal account", slog.String("bank_code", tn.BankCode()), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Internal account created",
		slog.String("bank_code", tn.BankCode()),
		slog.String("account_id", account.AccountID),
		slog.String("purpose", string(purpose)))
	return &account, nil
}

// GetAccount retrieves one account by ID.
func (s *AccountService) GetAccount(ctx context.Context, tn portsrepo.Tenant, accountID string) (*domain.Account, error) {
	account, err := tn.Accounts().FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account",
				slog.String("bank_code", tn.BankCode()),
				slog.String("account_id", accountID),
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	return account, nil
}

// ValidateAccount moves a PENDING account to ACTIVE.
func (s *AccountService) ValidateAccount(ctx context.Context, tn portsrepo.Tenant, accountID string) (*dto.AccountStatusResponse, error) {
	return s.transitionStatus(ctx, tn, accountID, domain.StatusActive, func(current domain.AccountStatus) error {
		if current == domain.StatusBlocked || current == domain.StatusClosed {
			return fmt.Errorf("cannot validate a %s account: %w", current, apperrors.ErrValidation)
		}
		return nil
	})
}

// BlockAccount moves an account to BLOCKED, freezing it as a money source.
// PENDING accounts must be validated to ACTIVE first.
func (s *AccountService) BlockAccount(ctx context.Context, tn portsrepo.Tenant, accountID string) (*dto.AccountStatusResponse, error) {
	return s.transitionStatus(ctx, tn, accountID, domain.StatusBlocked, func(current domain.AccountStatus) error {
		if current == domain.StatusClosed || current == domain.StatusPending {
			return fmt.Errorf("cannot block a %s account: %w", current, apperrors.ErrValidation)
		}
		return nil
	})
}

// UnblockAccount moves a BLOCKED account back to ACTIVE.
func (s *AccountService) UnblockAccount(ctx context.Context, tn portsrepo.Tenant, accountID string) (*dto.AccountStatusResponse, error) {
	return s.transitionStatus(ctx, tn, accountID, domain.StatusActive, func(current domain.AccountStatus) error {
		if current != domain.StatusBlocked && current != domain.StatusActive {
			return fmt.Errorf("only blocked accounts can be unblocked: %w", apperrors.ErrValidation)
		}
		return nil
	})
}

// createOwnedAccount is the shared provisioning path for user-owned account
// variants. customize fills variant-only fields before the save.
func (s *AccountService) createOwnedAccount(ctx context.Context, tn portsrepo.Tenant, userID string, accountType domain.AccountType, status domain.AccountStatus, customize func(*domain.Account) error) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := tn.Users().FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("user %s not found: %w", userID, apperrors.ErrNotFound)
		}
		return nil, err
	}

	// One account of each type per user.
	_, err := tn.Accounts().FindAccountByOwnerAndType(ctx, userID, accountType)
	if err == nil {
		return nil, fmt.Errorf("user %s already holds a %s account: %w", userID, accountType, apperrors.ErrDuplicate)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Type:          accountType,
		AccountNumber: domain.GenerateAccountNumber(),
		UserID:        &userID,
		Balance:       decimal.Zero,
		Status:        status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemActor,
			LastUpdatedAt: now,
			LastUpdatedBy: systemActor,
		},
	}
	if err := customize(&account); err != nil {
		return nil, err
	}

	if err := tn.Accounts().SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account",
			slog.String("bank_code", tn.BankCode()),
			slog.String("account_type", string(accountType)),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created",
		slog.String("bank_code", tn.BankCode()),
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(accountType)),
		slog.String("status", string(status)))
	return &account, nil
}

func (s *AccountService) transitionStatus(ctx context.Context, tn portsrepo.Tenant, accountID string, target domain.AccountStatus, check func(domain.AccountStatus) error) (*dto.AccountStatusResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := tn.Accounts().FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Already in the requested state: report, don't fail.
	if account.Status == target {
		return &dto.AccountStatusResponse{AccountID: accountID, Status: string(target), Changed: false}, nil
	}

	if err := check(account.Status); err != nil {
		return nil, err
	}

	if err := tn.Accounts().UpdateAccountStatus(ctx, accountID, target, systemActor, time.Now()); err != nil {
		logger.Error("Failed to update account status",
			slog.String("bank_code", tn.BankCode()),
			slog.String("account_id", accountID),
			slog.String("target_status", string(target)),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account status changed",
		slog.String("bank_code", tn.BankCode()),
		slog.String("account_id", accountID),
		slog.String("from", string(account.Status)),
		slog.String("to", string(target)))
	return &dto.AccountStatusResponse{AccountID: accountID, Status: string(target), Changed: true}, nil
}

// generateUniqueCode draws candidate 6-digit codes until one is free in the
// tenant. The keyspace is large enough that exhausting the attempts signals
// a real problem.
func (s *AccountService) generateUniqueCode(ctx context.Context, tn portsrepo.Tenant) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := domain.RandomMerchantCode()
		exists, err := tn.Accounts().CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique account code after %d attempts", maxCodeAttempts)
}

func validPercentage(pct decimal.Decimal) bool {
	return !pct.IsNegative() && pct.LessThanOrEqual(decimal.NewFromInt(100))
}
