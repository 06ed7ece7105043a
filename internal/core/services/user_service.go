package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sidibemd/mobile_money_app/internal/apperrors"
	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	portsrepo "github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
	"github.com/sidibemd/mobile_money_app/internal/utils"
)

// UserService manages the tenant user directory. Registration pairs every
// new user with a PENDING personal account that an operator must validate
// before it can move money.
type UserService struct {
	accountSvc *AccountService
}

func NewUserService(accountSvc *AccountService) *UserService {
	return &UserService{accountSvc: accountSvc}
}

// RegisterUser creates a user and their pending personal account.
func (s *UserService) RegisterUser(ctx context.Context, tn portsrepo.Tenant, req dto.RegisterUserRequest) (*dto.RegisterUserResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Phone numbers identify transaction parties, so they must be unique.
	_, err := tn.Users().FindUserByPhone(ctx, req.PhoneNumber)
	if err == nil {
		return nil, fmt.Errorf("phone number %s already registered: %w", req.PhoneNumber, apperrors.ErrDuplicate)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemActor,
			LastUpdatedAt: now,
			LastUpdatedBy: systemActor,
		},
	}

	if err := tn.Users().SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("bank_code", tn.BankCode()), slog.String("error", err.Error()))
		return nil, err
	}

	account, err := s.accountSvc.createOwnedAccount(ctx, tn, user.UserID, domain.Personal, domain.StatusPending, func(a *domain.Account) error { return nil })
	if err != nil {
		logger.Error("Failed to create pending account for new user",
			slog.String("bank_code", tn.BankCode()),
			slog.String("user_id", user.UserID),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("User registered",
		slog.String("bank_code", tn.BankCode()),
		slog.String("user_id", user.UserID),
		slog.String("account_id", account.AccountID))
	return &dto.RegisterUserResponse{
		User:    *dto.ToUserResponse(&user),
		Account: *dto.ToAccountResponse(account),
	}, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, tn portsrepo.Tenant, userID string) (*domain.User, error) {
	return tn.Users().FindUserByID(ctx, userID)
}

// GetUserByPhone retrieves a user by phone number.
func (s *UserService) GetUserByPhone(ctx context.Context, tn portsrepo.Tenant, phoneNumber string) (*domain.User, error) {
	return tn.Users().FindUserByPhone(ctx, phoneNumber)
}
