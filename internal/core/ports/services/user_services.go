package services

import (
	"context"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// UserSvcFacade manages the tenant user directory.
type UserSvcFacade interface {
	// RegisterUser creates a user and their PENDING personal account in one
	// step. The account needs operator validation before it can transact.
	RegisterUser(ctx context.Context, tn repositories.Tenant, req dto.RegisterUserRequest) (*dto.RegisterUserResponse, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, tn repositories.Tenant, userID string) (*domain.User, error)

	// GetUserByPhone retrieves a user by phone number.
	GetUserByPhone(ctx context.Context, tn repositories.Tenant, phoneNumber string) (*domain.User, error)
}
