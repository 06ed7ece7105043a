package repositories

import (
	"context"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
)

// UserRepository provides access to the tenant's user directory.
type UserRepository interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by primary key.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByPhone retrieves a user by phone number, the public identifier
	// every ledger operation resolves accounts through.
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)
}
