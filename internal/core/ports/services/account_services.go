package services

import (
	"context"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// AccountSvcFacade manages typed account provisioning and KYC status
// transitions within one tenant.
type AccountSvcFacade interface {
	// CreatePersonalAccount provisions an ACTIVE personal account for an
	// existing user (back-office path).
	CreatePersonalAccount(ctx context.Context, tn repositories.Tenant, req dto.CreatePersonalAccountRequest) (*domain.Account, error)

	// CreateBusinessAccount provisions a merchant account with a generated
	// 6-digit merchant code.
	CreateBusinessAccount(ctx context.Context, tn repositories.Tenant, req dto.CreateBusinessAccountRequest) (*domain.Account, error)

	// CreateAgencyAccount provisions an agency account with its commission
	// split percentages.
	CreateAgencyAccount(ctx context.Context, tn repositories.Tenant, req dto.CreateAgencyAccountRequest) (*domain.Account, error)

	// CreateInternalAccount provisions a bank-owned account for a purpose.
	// At most one commission account may exist per tenant.
	CreateInternalAccount(ctx context.Context, tn repositories.Tenant, req dto.CreateInternalAccountRequest) (*domain.Account, error)

	// GetAccount retrieves one account by ID.
	GetAccount(ctx context.Context, tn repositories.Tenant, accountID string) (*domain.Account, error)

	// ValidateAccount moves a PENDING account to ACTIVE. Validating an
	// already-active account is a no-op reported via Changed=false.
	ValidateAccount(ctx context.Context, tn repositories.Tenant, accountID string) (*dto.AccountStatusResponse, error)

	// BlockAccount moves an account to BLOCKED.
	BlockAccount(ctx context.Context, tn repositories.Tenant, accountID string) (*dto.AccountStatusResponse, error)

	// UnblockAccount moves a BLOCKED account back to ACTIVE.
	UnblockAccount(ctx context.Context, tn repositories.Tenant, accountID string) (*dto.AccountStatusResponse, error)
}
