package services

import (
	"context"

	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// StatementSvcFacade is the read-only reporting surface over the transaction
// trail.
type StatementSvcFacade interface {
	// GetAccountStatement returns a page of trail entries touching the
	// account, newest first.
	GetAccountStatement(ctx context.Context, tn repositories.Tenant, accountID string, params dto.StatementParams) (*dto.StatementResponse, error)
}
