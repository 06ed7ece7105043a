package services

import (
	"context"

	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// TransactionSvcFacade is the money movement engine. Every operation runs
// validate, compute, apply: party resolution and balance checks first, then
// derived fee splits, then one atomic ledger entry.
type TransactionSvcFacade interface {
	// Transfer moves money between two personal accounts and charges the
	// sender the scheduled transfer fee.
	Transfer(ctx context.Context, tn repositories.Tenant, req dto.TransferRequest) (*dto.TransactionResponse, error)

	// Withdraw redeems a reservation code for an agent-assisted cash-out.
	// The withdrawal fee is split between the agent's agency and the bank
	// commission account.
	Withdraw(ctx context.Context, tn repositories.Tenant, req dto.WithdrawalRequest) (*dto.TransactionResponse, error)

	// WithdrawMerchant cashes out a business account without a reservation
	// gate, with the same fee split as Withdraw.
	WithdrawMerchant(ctx context.Context, tn repositories.Tenant, req dto.MerchantWithdrawalRequest) (*dto.TransactionResponse, error)

	// PayMerchant pays a merchant from a personal account. Free of charge.
	PayMerchant(ctx context.Context, tn repositories.Tenant, req dto.MerchantPaymentRequest) (*dto.TransactionResponse, error)

	// Deposit is an agency cash-in to a personal account. The client receives
	// the full amount; the bank pays the agency its deposit commission from
	// the commission account.
	Deposit(ctx context.Context, tn repositories.Tenant, req dto.DepositRequest) (*dto.TransactionResponse, error)

	// RechargeAgency injects external cash into an agency account. The
	// recorded transaction has no source account.
	RechargeAgency(ctx context.Context, tn repositories.Tenant, req dto.RechargeRequest) (*dto.TransactionResponse, error)
}
