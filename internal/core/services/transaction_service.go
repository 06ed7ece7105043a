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

// TransactionService is the money movement engine. Every operation follows
// the same shape: resolve and validate the parties, compute the fee split,
// then hand one ledger entry to the store for an all-or-nothing apply. The
// store re-checks balances under row locks, so the pre-checks here only give
// callers early, precise errors.
type TransactionService struct {
	feeSvc    *FeeService
	preTxnSvc *PreTransactionService
}

func NewTransactionService(feeSvc *FeeService, preTxnSvc *PreTransactionService) *TransactionService {
	return &TransactionService{feeSvc: feeSvc, preTxnSvc: preTxnSvc}
}

// Transfer moves money between two personal accounts. The sender pays the
// scheduled transfer fee, credited to the bank commission account.
func (s *TransactionService) Transfer(ctx context.Context, tn portsrepo.Tenant, req dto.TransferRequest) (*dto.TransactionResponse, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}
	if req.SourcePhone == req.DestinationPhone {
		return nil, fmt.Errorf("cannot transfer to the same account: %w", apperrors.ErrValidation)
	}

	source, err := s.accountByPhone(ctx, tn, req.SourcePhone, domain.Personal, "sender")
	if err != nil {
		return nil, err
	}
	destination, err := s.accountByPhone(ctx, tn, req.DestinationPhone, domain.Personal, "recipient")
	if err != nil {
		return nil, err
	}
	if !source.IsActive() {
		return nil, fmt.Errorf("sender account is not active: %w", apperrors.ErrAccountInactive)
	}
	if !destination.IsActive() {
		return nil, fmt.Errorf("recipient account is not active: %w", apperrors.ErrAccountInactive)
	}

	fee, err := s.feeSvc.Lookup(ctx, tn, domain.TypeTransfer, req.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	available, err := s.preTxnSvc.AvailableBalance(ctx, tn, source, req.SourcePhone, "", now)
	if err != nil {
		return nil, err
	}
	total := req.Amount.Add(fee)
	if available.LessThan(total) {
		return nil, fmt.Errorf("sender available balance %s cannot cover %s: %w",
			available.String(), total.String(), apperrors.ErrInsufficientFunds)
	}

	commission, err := s.commissionAccount(ctx, tn)
	if err != nil {
		return nil, err
	}

	principal := newTransaction(now, domain.TypeTransfer, req.Amount, source.Ref(), destination.Ref())
	entry := domain.LedgerEntry{
		Transactions: []domain.Transaction{principal},
		Changes: []domain.BalanceChange{
			{AccountID: source.AccountID, Delta: total.Neg()},
			{AccountID: destination.AccountID, Delta: req.Amount},
		},
	}
	if fee.IsPositive() {
		feeTxn := newTransaction(now, domain.TypePaiement, fee, source.Ref(), commission.Ref())
		entry.Transactions = append(entry.Transactions, feeTxn)
		entry.Changes = append(entry.Changes, domain.BalanceChange{AccountID: commission.AccountID, Delta: fee})
		entry.Fee = newFeeRecord(principal.TransactionID, fee, now)
	}

	return s.apply(ctx, tn, "transfer", entry, &principal, &fee)
}

// Withdraw redeems a reservation code for an agent-assisted cash-out. The
// client is debited amount plus the fee snapshotted on the reservation; the
// agency keeps its share of the fee and the rest goes to the bank.
func (s *TransactionService) Withdraw(ctx context.Context, tn portsrepo.Tenant, req dto.WithdrawalRequest) (*dto.TransactionResponse, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	client, err := s.accountByPhone(ctx, tn, req.ClientPhone, domain.Personal, "client")
	if err != nil {
		return nil, err
	}
	agency, err := s.accountByPhone(ctx, tn, req.AgentPhone, domain.Agency, "agent")
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, fmt.Errorf("client account is not active: %w", apperrors.ErrAccountInactive)
	}
	if !agency.IsActive() {
		return nil, fmt.Errorf("agency account is not active: %w", apperrors.ErrAccountInactive)
	}

	now := time.Now()
	pt, err := s.preTxnSvc.VerifyForRedemption(ctx, tn, req.Code, req.ClientPhone, req.Amount, now)
	if err != nil {
		return nil, err
	}
	// The fee was snapshotted on the reservation at creation; fee rule edits
	// between reservation and redemption never change what the client owes.
	// Current pricing is available through the fee quote endpoint.
	fee := pt.FeeAmount

	// The reservation itself funds this withdrawal, so it is excluded from
	// the held total.
	available, err := s.preTxnSvc.AvailableBalance(ctx, tn, client, req.ClientPhone, pt.PreTransactionID, now)
	if err != nil {
		return nil, err
	}
	total := req.Amount.Add(fee)
	if available.LessThan(total) {
		return nil, fmt.Errorf("client available balance %s cannot cover %s: %w",
			available.String(), total.String(), apperrors.ErrInsufficientFunds)
	}

	entry, principal, err := s.buildWithdrawalEntry(ctx, tn, now, client, agency, req.Amount, fee)
	if err != nil {
		return nil, err
	}
	entry.ConsumeReservationID = pt.PreTransactionID

	return s.apply(ctx, tn, "withdrawal", *entry, principal, &fee)
}

// WithdrawMerchant cashes out a business account through an agency without a
// reservation gate.
func (s *TransactionService) WithdrawMerchant(ctx context.Context, tn portsrepo.Tenant, req dto.MerchantWithdrawalRequest) (*dto.TransactionResponse, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	merchant, err := s.accountByPhone(ctx, tn, req.ClientPhone, domain.Business, "merchant")
	if err != nil {
		return nil, err
	}
	agency, err := s.accountByPhone(ctx, tn, req.AgentPhone, domain.Agency, "agent")
	if err != nil {
		return nil, err
	}
	if !merchant.IsActive() {
		return nil, fmt.Errorf("merchant account is not active: %w", apperrors.ErrAccountInactive)
	}
	if !agency.IsActive() {
		return nil, fmt.Errorf("agency account is not active: %w", apperrors.ErrAccountInactive)
	}

	fee, err := s.feeSvc.Lookup(ctx, tn, domain.TypeWithdrawal, req.Amount)
	if err != nil {
		return nil, err
	}

	total := req.Amount.Add(fee)
	if merchant.Balance.LessThan(total) {
		return nil, fmt.Errorf("merchant balance %s cannot cover %s: %w",
			merchant.Balance.String(), total.String(), apperrors.ErrInsufficientFunds)
	}

	now := time.Now()
	entry, principal, err := s.buildWithdrawalEntry(ctx, tn, now, merchant, agency, req.Amount, fee)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, tn, "merchant withdrawal", *entry, principal, &fee)
}

// PayMerchant pays a merchant from a personal account. Free of charge: the
// merchant receives the full amount.
func (s *TransactionService) PayMerchant(ctx context.Context, tn portsrepo.Tenant, req dto.MerchantPaymentRequest) (*dto.TransactionResponse, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	client, err := s.accountByPhone(ctx, tn, req.ClientPhone, domain.Personal, "client")
	if err != nil {
		return nil, err
	}
	merchant, err := s.accountByPhone(ctx, tn, req.MerchantPhone, domain.Business, "merchant")
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, fmt.Errorf("client account is not active: %w", apperrors.ErrAccountInactive)
	}
	if !merchant.IsActive() {
		return nil, fmt.Errorf("merchant account is not active: %w", apperrors.ErrAccountInactive)
	}

	now := time.Now()
	available, err := s.preTxnSvc.AvailableBalance(ctx, tn, client, req.ClientPhone, "", now)
	if err != nil {
		return nil, err
	}
	if available.LessThan(req.Amount) {
		return nil, fmt.Errorf("client available balance %s cannot cover %s: %w",
			available.String(), req.Amount.String(), apperrors.ErrInsufficientFunds)
	}

	principal := newTransaction(now, domain.TypePaiement, req.Amount, client.Ref(), merchant.Ref())
	entry := domain.LedgerEntry{
		Transactions: []domain.Transaction{principal},
		Changes: []domain.BalanceChange{
			{AccountID: client.AccountID, Delta: req.Amount.Neg()},
			{AccountID: merchant.AccountID, Delta: req.Amount},
		},
	}

	return s.apply(ctx, tn, "merchant payment", entry, &principal, nil)
}

// Deposit is an agency cash-in: the client receives the full amount from the
// agency's float, and the bank pays the agency its deposit commission out of
// the commission account.
func (s *TransactionService) Deposit(ctx context.Context, tn portsrepo.Tenant, req dto.DepositRequest) (*dto.TransactionResponse, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	client, err := s.accountByPhone(ctx, tn, req.ClientPhone, domain.Personal, "client")
	if err != nil {
		return nil, err
	}
	agency, err := s.accountByPhone(ctx, tn, req.AgencyPhone, domain.Agency, "agency")
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, fmt.Errorf("client account is not active: %w", apperrors.ErrAccountInactive)
	}
	if !agency.IsActive() {
		return nil, fmt.Errorf("agency account is not active: %w", apperrors.ErrAccountInactive)
	}

	if agency.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("agency balance %s cannot cover deposit of %s: %w",
			agency.Balance.String(), req.Amount.String(), apperrors.ErrInsufficientFunds)
	}

	now := time.Now()
	principal := newTransaction(now, domain.TypeDeposit, req.Amount, agency.Ref(), client.Ref())
	entry := domain.LedgerEntry{
		Transactions: []domain.Transaction{principal},
		Changes: []domain.BalanceChange{
			{AccountID: agency.AccountID, Delta: req.Amount.Neg()},
			{AccountID: client.AccountID, Delta: req.Amount},
		},
	}

	// The deposit fee schedule only matters to agencies with a commission
	// split. An agency without one accepts deposits even when the tenant has
	// no deposit fee rules at all.
	if agency.DepositPercentage != nil {
		fee, err := s.feeSvc.Lookup(ctx, tn, domain.TypeDeposit, req.Amount)
		if err != nil {
			return nil, err
		}
		if agencyCommission := commissionShare(fee, agency.DepositPercentage); agencyCommission.IsPositive() {
			commission, err := s.commissionAccount(ctx, tn)
			if err != nil {
				return nil, err
			}
			if commission.Balance.LessThan(agencyCommission) {
				return nil, fmt.Errorf("commission balance %s cannot cover agency payout of %s: %w",
					commission.Balance.String(), agencyCommission.String(), apperrors.ErrInsufficientFunds)
			}
			payout := newTransaction(now, domain.TypePaiement, agencyCommission, commission.Ref(), agency.Ref())
			entry.Transactions = append(entry.Transactions, payout)
			entry.Changes = append(entry.Changes,
				domain.BalanceChange{AccountID: commission.AccountID, Delta: agencyCommission.Neg()},
				domain.BalanceChange{AccountID: agency.AccountID, Delta: agencyCommission},
			)
		}
	}

	return s.apply(ctx, tn, "deposit", entry, &principal, nil)
}

// RechargeAgency injects external cash into an agency float. The recorded
// transaction has no source account.
func (s *TransactionService) RechargeAgency(ctx context.Context, tn portsrepo.Tenant, req dto.RechargeRequest) (*dto.TransactionResponse, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	agency, err := s.accountByPhone(ctx, tn, req.AgencyPhone, domain.Agency, "agency")
	if err != nil {
		return nil, err
	}
	if !agency.IsActive() {
		return nil, fmt.Errorf("agency account is not active: %w", apperrors.ErrAccountInactive)
	}

	now := time.Now()
	destination := agency.Ref()
	principal := domain.Transaction{
		TransactionID: domain.NewTransactionID(now),
		Type:          domain.TypeDeposit,
		Status:        domain.StatusTxnPending,
		Amount:        req.Amount,
		Source:        nil, // external cash, no source account
		Destination:   &destination,
		Date:          now,
	}
	entry := domain.LedgerEntry{
		Transactions: []domain.Transaction{principal},
		Changes: []domain.BalanceChange{
			{AccountID: agency.AccountID, Delta: req.Amount},
		},
	}

	return s.apply(ctx, tn, "agency recharge", entry, &principal, nil)
}

// buildWithdrawalEntry assembles the shared ledger entry of both withdrawal
// variants: source loses amount+fee, the agency gains amount plus its fee
// share, the bank keeps the remainder.
func (s *TransactionService) buildWithdrawalEntry(ctx context.Context, tn portsrepo.Tenant, now time.Time, source, agency *domain.Account, amount, fee decimal.Decimal) (*domain.LedgerEntry, *domain.Transaction, error) {
	agentFee := commissionShare(fee, agency.WithdrawalPercentage)
	bankFee := fee.Sub(agentFee)

	principal := newTransaction(now, domain.TypeWithdrawal, amount, source.Ref(), agency.Ref())
	entry := domain.LedgerEntry{
		Transactions: []domain.Transaction{principal},
		Changes: []domain.BalanceChange{
			{AccountID: source.AccountID, Delta: amount.Add(fee).Neg()},
			{AccountID: agency.AccountID, Delta: amount.Add(agentFee)},
		},
	}
	if agentFee.IsPositive() {
		entry.Transactions = append(entry.Transactions, newTransaction(now, domain.TypePaiement, agentFee, source.Ref(), agency.Ref()))
	}
	if bankFee.IsPositive() {
		commission, err := s.commissionAccount(ctx, tn)
		if err != nil {
			return nil, nil, err
		}
		entry.Transactions = append(entry.Transactions, newTransaction(now, domain.TypePaiement, bankFee, source.Ref(), commission.Ref()))
		entry.Changes = append(entry.Changes, domain.BalanceChange{AccountID: commission.AccountID, Delta: bankFee})
	}
	if fee.IsPositive() {
		entry.Fee = newFeeRecord(principal.TransactionID, fee, now)
	}
	return &entry, &principal, nil
}

// apply hands the entry to the store. On failure it records failure-status
// evidence rows before reporting the error.
func (s *TransactionService) apply(ctx context.Context, tn portsrepo.Tenant, operation string, entry domain.LedgerEntry, principal *domain.Transaction, fee *decimal.Decimal) (*dto.TransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := tn.Transactions().SaveEntry(ctx, entry); err != nil {
		s.recordFailure(ctx, tn, entry.Transactions)
		logger.Error("Operation failed to apply",
			slog.String("bank_code", tn.BankCode()),
			slog.String("operation", operation),
			slog.String("transaction_id", principal.TransactionID),
			slog.String("error", err.Error()))
		// Balance and reservation conflicts detected under lock keep their
		// precise cause; everything else is an apply failure.
		if errors.Is(err, apperrors.ErrInsufficientFunds) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s failed: %w", operation, err)
		}
		return nil, fmt.Errorf("%s failed: %v: %w", operation, err, apperrors.ErrOperationFailed)
	}

	principal.Status = domain.StatusTxnSuccess
	logger.Info("Operation applied",
		slog.String("bank_code", tn.BankCode()),
		slog.String("operation", operation),
		slog.String("transaction_id", principal.TransactionID),
		slog.String("amount", principal.Amount.String()))

	var feeOut *decimal.Decimal
	if fee != nil && fee.IsPositive() {
		feeOut = fee
	}
	return dto.ToTransactionResponse(principal, feeOut), nil
}

func (s *TransactionService) recordFailure(ctx context.Context, tn portsrepo.Tenant, txns []domain.Transaction) {
	failed := make([]domain.Transaction, len(txns))
	for i, txn := range txns {
		txn.Status = domain.StatusTxnFailure
		failed[i] = txn
	}
	if err := tn.Transactions().RecordFailed(ctx, failed); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record failure evidence",
			slog.String("bank_code", tn.BankCode()),
			slog.String("error", err.Error()))
	}
}

// accountByPhone resolves a party: phone number to user to the account of
// the requested type. The role only shapes the error message.
func (s *TransactionService) accountByPhone(ctx context.Context, tn portsrepo.Tenant, phone string, accountType domain.AccountType, role string) (*domain.Account, error) {
	user, err := tn.Users().FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s with phone %s not found: %w", role, phone, apperrors.ErrNotFound)
		}
		return nil, err
	}
	account, err := tn.Accounts().FindAccountByOwnerAndType(ctx, user.UserID, accountType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s has no %s account: %w", role, accountType, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return account, nil
}

func (s *TransactionService) commissionAccount(ctx context.Context, tn portsrepo.Tenant) (*domain.Account, error) {
	account, err := tn.Accounts().FindCommissionAccount(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("bank %s has no commission account: %w", tn.BankCode(), apperrors.ErrNotFound)
		}
		return nil, err
	}
	return account, nil
}

func newTransaction(now time.Time, txnType domain.TransactionType, amount decimal.Decimal, source, destination domain.AccountRef) domain.Transaction {
	return domain.Transaction{
		TransactionID: domain.NewTransactionID(now),
		Type:          txnType,
		Status:        domain.StatusTxnPending,
		Amount:        amount,
		Source:        &source,
		Destination:   &destination,
		Date:          now,
	}
}

func newFeeRecord(transactionID string, amount decimal.Decimal, now time.Time) *domain.Fee {
	return &domain.Fee{
		FeeID:         uuid.NewString(),
		TransactionID: transactionID,
		Amount:        amount,
		CreatedAt:     now,
	}
}

// commissionShare computes a percentage split of a fee, rounded to cents.
// The counterpart share is always fee minus this, so the split sums exactly.
func commissionShare(fee decimal.Decimal, percentage *decimal.Decimal) decimal.Decimal {
	if percentage == nil {
		return decimal.Zero
	}
	return fee.Mul(*percentage).Div(decimal.NewFromInt(100)).Round(2)
}

// requirePositive rejects zero and negative amounts before any lookups.
func requirePositive(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
	}
	return nil
}
