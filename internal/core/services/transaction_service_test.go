package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sidibemd/mobile_money_app/internal/apperrors"
	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	"github.com/sidibemd/mobile_money_app/internal/core/services"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	tenant  *mockTenant
	service *services.TransactionService
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.tenant = newMockTenant("BNK1")
	feeSvc := services.NewFeeService()
	suite.service = services.NewTransactionService(feeSvc, services.NewPreTransactionService(feeSvc))
}

// registerParty wires phone -> user -> account resolution on the mocks and
// returns the account.
func (suite *TransactionServiceTestSuite) registerParty(phone string, accountType domain.AccountType, balance decimal.Decimal) *domain.Account {
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, PhoneNumber: phone}
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Type:      accountType,
		UserID:    &userID,
		Balance:   balance,
		Status:    domain.StatusActive,
	}
	suite.tenant.users.On("FindUserByPhone", mock.Anything, phone).Return(user, nil)
	suite.tenant.accounts.On("FindAccountByOwnerAndType", mock.Anything, userID, accountType).Return(account, nil)
	return account
}

func (suite *TransactionServiceTestSuite) registerCommission() *domain.Account {
	commission := &domain.Account{
		AccountID: uuid.NewString(),
		Type:      domain.Internal,
		Balance:   decimal.NewFromInt(10000),
		Status:    domain.StatusActive,
		Purpose:   domain.PurposeCommission,
	}
	suite.tenant.accounts.On("FindCommissionAccount", mock.Anything).Return(commission, nil)
	return commission
}

func (suite *TransactionServiceTestSuite) expectFeeBand(txnType domain.TransactionType, ceiling, fee int64) {
	suite.tenant.feeRules.On("ListFeeRulesByType", mock.Anything, txnType).Return([]domain.FeeRule{
		{RuleID: uuid.NewString(), TransactionType: txnType, MaxAmount: decimal.NewFromInt(ceiling), FeeAmount: decimal.NewFromInt(fee)},
	}, nil)
}

func (suite *TransactionServiceTestSuite) expectNoReservations(phone string) {
	suite.tenant.preTxns.On("SumActiveReservations", mock.Anything, phone, "", mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil)
}

// captureEntry stubs SaveEntry and returns a pointer that receives the
// applied ledger entry.
func (suite *TransactionServiceTestSuite) captureEntry(result error) *domain.LedgerEntry {
	captured := &domain.LedgerEntry{}
	suite.tenant.txns.On("SaveEntry", mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			*captured = args.Get(1).(domain.LedgerEntry)
		}).
		Return(result).Once()
	return captured
}

func changesSum(changes []domain.BalanceChange) decimal.Decimal {
	sum := decimal.Zero
	for _, change := range changes {
		sum = sum.Add(change.Delta)
	}
	return sum
}

func deltaFor(changes []domain.BalanceChange, accountID string) decimal.Decimal {
	total := decimal.Zero
	for _, change := range changes {
		if change.AccountID == accountID {
			total = total.Add(change.Delta)
		}
	}
	return total
}

func (suite *TransactionServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	sender := suite.registerParty("22211110000", domain.Personal, decimal.NewFromInt(500))
	recipient := suite.registerParty("22222220000", domain.Personal, decimal.NewFromInt(50))
	commission := suite.registerCommission()
	suite.expectFeeBand(domain.TypeTransfer, 500, 5)
	suite.expectNoReservations("22211110000")
	entry := suite.captureEntry(nil)

	res, err := suite.service.Transfer(ctx, suite.tenant, dto.TransferRequest{
		SourcePhone:      "22211110000",
		DestinationPhone: "22222220000",
		Amount:           decimal.NewFromInt(100),
	})

	suite.Require().NoError(err)
	suite.Equal(string(domain.StatusTxnSuccess), res.Status)
	suite.Require().NotNil(res.FeeAmount)
	suite.True(res.FeeAmount.Equal(decimal.NewFromInt(5)))

	// The sender is debited amount plus fee, and every unit lands somewhere.
	suite.True(deltaFor(entry.Changes, sender.AccountID).Equal(decimal.NewFromInt(-105)))
	suite.True(deltaFor(entry.Changes, recipient.AccountID).Equal(decimal.NewFromInt(100)))
	suite.True(deltaFor(entry.Changes, commission.AccountID).Equal(decimal.NewFromInt(5)))
	suite.True(changesSum(entry.Changes).IsZero(), "internal movement must sum to zero")

	suite.Len(entry.Transactions, 2, "principal plus fee leg")
	suite.Require().NotNil(entry.Fee)
	suite.True(entry.Fee.Amount.Equal(decimal.NewFromInt(5)))
	suite.Equal(entry.Transactions[0].TransactionID, entry.Fee.TransactionID)
	suite.Empty(entry.ConsumeReservationID)
}

func (suite *TransactionServiceTestSuite) TestTransfer_InsufficientAvailableBalance() {
	ctx := context.Background()
	suite.registerParty("22211110000", domain.Personal, decimal.NewFromInt(100))
	suite.registerParty("22222220000", domain.Personal, decimal.Zero)
	suite.expectFeeBand(domain.TypeTransfer, 500, 5)
	suite.expectNoReservations("22211110000")

	_, err := suite.service.Transfer(ctx, suite.tenant, dto.TransferRequest{
		SourcePhone:      "22211110000",
		DestinationPhone: "22222220000",
		Amount:           decimal.NewFromInt(100),
	})

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds, "balance covers the amount but not amount plus fee")
	suite.tenant.txns.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestTransfer_SelfTransferRejected() {
	ctx := context.Background()

	_, err := suite.service.Transfer(ctx, suite.tenant, dto.TransferRequest{
		SourcePhone:      "22211110000",
		DestinationPhone: "22211110000",
		Amount:           decimal.NewFromInt(100),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestTransfer_FeeDisabledAboveCeilings() {
	ctx := context.Background()
	suite.registerParty("22211110000", domain.Personal, decimal.NewFromInt(100000))
	suite.registerParty("22222220000", domain.Personal, decimal.Zero)
	suite.expectFeeBand(domain.TypeTransfer, 500, 5)

	_, err := suite.service.Transfer(ctx, suite.tenant, dto.TransferRequest{
		SourcePhone:      "22211110000",
		DestinationPhone: "22222220000",
		Amount:           decimal.NewFromInt(5000),
	})

	suite.ErrorIs(err, apperrors.ErrFeeDisabled)
	suite.tenant.txns.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestTransfer_BlockedSenderRejected() {
	ctx := context.Background()
	sender := suite.registerParty("22211110000", domain.Personal, decimal.NewFromInt(500))
	sender.Status = domain.StatusBlocked
	suite.registerParty("22222220000", domain.Personal, decimal.Zero)

	_, err := suite.service.Transfer(ctx, suite.tenant, dto.TransferRequest{
		SourcePhone:      "22211110000",
		DestinationPhone: "22222220000",
		Amount:           decimal.NewFromInt(100),
	})

	suite.ErrorIs(err, apperrors.ErrAccountInactive)
}

func (suite *TransactionServiceTestSuite) withdrawalReservation(phone string, amount, fee int64) *domain.PreTransaction {
	pt := &domain.PreTransaction{
		PreTransactionID: domain.NewPreTransactionID(time.Now()),
		Code:             "4321",
		ClientPhone:      phone,
		Amount:           decimal.NewFromInt(amount),
		FeeAmount:        decimal.NewFromInt(fee),
		CreatedAt:        time.Now().Add(-time.Minute),
	}
	suite.tenant.preTxns.On("FindByCode", mock.Anything, pt.Code).Return(pt, nil)
	suite.tenant.preTxns.On("SumActiveReservations", mock.Anything, phone, pt.PreTransactionID, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil)
	return pt
}

func (suite *TransactionServiceTestSuite) TestWithdraw_FeeSplitSumsExactly() {
	ctx := context.Background()
	client := suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(500))
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(1000))
	pct := decimal.NewFromInt(30)
	agency.WithdrawalPercentage = &pct
	commission := suite.registerCommission()
	pt := suite.withdrawalReservation("22233334444", 100, 5)
	entry := suite.captureEntry(nil)

	res, err := suite.service.Withdraw(ctx, suite.tenant, dto.WithdrawalRequest{
		ClientPhone: "22233334444",
		AgentPhone:  "22255556666",
		Amount:      decimal.NewFromInt(100),
		Code:        "4321",
	})

	suite.Require().NoError(err)
	suite.Equal(pt.PreTransactionID, entry.ConsumeReservationID, "redemption consumes the reservation atomically")

	// Fee 5 at 30%: agency keeps 1.50, the bank keeps 3.50.
	suite.True(deltaFor(entry.Changes, client.AccountID).Equal(decimal.NewFromInt(-105)))
	suite.True(deltaFor(entry.Changes, agency.AccountID).Equal(decimal.RequireFromString("101.5")))
	suite.True(deltaFor(entry.Changes, commission.AccountID).Equal(decimal.RequireFromString("3.5")))
	suite.True(changesSum(entry.Changes).IsZero())

	suite.Require().NotNil(entry.Fee)
	suite.True(entry.Fee.Amount.Equal(decimal.NewFromInt(5)), "fee record carries the full charge")
	suite.Require().NotNil(res.FeeAmount)
	suite.True(res.FeeAmount.Equal(decimal.NewFromInt(5)))
}

func (suite *TransactionServiceTestSuite) TestWithdraw_UsedCodeRejected() {
	ctx := context.Background()
	suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(500))
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(1000))
	pct := decimal.NewFromInt(30)
	agency.WithdrawalPercentage = &pct
	used := &domain.PreTransaction{
		PreTransactionID: "PT20230101000000001",
		Code:             "9999",
		ClientPhone:      "22233334444",
		Amount:           decimal.NewFromInt(100),
		IsUsed:           true,
		CreatedAt:        time.Now().Add(-time.Minute),
	}
	suite.tenant.preTxns.On("FindByCode", mock.Anything, "9999").Return(used, nil)

	_, err := suite.service.Withdraw(ctx, suite.tenant, dto.WithdrawalRequest{
		ClientPhone: "22233334444",
		AgentPhone:  "22255556666",
		Amount:      decimal.NewFromInt(100),
		Code:        "9999",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.tenant.txns.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestWithdraw_ConcurrentRedemptionLosesCleanly() {
	ctx := context.Background()
	suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(500))
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(1000))
	pct := decimal.NewFromInt(30)
	agency.WithdrawalPercentage = &pct
	suite.registerCommission()
	suite.withdrawalReservation("22233334444", 100, 5)

	// The store detects the reservation was consumed by a concurrent apply.
	suite.captureEntry(apperrors.ErrNotFound)
	suite.tenant.txns.On("RecordFailed", mock.Anything, mock.AnythingOfType("[]domain.Transaction")).Return(nil).Once()

	_, err := suite.service.Withdraw(ctx, suite.tenant, dto.WithdrawalRequest{
		ClientPhone: "22233334444",
		AgentPhone:  "22255556666",
		Amount:      decimal.NewFromInt(100),
		Code:        "4321",
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.tenant.txns.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestWithdraw_ApplyFailureLeavesEvidence() {
	ctx := context.Background()
	suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(500))
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(1000))
	pct := decimal.NewFromInt(30)
	agency.WithdrawalPercentage = &pct
	suite.registerCommission()
	suite.withdrawalReservation("22233334444", 100, 5)

	suite.captureEntry(errors.New("deadlock detected"))
	var recorded []domain.Transaction
	suite.tenant.txns.On("RecordFailed", mock.Anything, mock.AnythingOfType("[]domain.Transaction")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).([]domain.Transaction)
		}).
		Return(nil).Once()

	_, err := suite.service.Withdraw(ctx, suite.tenant, dto.WithdrawalRequest{
		ClientPhone: "22233334444",
		AgentPhone:  "22255556666",
		Amount:      decimal.NewFromInt(100),
		Code:        "4321",
	})

	suite.ErrorIs(err, apperrors.ErrOperationFailed)
	suite.Require().NotEmpty(recorded)
	for _, txn := range recorded {
		suite.Equal(domain.StatusTxnFailure, txn.Status, "evidence rows carry failure status")
	}
}

func (suite *TransactionServiceTestSuite) TestWithdrawMerchant_NoReservationGate() {
	ctx := context.Background()
	merchant := suite.registerParty("22277778888", domain.Business, decimal.NewFromInt(500))
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(1000))
	pct := decimal.NewFromInt(40)
	agency.WithdrawalPercentage = &pct
	commission := suite.registerCommission()
	suite.expectFeeBand(domain.TypeWithdrawal, 1000, 5)
	entry := suite.captureEntry(nil)

	res, err := suite.service.WithdrawMerchant(ctx, suite.tenant, dto.MerchantWithdrawalRequest{
		ClientPhone: "22277778888",
		AgentPhone:  "22255556666",
		Amount:      decimal.NewFromInt(200),
	})

	suite.Require().NoError(err)
	suite.Empty(entry.ConsumeReservationID, "merchant withdrawals skip the reservation ledger")
	suite.True(deltaFor(entry.Changes, merchant.AccountID).Equal(decimal.NewFromInt(-205)))
	suite.True(deltaFor(entry.Changes, agency.AccountID).Equal(decimal.NewFromInt(202)))
	suite.True(deltaFor(entry.Changes, commission.AccountID).Equal(decimal.NewFromInt(3)))
	suite.True(changesSum(entry.Changes).IsZero())
	suite.Require().NotNil(res.FeeAmount)
	suite.True(res.FeeAmount.Equal(decimal.NewFromInt(5)))
}

func (suite *TransactionServiceTestSuite) TestPayMerchant_FreeOfCharge() {
	ctx := context.Background()
	client := suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(300))
	merchant := suite.registerParty("22277778888", domain.Business, decimal.NewFromInt(50))
	suite.expectNoReservations("22233334444")
	entry := suite.captureEntry(nil)

	res, err := suite.service.PayMerchant(ctx, suite.tenant, dto.MerchantPaymentRequest{
		ClientPhone:   "22233334444",
		MerchantPhone: "22277778888",
		Amount:        decimal.NewFromInt(120),
	})

	suite.Require().NoError(err)
	suite.Nil(res.FeeAmount, "merchant payments carry no fee")
	suite.Nil(entry.Fee)
	suite.Len(entry.Transactions, 1)
	suite.True(deltaFor(entry.Changes, client.AccountID).Equal(decimal.NewFromInt(-120)))
	suite.True(deltaFor(entry.Changes, merchant.AccountID).Equal(decimal.NewFromInt(120)))
	suite.True(changesSum(entry.Changes).IsZero())
	// No fee schedule consulted at all.
	suite.tenant.feeRules.AssertNotCalled(suite.T(), "ListFeeRulesByType", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeposit_CommissionPayout() {
	ctx := context.Background()
	client := suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(10))
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(1000))
	pct := decimal.NewFromInt(40)
	agency.DepositPercentage = &pct
	commission := suite.registerCommission()
	suite.expectFeeBand(domain.TypeDeposit, 1000, 5)
	entry := suite.captureEntry(nil)

	res, err := suite.service.Deposit(ctx, suite.tenant, dto.DepositRequest{
		ClientPhone: "22233334444",
		AgencyPhone: "22255556666",
		Amount:      decimal.NewFromInt(100),
	})

	suite.Require().NoError(err)
	suite.Nil(res.FeeAmount, "the client pays nothing on deposit")

	// Client receives the full amount; the bank pays the agency 40% of the
	// deposit fee out of the commission account.
	suite.True(deltaFor(entry.Changes, client.AccountID).Equal(decimal.NewFromInt(100)))
	suite.True(deltaFor(entry.Changes, agency.AccountID).Equal(decimal.NewFromInt(-98)), "-100 float +2 commission")
	suite.True(deltaFor(entry.Changes, commission.AccountID).Equal(decimal.NewFromInt(-2)))
	suite.True(changesSum(entry.Changes).IsZero())

	suite.Len(entry.Transactions, 2)
	payout := entry.Transactions[1]
	suite.Equal(domain.TypePaiement, payout.Type)
	suite.Equal(commission.AccountID, payout.Source.AccountID)
	suite.Equal(agency.AccountID, payout.Destination.AccountID)
}

func (suite *TransactionServiceTestSuite) TestDeposit_NoSplitAgencySkipsFeeSchedule() {
	ctx := context.Background()
	client := suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(10))
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(1000))
	entry := suite.captureEntry(nil)

	// No deposit fee rules configured anywhere; the deposit must still go
	// through because this agency has no commission split.
	res, err := suite.service.Deposit(ctx, suite.tenant, dto.DepositRequest{
		ClientPhone: "22233334444",
		AgencyPhone: "22255556666",
		Amount:      decimal.NewFromInt(1000),
	})

	suite.Require().NoError(err)
	suite.Nil(res.FeeAmount)
	suite.tenant.feeRules.AssertNotCalled(suite.T(), "ListFeeRulesByType", mock.Anything, mock.Anything)
	suite.tenant.accounts.AssertNotCalled(suite.T(), "FindCommissionAccount", mock.Anything)

	suite.Len(entry.Transactions, 1)
	suite.True(deltaFor(entry.Changes, client.AccountID).Equal(decimal.NewFromInt(1000)))
	suite.True(deltaFor(entry.Changes, agency.AccountID).Equal(decimal.NewFromInt(-1000)))
	suite.True(changesSum(entry.Changes).IsZero())
}

func (suite *TransactionServiceTestSuite) TestDeposit_CommissionPoolTooLow() {
	ctx := context.Background()
	suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(10))
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(1000))
	pct := decimal.NewFromInt(40)
	agency.DepositPercentage = &pct
	suite.expectFeeBand(domain.TypeDeposit, 1000, 5)

	// Payout would be 2; the pool holds 1, so validation rejects the deposit
	// before anything is applied.
	commission := &domain.Account{
		AccountID: uuid.NewString(),
		Type:      domain.Internal,
		Balance:   decimal.NewFromInt(1),
		Status:    domain.StatusActive,
		Purpose:   domain.PurposeCommission,
	}
	suite.tenant.accounts.On("FindCommissionAccount", mock.Anything).Return(commission, nil)

	_, err := suite.service.Deposit(ctx, suite.tenant, dto.DepositRequest{
		ClientPhone: "22233334444",
		AgencyPhone: "22255556666",
		Amount:      decimal.NewFromInt(100),
	})

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.tenant.txns.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
	suite.tenant.txns.AssertNotCalled(suite.T(), "RecordFailed", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeposit_AgencyFloatTooLow() {
	ctx := context.Background()
	suite.registerParty("22233334444", domain.Personal, decimal.NewFromInt(10))
	suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(50))

	_, err := suite.service.Deposit(ctx, suite.tenant, dto.DepositRequest{
		ClientPhone: "22233334444",
		AgencyPhone: "22255556666",
		Amount:      decimal.NewFromInt(100),
	})

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.tenant.txns.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRechargeAgency_ExternalSource() {
	ctx := context.Background()
	agency := suite.registerParty("22255556666", domain.Agency, decimal.NewFromInt(100))
	entry := suite.captureEntry(nil)

	res, err := suite.service.RechargeAgency(ctx, suite.tenant, dto.RechargeRequest{
		AgencyPhone: "22255556666",
		Amount:      decimal.NewFromInt(150),
	})

	suite.Require().NoError(err)
	suite.Nil(res.Source, "external cash has no source account")
	suite.Len(entry.Transactions, 1)
	suite.Nil(entry.Transactions[0].Source)
	suite.True(deltaFor(entry.Changes, agency.AccountID).Equal(decimal.NewFromInt(150)))
	suite.True(changesSum(entry.Changes).Equal(decimal.NewFromInt(150)), "recharge is the only operation injecting money")
}

func (suite *TransactionServiceTestSuite) TestRejectsNonPositiveAmounts() {
	ctx := context.Background()

	_, err := suite.service.Transfer(ctx, suite.tenant, dto.TransferRequest{
		SourcePhone:      "22211110000",
		DestinationPhone: "22222220000",
		Amount:           decimal.Zero,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Deposit(ctx, suite.tenant, dto.DepositRequest{
		ClientPhone: "22233334444",
		AgencyPhone: "22255556666",
		Amount:      decimal.NewFromInt(-5),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
