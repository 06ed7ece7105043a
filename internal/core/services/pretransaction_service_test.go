package services_test

import (
	"context"
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

type PreTransactionServiceTestSuite struct {
	suite.Suite
	tenant  *mockTenant
	service *services.PreTransactionService
}

func (suite *PreTransactionServiceTestSuite) SetupTest() {
	suite.tenant = newMockTenant("BNK1")
	suite.service = services.NewPreTransactionService(services.NewFeeService())
}

const clientPhone = "22233334444"

func (suite *PreTransactionServiceTestSuite) expectClientAccount(balance decimal.Decimal) {
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, PhoneNumber: clientPhone}
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Type:      domain.Personal,
		UserID:    &userID,
		Balance:   balance,
		Status:    domain.StatusActive,
	}
	suite.tenant.users.On("FindUserByPhone", mock.Anything, clientPhone).Return(user, nil)
	suite.tenant.accounts.On("FindAccountByOwnerAndType", mock.Anything, userID, domain.Personal).Return(account, nil)
}

func withdrawalBands() []domain.FeeRule {
	return []domain.FeeRule{
		{RuleID: "w1", TransactionType: domain.TypeWithdrawal, MaxAmount: decimal.NewFromInt(1000), FeeAmount: decimal.NewFromInt(5)},
	}
}

func (suite *PreTransactionServiceTestSuite) TestCreate_SnapshotsFee() {
	ctx := context.Background()
	suite.expectClientAccount(decimal.NewFromInt(500))
	suite.tenant.feeRules.On("ListFeeRulesByType", ctx, domain.TypeWithdrawal).Return(withdrawalBands(), nil)
	suite.tenant.preTxns.On("SumActiveReservations", ctx, clientPhone, "", mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil)
	suite.tenant.preTxns.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	suite.tenant.preTxns.On("SavePreTransaction", ctx, mock.AnythingOfType("domain.PreTransaction")).Return(nil).Once()

	res, err := suite.service.CreatePreTransaction(ctx, suite.tenant, dto.CreatePreTransactionRequest{
		ClientPhone: clientPhone,
		Amount:      decimal.NewFromInt(100),
	})

	suite.Require().NoError(err)
	suite.Len(res.Code, 4)
	suite.True(res.FeeAmount.Equal(decimal.NewFromInt(5)), "fee is captured at creation time")
	suite.Regexp(`^PT\d{17}$`, res.PreTransactionID)

	saved := suite.tenant.preTxns.Calls[len(suite.tenant.preTxns.Calls)-1].Arguments.Get(1).(domain.PreTransaction)
	suite.False(saved.IsUsed)
	suite.True(saved.ReservedTotal().Equal(decimal.NewFromInt(105)))
}

func (suite *PreTransactionServiceTestSuite) TestCreate_ActiveReservationsShrinkAvailable() {
	ctx := context.Background()
	suite.expectClientAccount(decimal.NewFromInt(200))
	suite.tenant.feeRules.On("ListFeeRulesByType", ctx, domain.TypeWithdrawal).Return(withdrawalBands(), nil)
	// 150 already held by another active reservation: only 50 remains, which
	// cannot cover 100 + 5.
	suite.tenant.preTxns.On("SumActiveReservations", ctx, clientPhone, "", mock.AnythingOfType("time.Time")).Return(decimal.NewFromInt(150), nil)

	_, err := suite.service.CreatePreTransaction(ctx, suite.tenant, dto.CreatePreTransactionRequest{
		ClientPhone: clientPhone,
		Amount:      decimal.NewFromInt(100),
	})

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.tenant.preTxns.AssertNotCalled(suite.T(), "SavePreTransaction", mock.Anything, mock.Anything)
}

func (suite *PreTransactionServiceTestSuite) TestCreate_InactiveAccount() {
	ctx := context.Background()
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, PhoneNumber: clientPhone}
	pending := &domain.Account{AccountID: uuid.NewString(), Type: domain.Personal, UserID: &userID, Status: domain.StatusPending}
	suite.tenant.users.On("FindUserByPhone", ctx, clientPhone).Return(user, nil)
	suite.tenant.accounts.On("FindAccountByOwnerAndType", ctx, userID, domain.Personal).Return(pending, nil)

	_, err := suite.service.CreatePreTransaction(ctx, suite.tenant, dto.CreatePreTransactionRequest{
		ClientPhone: clientPhone,
		Amount:      decimal.NewFromInt(50),
	})

	suite.ErrorIs(err, apperrors.ErrAccountInactive)
}

func (suite *PreTransactionServiceTestSuite) TestRetrieve_ExpiredLooksAbsent() {
	ctx := context.Background()
	expired := &domain.PreTransaction{
		PreTransactionID: "PT20230101000000001",
		Code:             "1234",
		ClientPhone:      clientPhone,
		Amount:           decimal.NewFromInt(100),
		CreatedAt:        time.Now().Add(-10 * time.Minute),
	}
	suite.tenant.preTxns.On("FindByCode", ctx, "1234").Return(expired, nil).Once()

	_, err := suite.service.RetrievePreTransaction(ctx, suite.tenant, clientPhone, "1234")

	suite.ErrorIs(err, apperrors.ErrNotFound, "expired codes are indistinguishable from unknown ones")
}

func (suite *PreTransactionServiceTestSuite) TestVerifyForRedemption() {
	ctx := context.Background()
	now := time.Now()
	pt := &domain.PreTransaction{
		PreTransactionID: "PT20230101000000001",
		Code:             "4321",
		ClientPhone:      clientPhone,
		Amount:           decimal.NewFromInt(100),
		FeeAmount:        decimal.NewFromInt(5),
		CreatedAt:        now.Add(-time.Minute),
	}
	suite.tenant.preTxns.On("FindByCode", ctx, "4321").Return(pt, nil)

	// Happy path.
	got, err := suite.service.VerifyForRedemption(ctx, suite.tenant, "4321", clientPhone, decimal.NewFromInt(100), now)
	suite.Require().NoError(err)
	suite.Equal(pt.PreTransactionID, got.PreTransactionID)

	// Wrong client.
	_, err = suite.service.VerifyForRedemption(ctx, suite.tenant, "4321", "22299998888", decimal.NewFromInt(100), now)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// Wrong amount.
	_, err = suite.service.VerifyForRedemption(ctx, suite.tenant, "4321", clientPhone, decimal.NewFromInt(90), now)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// Past the window.
	_, err = suite.service.VerifyForRedemption(ctx, suite.tenant, "4321", clientPhone, decimal.NewFromInt(100), now.Add(domain.PreTransactionTTL))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PreTransactionServiceTestSuite) TestVerifyForRedemption_ConsumedCode() {
	ctx := context.Background()
	now := time.Now()
	used := &domain.PreTransaction{
		PreTransactionID: "PT20230101000000002",
		Code:             "7777",
		ClientPhone:      clientPhone,
		Amount:           decimal.NewFromInt(100),
		IsUsed:           true,
		CreatedAt:        now.Add(-time.Minute),
	}
	suite.tenant.preTxns.On("FindByCode", ctx, "7777").Return(used, nil).Once()

	_, err := suite.service.VerifyForRedemption(ctx, suite.tenant, "7777", clientPhone, decimal.NewFromInt(100), now)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PreTransactionServiceTestSuite) TestCancel_RedeemedReservation() {
	ctx := context.Background()
	used := &domain.PreTransaction{PreTransactionID: "PT1", Code: "5555", IsUsed: true}
	suite.tenant.preTxns.On("FindByCode", ctx, "5555").Return(used, nil).Once()

	err := suite.service.CancelPreTransaction(ctx, suite.tenant, "5555")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.tenant.preTxns.AssertNotCalled(suite.T(), "DeleteByCode", mock.Anything, mock.Anything)
}

func (suite *PreTransactionServiceTestSuite) TestCancel_Success() {
	ctx := context.Background()
	pt := &domain.PreTransaction{PreTransactionID: "PT1", Code: "5555"}
	suite.tenant.preTxns.On("FindByCode", ctx, "5555").Return(pt, nil).Once()
	suite.tenant.preTxns.On("DeleteByCode", ctx, "5555").Return(nil).Once()

	err := suite.service.CancelPreTransaction(ctx, suite.tenant, "5555")

	suite.Require().NoError(err)
	suite.tenant.preTxns.AssertExpectations(suite.T())
}

func (suite *PreTransactionServiceTestSuite) TestPurgeExpired() {
	ctx := context.Background()
	suite.tenant.preTxns.On("DeleteExpired", ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()

	removed, err := suite.service.PurgeExpired(ctx, suite.tenant)

	suite.Require().NoError(err)
	suite.Equal(int64(3), removed)
}

func TestPreTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PreTransactionServiceTestSuite))
}
