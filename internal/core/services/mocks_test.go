package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
)

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByOwnerAndType(ctx context.Context, userID string, accountType domain.AccountType) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindCommissionAccount(ctx context.Context) (*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balances map[string]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, balances, now)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTransactionRepository) RecordFailed(ctx context.Context, transactions []domain.Transaction) error {
	args := m.Called(ctx, transactions)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, from, to time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, from, to, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

// MockFeeRuleRepository is a mock type for the FeeRuleRepository interface
type MockFeeRuleRepository struct {
	mock.Mock
}

func (m *MockFeeRuleRepository) SaveFeeRule(ctx context.Context, rule domain.FeeRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockFeeRuleRepository) ListFeeRulesByType(ctx context.Context, transactionType domain.TransactionType) ([]domain.FeeRule, error) {
	args := m.Called(ctx, transactionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeRule), args.Error(1)
}

func (m *MockFeeRuleRepository) ListFeeRules(ctx context.Context) ([]domain.FeeRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeRule), args.Error(1)
}

// MockPreTransactionRepository is a mock type for the
// PreTransactionRepositoryFacade interface
type MockPreTransactionRepository struct {
	mock.Mock
}

func (m *MockPreTransactionRepository) SavePreTransaction(ctx context.Context, pt domain.PreTransaction) error {
	args := m.Called(ctx, pt)
	return args.Error(0)
}

func (m *MockPreTransactionRepository) FindByCode(ctx context.Context, code string) (*domain.PreTransaction, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreTransaction), args.Error(1)
}

func (m *MockPreTransactionRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPreTransactionRepository) SumActiveReservations(ctx context.Context, clientPhone string, excludeID string, activeSince time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, clientPhone, excludeID, activeSince)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPreTransactionRepository) DeleteByCode(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockPreTransactionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPreTransactionRepository) MarkUsedInTx(ctx context.Context, tx pgx.Tx, preTransactionID string) error {
	args := m.Called(ctx, tx, preTransactionID)
	return args.Error(0)
}

// mockTenant bundles the repository mocks behind the Tenant handle the
// services expect.
type mockTenant struct {
	bankCode string
	users    *MockUserRepository
	accounts *MockAccountRepository
	txns     *MockTransactionRepository
	feeRules *MockFeeRuleRepository
	preTxns  *MockPreTransactionRepository
}

func newMockTenant(bankCode string) *mockTenant {
	return &mockTenant{
		bankCode: bankCode,
		users:    new(MockUserRepository),
		accounts: new(MockAccountRepository),
		txns:     new(MockTransactionRepository),
		feeRules: new(MockFeeRuleRepository),
		preTxns:  new(MockPreTransactionRepository),
	}
}

func (t *mockTenant) BankCode() string { return t.bankCode }

func (t *mockTenant) Users() repositories.UserRepository { return t.users }

func (t *mockTenant) Accounts() repositories.AccountRepositoryFacade { return t.accounts }

func (t *mockTenant) Transactions() repositories.TransactionRepository { return t.txns }

func (t *mockTenant) FeeRules() repositories.FeeRuleRepository { return t.feeRules }

func (t *mockTenant) PreTransactions() repositories.PreTransactionRepositoryFacade { return t.preTxns }
