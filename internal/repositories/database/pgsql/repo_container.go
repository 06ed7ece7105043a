package pgsql

import (
	portsrepo "github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
)

// TenantRepositories bundles the repositories bound to one bank's database
// behind the Tenant handle. Every repository in the container shares the
// same pool, so nothing here can reach another bank's data.
type TenantRepositories struct {
	bankCode string
	users    portsrepo.UserRepository
	accounts portsrepo.AccountRepositoryFacade
	txns     portsrepo.TransactionRepository
	feeRules portsrepo.FeeRuleRepository
	preTxns  portsrepo.PreTransactionRepositoryFacade
}

// NewTenantRepositories wires the full repository set for one bank.
func NewTenantRepositories(bankCode string, pool Pool) *TenantRepositories {
	accounts := newPgxAccountRepository(pool)
	preTxns := newPgxPreTransactionRepository(pool)
	return &TenantRepositories{
		bankCode: bankCode,
		users:    newPgxUserRepository(pool),
		accounts: accounts,
		txns:     newPgxTransactionRepository(pool, accounts, preTxns),
		feeRules: newPgxFeeRuleRepository(pool),
		preTxns:  preTxns,
	}
}

var _ portsrepo.Tenant = (*TenantRepositories)(nil)

func (t *TenantRepositories) BankCode() string { return t.bankCode }

func (t *TenantRepositories) Users() portsrepo.UserRepository { return t.users }

func (t *TenantRepositories) Accounts() portsrepo.AccountRepositoryFacade { return t.accounts }

func (t *TenantRepositories) Transactions() portsrepo.TransactionRepository { return t.txns }

func (t *TenantRepositories) FeeRules() portsrepo.FeeRuleRepository { return t.feeRules }

func (t *TenantRepositories) PreTransactions() portsrepo.PreTransactionRepositoryFacade {
	return t.preTxns
}
