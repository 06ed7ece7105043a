package repositories

// Tenant is the explicit handle to one bank's isolated data set. It is
// resolved once per request (or supplied directly by callers in tests) and
// threaded as a parameter through every service operation; there is no
// ambient or global tenant state.
type Tenant interface {
	// BankCode identifies the tenant, mainly for logging and error messages.
	BankCode() string

	Users() UserRepository
	Accounts() AccountRepositoryFacade
	Transactions() TransactionRepository
	FeeRules() FeeRuleRepository
	PreTransactions() PreTransactionRepositoryFacade
}
