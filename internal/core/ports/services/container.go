package services

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	User           UserSvcFacade
	Account        AccountSvcFacade
	Transaction    TransactionSvcFacade
	PreTransaction PreTransactionSvcFacade
	Fee            FeeSvcFacade
	Statement      StatementSvcFacade
}
