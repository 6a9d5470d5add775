package services

// ServiceContainer bundles the service facades for injection into handlers.
type ServiceContainer struct {
	User   UserSvcFacade
	Ledger LedgerSvcFacade
}
