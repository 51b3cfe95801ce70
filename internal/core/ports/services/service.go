package services

// ServiceContainer bundles every service facade for handler wiring.
type ServiceContainer struct {
	AccountSvc   AccountSvcFacade
	JournalSvc   JournalSvcFacade
	RecurringSvc RecurringSvcFacade
	BankSvc      BankSvcFacade
	ReportingSvc ReportingSvc
}
