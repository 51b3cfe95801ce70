package services

import (
	portsrepo "github.com/retailcore/pos_accounting/internal/core/ports/repositories"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.AccountSvc = NewAccountService(repos.AccountRepo)
	container.JournalSvc = NewJournalService(repos.JournalRepo, repos.AccountRepo)
	container.RecurringSvc = NewRecurringService(repos.RecurringRepo, repos.AccountRepo)
	container.ReportingSvc = NewReportingService(repos.ReportingRepo, repos.AccountRepo)
	container.BankSvc = NewBankService(repos.BankRepo, repos.AccountRepo, repos.ReportingRepo)

	return container
}
