package pgsql

import (
	portsrepo "github.com/retailcore/pos_accounting/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	recurringRepo := newPgxRecurringRepository(dbPool)
	bankRepo := newPgxBankRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		JournalRepo:   journalRepo,
		RecurringRepo: recurringRepo,
		BankRepo:      bankRepo,
		ReportingRepo: reportingRepo,
	}
}
