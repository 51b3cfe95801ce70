package repositories

import (
	"context"
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankAccountReader defines read operations for bank accounts
type BankAccountReader interface {
	// FindBankAccountByID retrieves a bank account by its ID.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all bank accounts.
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
}

// BankAccountWriter defines write operations for bank accounts
type BankAccountWriter interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
}

// BankTransactionReader defines read operations for statement transactions
type BankTransactionReader interface {
	// ListBankTransactions retrieves a page of a bank account's transactions,
	// optionally excluding already reconciled ones. The returned token, when
	// non-nil, fetches the next page.
	ListBankTransactions(ctx context.Context, bankAccountID string, unreconciledOnly bool, limit int, nextToken *string) ([]domain.BankTransaction, *string, error)

	// FindBankTransactionsByIDs retrieves transactions by ID. Missing IDs
	// yield apperrors.ErrNotFound.
	FindBankTransactionsByIDs(ctx context.Context, transactionIDs []string) ([]domain.BankTransaction, error)
}

// BankTransactionWriter defines write operations for statement transactions
type BankTransactionWriter interface {
	// RecordBankTransaction inserts the transaction and moves the bank
	// account's running balance inside one database transaction.
	RecordBankTransaction(ctx context.Context, txn domain.BankTransaction) error
}

// ReconciliationReader defines read operations for reconciliations
type ReconciliationReader interface {
	// FindReconciliationByID retrieves a reconciliation by its ID.
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error)

	// ListReconciliations retrieves a bank account's reconciliations, newest first.
	ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.BankReconciliation, error)
}

// ReconciliationWriter defines write operations for reconciliations
type ReconciliationWriter interface {
	// SaveReconciliation persists a new in-progress reconciliation.
	SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error

	// CompleteReconciliation marks the reconciliation COMPLETED, stamps the
	// bank account's last reconciled date/balance, and flags the cleared
	// transactions, all in one database transaction. A reconciliation not
	// IN_PROGRESS, or a transaction already reconciled, yields
	// apperrors.ErrConflict.
	CompleteReconciliation(ctx context.Context, reconciliationID string, clearedBalance, difference decimal.Decimal, clearedTransactionIDs []string, completedBy string, completedAt time.Time) error
}

// BankRepositoryFacade combines all bank repository interfaces
type BankRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
	BankTransactionReader
	BankTransactionWriter
	ReconciliationReader
	ReconciliationWriter
}
