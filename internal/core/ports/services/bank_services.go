package services

import (
	"context"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/retailcore/pos_accounting/internal/dto"
)

// BankAccountSvc defines operations on bank accounts
type BankAccountSvc interface {
	// GetBankAccountByID retrieves a bank account by its ID.
	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts returns all bank accounts.
	ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error)

	// CreateBankAccount persists a new bank account linked to a GL cash account.
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actorID string) (*domain.BankAccount, error)
}

// BankTransactionSvc defines operations on bank statement transactions
type BankTransactionSvc interface {
	// RecordBankTransaction records a statement line and moves the
	// running bank balance.
	RecordBankTransaction(ctx context.Context, bankAccountID string, req dto.RecordBankTransactionRequest, actorID string) (*domain.BankTransaction, error)

	// ListBankTransactions returns a page of statement lines for a bank
	// account, optionally only those not yet reconciled.
	ListBankTransactions(ctx context.Context, bankAccountID string, unreconciledOnly bool, limit int, nextToken *string) ([]domain.BankTransaction, *string, error)
}

// ReconciliationSvc defines the bank reconciliation workflow
type ReconciliationSvc interface {
	// StartReconciliation opens an IN_PROGRESS reconciliation against a
	// statement date and balance.
	StartReconciliation(ctx context.Context, bankAccountID string, req dto.StartReconciliationRequest, actorID string) (*domain.BankReconciliation, error)

	// GetReconciliationByID retrieves a reconciliation by its ID.
	GetReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error)

	// ListReconciliations returns a bank account's reconciliations,
	// newest first.
	ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.BankReconciliation, error)

	// CompleteReconciliation marks the cleared transactions, recomputes
	// the cleared balance server-side and completes only on an exact
	// zero difference.
	CompleteReconciliation(ctx context.Context, reconciliationID string, req dto.CompleteReconciliationRequest, actorID string) (*domain.BankReconciliation, error)
}

// BankSvcFacade combines all bank service interfaces
type BankSvcFacade interface {
	BankAccountSvc
	BankTransactionSvc
	ReconciliationSvc
}
