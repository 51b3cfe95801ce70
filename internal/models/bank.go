package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is the persisted row shape of a bank account.
type BankAccount struct {
	BankAccountID         string           `db:"bank_account_id"`
	GLAccountID           string           `db:"gl_account_id"`
	Name                  string           `db:"name"`
	BankName              string           `db:"bank_name"`
	AccountNumber         string           `db:"account_number"`
	CurrentBalance        decimal.Decimal  `db:"current_balance"`
	LastReconciledDate    *time.Time       `db:"last_reconciled_date"`
	LastReconciledBalance *decimal.Decimal `db:"last_reconciled_balance"`
	IsActive              bool             `db:"is_active"`
	AuditFields
}

// BankTransaction is the persisted row shape of a statement transaction.
type BankTransaction struct {
	TransactionID    string          `db:"transaction_id"`
	BankAccountID    string          `db:"bank_account_id"`
	Kind             string          `db:"kind"`
	TransactionDate  time.Time       `db:"transaction_date"`
	Amount           decimal.Decimal `db:"amount"`
	Memo             string          `db:"memo"`
	EntryID          *string         `db:"entry_id"`
	IsReconciled     bool            `db:"is_reconciled"`
	ReconciliationID *string         `db:"reconciliation_id"`
	AuditFields
}

// BankReconciliation is the persisted row shape of a reconciliation session.
type BankReconciliation struct {
	ReconciliationID string          `db:"reconciliation_id"`
	BankAccountID    string          `db:"bank_account_id"`
	StatementDate    time.Time       `db:"statement_date"`
	StatementBalance decimal.Decimal `db:"statement_balance"`
	GLBalance        decimal.Decimal `db:"gl_balance"`
	ClearedBalance   decimal.Decimal `db:"cleared_balance"`
	Difference       decimal.Decimal `db:"difference"`
	Status           string          `db:"status"`
	CompletedAt      *time.Time      `db:"completed_at"`
	AuditFields
}
