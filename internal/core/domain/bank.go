package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is the external counterpart of a cash-equivalent GL account.
// Its running balance tracks statement activity; the GL side is always
// derived from posted lines.
type BankAccount struct {
	BankAccountID string `json:"bankAccountID"` // Primary key (UUID)
	GLAccountID   string `json:"glAccountID"`   // FK -> accounts, CASH/BANK subtype
	Name          string `json:"name"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`

	CurrentBalance        decimal.Decimal  `json:"currentBalance"`
	LastReconciledDate    *time.Time       `json:"lastReconciledDate,omitempty"`
	LastReconciledBalance *decimal.Decimal `json:"lastReconciledBalance,omitempty"`

	IsActive bool `json:"isActive"`
	AuditFields
}

// BankTransactionKind distinguishes money in from money out.
type BankTransactionKind string

const (
	Deposit    BankTransactionKind = "DEPOSIT"
	Withdrawal BankTransactionKind = "WITHDRAWAL"
)

// BankTransaction is an append-only record of a deposit or withdrawal on a
// bank account. It may be linked to the journal entry that booked it and to
// at most one reconciliation once cleared.
type BankTransaction struct {
	TransactionID    string              `json:"transactionID"` // Primary key (UUID)
	BankAccountID    string              `json:"bankAccountID"`
	Kind             BankTransactionKind `json:"kind"`
	TransactionDate  time.Time           `json:"transactionDate"`
	Amount           decimal.Decimal     `json:"amount"` // Always positive; Kind carries direction
	Memo             string              `json:"memo"`
	EntryID          string              `json:"entryID,omitempty"` // Optional FK -> journal_entries
	IsReconciled     bool                `json:"isReconciled"`
	ReconciliationID string              `json:"reconciliationID,omitempty"`
	AuditFields
}

// SignedAmount returns the amount with direction applied: deposits positive,
// withdrawals negative.
func (t BankTransaction) SignedAmount() decimal.Decimal {
	if t.Kind == Withdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ReconciliationStatus is the lifecycle of a bank reconciliation.
type ReconciliationStatus string

const (
	ReconciliationInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconciliationCompleted  ReconciliationStatus = "COMPLETED"
)

// BankReconciliation snapshots one statement-matching session. In-progress
// reconciliations persist so a user can resume across sessions; completion
// requires the difference to be exactly zero.
type BankReconciliation struct {
	ReconciliationID string               `json:"reconciliationID"` // Primary key (UUID)
	BankAccountID    string               `json:"bankAccountID"`
	StatementDate    time.Time            `json:"statementDate"`
	StatementBalance decimal.Decimal      `json:"statementBalance"`
	GLBalance        decimal.Decimal      `json:"glBalance"` // Book balance snapshot at start
	ClearedBalance   decimal.Decimal      `json:"clearedBalance"`
	Difference       decimal.Decimal      `json:"difference"`
	Status           ReconciliationStatus `json:"status"`
	CompletedAt      *time.Time           `json:"completedAt,omitempty"`
	AuditFields
}
