package dto

import (
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the payload for creating a bank account.
// The GL account must be a CASH or BANK subtype asset account.
type CreateBankAccountRequest struct {
	GLAccountID    string          `json:"glAccountID" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// RecordBankTransactionRequest defines the payload for a statement transaction.
type RecordBankTransactionRequest struct {
	Kind            string          `json:"kind" binding:"required,oneof=DEPOSIT WITHDRAWAL"`
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Memo            string          `json:"memo"`
	EntryID         string          `json:"entryID"`
}

// StartReconciliationRequest opens a reconciliation session.
type StartReconciliationRequest struct {
	BankAccountID    string          `json:"bankAccountID" binding:"required"`
	StatementDate    time.Time       `json:"statementDate" binding:"required"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
}

// CompleteReconciliationRequest closes a reconciliation with the cleared set.
type CompleteReconciliationRequest struct {
	ClearedTransactionIDs []string `json:"clearedTransactionIDs" binding:"required"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID         string           `json:"bankAccountID"`
	GLAccountID           string           `json:"glAccountID"`
	Name                  string           `json:"name"`
	BankName              string           `json:"bankName,omitempty"`
	AccountNumber         string           `json:"accountNumber,omitempty"`
	CurrentBalance        decimal.Decimal  `json:"currentBalance"`
	LastReconciledDate    *time.Time       `json:"lastReconciledDate,omitempty"`
	LastReconciledBalance *decimal.Decimal `json:"lastReconciledBalance,omitempty"`
	IsActive              bool             `json:"isActive"`
}

// BankTransactionResponse defines the data returned for a bank transaction.
type BankTransactionResponse struct {
	TransactionID    string          `json:"transactionID"`
	BankAccountID    string          `json:"bankAccountID"`
	Kind             string          `json:"kind"`
	TransactionDate  time.Time       `json:"transactionDate"`
	Amount           decimal.Decimal `json:"amount"`
	Memo             string          `json:"memo,omitempty"`
	EntryID          string          `json:"entryID,omitempty"`
	IsReconciled     bool            `json:"isReconciled"`
	ReconciliationID string          `json:"reconciliationID,omitempty"`
}

// ReconciliationResponse defines the data returned for a reconciliation.
type ReconciliationResponse struct {
	ReconciliationID string          `json:"reconciliationID"`
	BankAccountID    string          `json:"bankAccountID"`
	StatementDate    time.Time       `json:"statementDate"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
	GLBalance        decimal.Decimal `json:"glBalance"`
	ClearedBalance   decimal.Decimal `json:"clearedBalance"`
	Difference       decimal.Decimal `json:"difference"`
	Status           string          `json:"status"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty"`
}

// ToBankAccountResponse converts a domain.BankAccount.
func ToBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:         a.BankAccountID,
		GLAccountID:           a.GLAccountID,
		Name:                  a.Name,
		BankName:              a.BankName,
		AccountNumber:         a.AccountNumber,
		CurrentBalance:        a.CurrentBalance,
		LastReconciledDate:    a.LastReconciledDate,
		LastReconciledBalance: a.LastReconciledBalance,
		IsActive:              a.IsActive,
	}
}

// ToBankTransactionResponse converts a domain.BankTransaction.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		TransactionID:    t.TransactionID,
		BankAccountID:    t.BankAccountID,
		Kind:             string(t.Kind),
		TransactionDate:  t.TransactionDate,
		Amount:           t.Amount,
		Memo:             t.Memo,
		EntryID:          t.EntryID,
		IsReconciled:     t.IsReconciled,
		ReconciliationID: t.ReconciliationID,
	}
}

// ToBankTransactionResponses converts a slice of domain transactions.
func ToBankTransactionResponses(txns []domain.BankTransaction) []BankTransactionResponse {
	responses := make([]BankTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToBankTransactionResponse(&txns[i])
	}
	return responses
}

// ToReconciliationResponse converts a domain.BankReconciliation.
func ToReconciliationResponse(r *domain.BankReconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconciliationID: r.ReconciliationID,
		BankAccountID:    r.BankAccountID,
		StatementDate:    r.StatementDate,
		StatementBalance: r.StatementBalance,
		GLBalance:        r.GLBalance,
		ClearedBalance:   r.ClearedBalance,
		Difference:       r.Difference,
		Status:           string(r.Status),
		CompletedAt:      r.CompletedAt,
	}
}
