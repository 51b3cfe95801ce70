package mapping

import (
	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/retailcore/pos_accounting/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a model row
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:         d.BankAccountID,
		GLAccountID:           d.GLAccountID,
		Name:                  d.Name,
		BankName:              d.BankName,
		AccountNumber:         d.AccountNumber,
		CurrentBalance:        d.CurrentBalance,
		LastReconciledDate:    d.LastReconciledDate,
		LastReconciledBalance: d.LastReconciledBalance,
		IsActive:              d.IsActive,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model row to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:         m.BankAccountID,
		GLAccountID:           m.GLAccountID,
		Name:                  m.Name,
		BankName:              m.BankName,
		AccountNumber:         m.AccountNumber,
		CurrentBalance:        m.CurrentBalance,
		LastReconciledDate:    m.LastReconciledDate,
		LastReconciledBalance: m.LastReconciledBalance,
		IsActive:              m.IsActive,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankTransaction converts a domain BankTransaction to a model row
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		TransactionID:    d.TransactionID,
		BankAccountID:    d.BankAccountID,
		Kind:             string(d.Kind),
		TransactionDate:  d.TransactionDate,
		Amount:           d.Amount,
		Memo:             d.Memo,
		EntryID:          strPtrOrNil(d.EntryID),
		IsReconciled:     d.IsReconciled,
		ReconciliationID: strPtrOrNil(d.ReconciliationID),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToModelBankReconciliation converts a domain BankReconciliation to a model row
func ToModelBankReconciliation(d domain.BankReconciliation) models.BankReconciliation {
	return models.BankReconciliation{
		ReconciliationID: d.ReconciliationID,
		BankAccountID:    d.BankAccountID,
		StatementDate:    d.StatementDate,
		StatementBalance: d.StatementBalance,
		GLBalance:        d.GLBalance,
		ClearedBalance:   d.ClearedBalance,
		Difference:       d.Difference,
		Status:           string(d.Status),
		CompletedAt:      d.CompletedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransaction converts a model row to a domain BankTransaction
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:    m.TransactionID,
		BankAccountID:    m.BankAccountID,
		Kind:             domain.BankTransactionKind(m.Kind),
		TransactionDate:  m.TransactionDate,
		Amount:           m.Amount,
		Memo:             m.Memo,
		EntryID:          strOrEmpty(m.EntryID),
		IsReconciled:     m.IsReconciled,
		ReconciliationID: strOrEmpty(m.ReconciliationID),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankReconciliation converts a model row to a domain BankReconciliation
func ToDomainBankReconciliation(m models.BankReconciliation) domain.BankReconciliation {
	return domain.BankReconciliation{
		ReconciliationID: m.ReconciliationID,
		BankAccountID:    m.BankAccountID,
		StatementDate:    m.StatementDate,
		StatementBalance: m.StatementBalance,
		GLBalance:        m.GLBalance,
		ClearedBalance:   m.ClearedBalance,
		Difference:       m.Difference,
		Status:           domain.ReconciliationStatus(m.Status),
		CompletedAt:      m.CompletedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
