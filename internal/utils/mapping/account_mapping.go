package mapping

import (
	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/retailcore/pos_accounting/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	var parent *string
	if d.ParentAccountID != "" {
		p := d.ParentAccountID
		parent = &p
	}
	return models.Account{
		AccountID:          d.AccountID,
		Name:               d.Name,
		AccountType:        string(d.AccountType),
		Subtype:            string(d.Subtype),
		ParentAccountID:    parent,
		Description:        d.Description,
		OpeningBalance:     d.OpeningBalance,
		OpeningBalanceDate: d.OpeningBalanceDate,
		IsActive:           d.IsActive,
		IsSystem:           d.IsSystem,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	parent := ""
	if m.ParentAccountID != nil {
		parent = *m.ParentAccountID
	}
	return domain.Account{
		AccountID:          m.AccountID,
		Name:               m.Name,
		AccountType:        domain.AccountType(m.AccountType),
		Subtype:            domain.AccountSubtype(m.Subtype),
		ParentAccountID:    parent,
		Description:        m.Description,
		OpeningBalance:     m.OpeningBalance,
		OpeningBalanceDate: m.OpeningBalanceDate,
		IsActive:           m.IsActive,
		IsSystem:           m.IsSystem,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
