package mapping

import (
	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/retailcore/pos_accounting/internal/models"
)

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.EntryID,
		EntryNumber: strPtrOrNil(d.EntryNumber),
		EntryDate:   d.EntryDate,
		Status:      string(d.Status),
		SourceType:  string(d.Source.Type),
		SourceID:    strPtrOrNil(d.Source.SourceID),
		Memo:        d.Memo,
		TotalDebit:  d.TotalDebit,
		TotalCredit: d.TotalCredit,
		PostedBy:    strPtrOrNil(d.PostedBy),
		PostedAt:    d.PostedAt,
		VoidedBy:    strPtrOrNil(d.VoidedBy),
		VoidedAt:    d.VoidedAt,
		VoidReason:  strPtrOrNil(d.VoidReason),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		EntryNumber: strOrEmpty(m.EntryNumber),
		EntryDate:   m.EntryDate,
		Status:      domain.EntryStatus(m.Status),
		Source: domain.EntrySource{
			Type:     domain.SourceType(m.SourceType),
			SourceID: strOrEmpty(m.SourceID),
		},
		Memo:        m.Memo,
		TotalDebit:  m.TotalDebit,
		TotalCredit: m.TotalCredit,
		PostedBy:    strOrEmpty(m.PostedBy),
		PostedAt:    m.PostedAt,
		VoidedBy:    strOrEmpty(m.VoidedBy),
		VoidedAt:    m.VoidedAt,
		VoidReason:  strOrEmpty(m.VoidReason),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryLine converts a domain line to a model line
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		LineOrder:   d.LineOrder,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntryLine converts a model line to a domain line
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		LineOrder:   m.LineOrder,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntryLineSlice converts model lines to domain lines
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}
