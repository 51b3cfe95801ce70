package mapping

import (
	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/retailcore/pos_accounting/internal/models"
)

// ToModelRecurring converts a domain RecurringJournalEntry to a model row
func ToModelRecurring(d domain.RecurringJournalEntry) models.RecurringJournalEntry {
	return models.RecurringJournalEntry{
		RecurringID:    d.RecurringID,
		Name:           d.Name,
		Memo:           d.Memo,
		Frequency:      string(d.Frequency),
		DayOfWeek:      d.DayOfWeek,
		DayOfMonth:     d.DayOfMonth,
		MonthOfYear:    d.MonthOfYear,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		NextRunDate:    d.NextRunDate,
		LastRunDate:    d.LastRunDate,
		Occurrences:    d.Occurrences,
		MaxOccurrences: d.MaxOccurrences,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurring converts a model row to a domain RecurringJournalEntry
func ToDomainRecurring(m models.RecurringJournalEntry) domain.RecurringJournalEntry {
	return domain.RecurringJournalEntry{
		RecurringID:    m.RecurringID,
		Name:           m.Name,
		Memo:           m.Memo,
		Frequency:      domain.RecurringFrequency(m.Frequency),
		DayOfWeek:      m.DayOfWeek,
		DayOfMonth:     m.DayOfMonth,
		MonthOfYear:    m.MonthOfYear,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		NextRunDate:    m.NextRunDate,
		LastRunDate:    m.LastRunDate,
		Occurrences:    m.Occurrences,
		MaxOccurrences: m.MaxOccurrences,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelRecurringLine converts a domain template line to a model row
func ToModelRecurringLine(d domain.RecurringJournalEntryLine) models.RecurringJournalEntryLine {
	return models.RecurringJournalEntryLine{
		LineID:      d.LineID,
		RecurringID: d.RecurringID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		LineOrder:   d.LineOrder,
		Description: d.Description,
	}
}

// ToDomainRecurringLine converts a model row to a domain template line
func ToDomainRecurringLine(m models.RecurringJournalEntryLine) domain.RecurringJournalEntryLine {
	return domain.RecurringJournalEntryLine{
		LineID:      m.LineID,
		RecurringID: m.RecurringID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		LineOrder:   m.LineOrder,
		Description: m.Description,
	}
}
