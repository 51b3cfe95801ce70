package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the persisted row shape of a journal entry header.
// EntryNumber stays NULL until the entry is posted.
type JournalEntry struct {
	EntryID     string          `db:"entry_id"`
	EntryNumber *string         `db:"entry_number"`
	EntryDate   time.Time       `db:"entry_date"`
	Status      string          `db:"status"`
	SourceType  string          `db:"source_type"`
	SourceID    *string         `db:"source_id"`
	Memo        string          `db:"memo"`
	TotalDebit  decimal.Decimal `db:"total_debit"`
	TotalCredit decimal.Decimal `db:"total_credit"`
	PostedBy    *string         `db:"posted_by"`
	PostedAt    *time.Time      `db:"posted_at"`
	VoidedBy    *string         `db:"voided_by"`
	VoidedAt    *time.Time      `db:"voided_at"`
	VoidReason  *string         `db:"void_reason"`
	AuditFields
}

// JournalEntryLine is the persisted row shape of one debit/credit line.
type JournalEntryLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	LineOrder   int             `db:"line_order"`
	Description string          `db:"description"`
	AuditFields
}
