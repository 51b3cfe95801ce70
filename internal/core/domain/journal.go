package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
// DRAFT entries are editable, POSTED entries are part of the permanent
// ledger, VOID is terminal and excluded from every balance.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// JournalEntry represents a single, atomic financial event composed of
// balanced debit/credit lines.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`     // Primary key (UUID)
	EntryNumber string      `json:"entryNumber"` // "JE-2024-000123", assigned at post time
	EntryDate   time.Time   `json:"entryDate"`
	Status      EntryStatus `json:"status"`
	Source      EntrySource `json:"source"`
	Memo        string      `json:"memo"`

	// Cached from lines, recomputed at post time.
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`

	PostedBy   string     `json:"postedBy,omitempty"`
	PostedAt   *time.Time `json:"postedAt,omitempty"`
	VoidedBy   string     `json:"voidedBy,omitempty"`
	VoidedAt   *time.Time `json:"voidedAt,omitempty"`
	VoidReason string     `json:"voidReason,omitempty"`

	AuditFields

	// Populated on demand; not always loaded with the entry header.
	Lines []JournalEntryLine `json:"lines,omitempty"`
}

// JournalEntryLine is a single debit or credit against one account.
// Exactly one of Debit/Credit is nonzero. Lines are owned by their entry and
// share its lifecycle.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"` // Primary key (UUID)
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	LineOrder   int             `json:"lineOrder"`
	Description string          `json:"description"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l JournalEntryLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the nonzero side of the line.
func (l JournalEntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// Totals sums the debit and credit sides over the given lines.
func Totals(lines []JournalEntryLine) (debit, credit decimal.Decimal) {
	debit = decimal.Zero
	credit = decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Balanced reports whether total debits equal total credits for the lines.
// Comparison is exact decimal equality, never float.
func Balanced(lines []JournalEntryLine) bool {
	debit, credit := Totals(lines)
	return debit.Equal(credit)
}
