package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringJournalEntry is the persisted row shape of a recurring template.
type RecurringJournalEntry struct {
	RecurringID    string     `db:"recurring_id"`
	Name           string     `db:"name"`
	Memo           string     `db:"memo"`
	Frequency      string     `db:"frequency"`
	DayOfWeek      *int       `db:"day_of_week"`
	DayOfMonth     *int       `db:"day_of_month"`
	MonthOfYear    *int       `db:"month_of_year"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        *time.Time `db:"end_date"`
	NextRunDate    time.Time  `db:"next_run_date"`
	LastRunDate    *time.Time `db:"last_run_date"`
	Occurrences    int        `db:"occurrences"`
	MaxOccurrences *int       `db:"max_occurrences"`
	IsActive       bool       `db:"is_active"`
	AuditFields
}

// RecurringJournalEntryLine is the persisted row shape of a template line.
type RecurringJournalEntryLine struct {
	LineID      string          `db:"line_id"`
	RecurringID string          `db:"recurring_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	LineOrder   int             `db:"line_order"`
	Description string          `db:"description"`
}
