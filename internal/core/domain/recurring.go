package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringFrequency describes the cadence of a recurring journal entry.
type RecurringFrequency string

const (
	FrequencyDaily     RecurringFrequency = "DAILY"
	FrequencyWeekly    RecurringFrequency = "WEEKLY"
	FrequencyMonthly   RecurringFrequency = "MONTHLY"
	FrequencyQuarterly RecurringFrequency = "QUARTERLY"
	FrequencyYearly    RecurringFrequency = "YEARLY"
)

// ValidFrequency reports whether f is a known cadence.
func ValidFrequency(f RecurringFrequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringJournalEntry is a template that generates one posted journal
// entry each time it comes due. Template lines are validated for balance at
// save time so generation can post synchronously without failing.
type RecurringJournalEntry struct {
	RecurringID string             `json:"recurringID"` // Primary key (UUID)
	Name        string             `json:"name"`
	Memo        string             `json:"memo"`
	Frequency   RecurringFrequency `json:"frequency"`

	// Cadence constraints, meaningful only for the matching frequency.
	DayOfWeek   *int `json:"dayOfWeek,omitempty"`   // 0=Sunday..6, WEEKLY
	DayOfMonth  *int `json:"dayOfMonth,omitempty"`  // 1..31, MONTHLY/QUARTERLY
	MonthOfYear *int `json:"monthOfYear,omitempty"` // 1..12, YEARLY

	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	NextRunDate    time.Time  `json:"nextRunDate"`
	LastRunDate    *time.Time `json:"lastRunDate,omitempty"`
	Occurrences    int        `json:"occurrences"`
	MaxOccurrences *int       `json:"maxOccurrences,omitempty"`

	IsActive bool `json:"isActive"`
	AuditFields

	Lines []RecurringJournalEntryLine `json:"lines,omitempty"`
}

// RecurringJournalEntryLine has the same debit/credit shape as a journal
// entry line but is unattached to any concrete entry until generation.
type RecurringJournalEntryLine struct {
	LineID      string          `json:"lineID"` // Primary key (UUID)
	RecurringID string          `json:"recurringID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	LineOrder   int             `json:"lineOrder"`
	Description string          `json:"description"`
}

// IsDue reports whether the template should generate an entry today.
// Inactive templates, templates past their end date, and templates at their
// occurrence cap are never due.
func (r RecurringJournalEntry) IsDue(today time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.EndDate != nil && today.After(*r.EndDate) {
		return false
	}
	if r.MaxOccurrences != nil && r.Occurrences >= *r.MaxOccurrences {
		return false
	}
	return !today.Before(r.NextRunDate)
}

// Advance returns the next run date one interval after the given date.
// The interval is applied to the current schedule date, not to "today", so a
// late check does not shift the cadence.
func (r RecurringJournalEntry) Advance(from time.Time) time.Time {
	switch r.Frequency {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return r.addMonthsClamped(from, 1)
	case FrequencyQuarterly:
		return r.addMonthsClamped(from, 3)
	case FrequencyYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}

// addMonthsClamped moves n months ahead keeping the scheduled day of month,
// capped at the target month's last day. AddDate would normalize Jan 31 + 1
// month to Mar 2 and the schedule would drift off its day forever.
func (r RecurringJournalEntry) addMonthsClamped(from time.Time, months int) time.Time {
	day := from.Day()
	if r.DayOfMonth != nil {
		day = *r.DayOfMonth
	}
	first := time.Date(from.Year(), from.Month()+time.Month(months), 1,
		from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// NextAfter advances the schedule past today. Missed occurrences are skipped
// rather than back-filled: one run consumes every overdue interval and lands
// the template strictly in the future.
func (r RecurringJournalEntry) NextAfter(today time.Time) time.Time {
	next := r.Advance(r.NextRunDate)
	for !next.After(today) {
		next = r.Advance(next)
	}
	return next
}
