package domain

import "time"

// FiscalYear bounds one reporting year. It is threaded explicitly into the
// calls that depend on it (balance sheet retained earnings) rather than read
// from process-wide state.
type FiscalYear struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FiscalYearStarting builds a twelve-month fiscal year from its first day.
func FiscalYearStarting(start time.Time) FiscalYear {
	return FiscalYear{Start: start, End: start.AddDate(1, 0, 0).AddDate(0, 0, -1)}
}

// Contains reports whether the date falls inside the fiscal year.
func (fy FiscalYear) Contains(date time.Time) bool {
	return !date.Before(fy.Start) && !date.After(fy.End)
}
