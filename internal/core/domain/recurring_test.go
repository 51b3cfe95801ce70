package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsDue(t *testing.T) {
	base := RecurringJournalEntry{
		Frequency:   FrequencyMonthly,
		NextRunDate: day(2024, time.February, 1),
		IsActive:    true,
	}

	assert.True(t, base.IsDue(day(2024, time.February, 1)))
	assert.True(t, base.IsDue(day(2024, time.February, 15)), "overdue template is still due")
	assert.False(t, base.IsDue(day(2024, time.January, 31)))

	inactive := base
	inactive.IsActive = false
	assert.False(t, inactive.IsDue(day(2024, time.February, 1)))

	ended := base
	end := day(2024, time.January, 31)
	ended.EndDate = &end
	assert.False(t, ended.IsDue(day(2024, time.February, 1)))

	capped := base
	max := 3
	capped.MaxOccurrences = &max
	capped.Occurrences = 3
	assert.False(t, capped.IsDue(day(2024, time.February, 1)))

	capped.Occurrences = 2
	assert.True(t, capped.IsDue(day(2024, time.February, 1)))
}

func TestAdvance(t *testing.T) {
	from := day(2024, time.January, 31)

	cases := []struct {
		frequency RecurringFrequency
		want      time.Time
	}{
		{FrequencyDaily, day(2024, time.February, 1)},
		{FrequencyWeekly, day(2024, time.February, 7)},
		{FrequencyMonthly, day(2024, time.February, 29)}, // capped at month end, no drift into March
		{FrequencyQuarterly, day(2024, time.April, 30)},
		{FrequencyYearly, day(2025, time.January, 31)},
	}
	for _, tc := range cases {
		r := RecurringJournalEntry{Frequency: tc.frequency}
		assert.Equal(t, tc.want, r.Advance(from), "frequency %s", tc.frequency)
	}
}

func TestAdvanceKeepsDayOfMonth(t *testing.T) {
	dom := 31
	r := RecurringJournalEntry{Frequency: FrequencyMonthly, DayOfMonth: &dom}

	// A month-end cap is temporary: the schedule returns to the 31st as
	// soon as the month allows it.
	feb := r.Advance(day(2024, time.January, 31))
	assert.Equal(t, day(2024, time.February, 29), feb)
	mar := r.Advance(feb)
	assert.Equal(t, day(2024, time.March, 31), mar)
	apr := r.Advance(mar)
	assert.Equal(t, day(2024, time.April, 30), apr)

	dom15 := 15
	quarterly := RecurringJournalEntry{Frequency: FrequencyQuarterly, DayOfMonth: &dom15}
	assert.Equal(t, day(2025, time.February, 15), quarterly.Advance(day(2024, time.November, 15)))
}

func TestNextAfterSkipsMissedOccurrences(t *testing.T) {
	r := RecurringJournalEntry{
		Frequency:   FrequencyWeekly,
		NextRunDate: day(2024, time.January, 1),
	}

	// Checked a month late: the schedule jumps past today in one step
	// instead of back-filling four weekly entries.
	next := r.NextAfter(day(2024, time.February, 2))
	assert.Equal(t, day(2024, time.February, 5), next)

	// On-time run advances exactly one interval.
	onTime := r.NextAfter(day(2024, time.January, 1))
	assert.Equal(t, day(2024, time.January, 8), onTime)
}
