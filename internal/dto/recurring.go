package dto

import (
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecurringLineRequest defines one template line in a recurring payload.
type RecurringLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateRecurringRequest defines the payload for creating a recurring
// template. Lines must balance; generation posts without re-validating.
type CreateRecurringRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Memo           string                 `json:"memo"`
	Frequency      string                 `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
	DayOfWeek      *int                   `json:"dayOfWeek,omitempty"`
	DayOfMonth     *int                   `json:"dayOfMonth,omitempty"`
	MonthOfYear    *int                   `json:"monthOfYear,omitempty"`
	StartDate      time.Time              `json:"startDate" binding:"required"`
	EndDate        *time.Time             `json:"endDate,omitempty"`
	MaxOccurrences *int                   `json:"maxOccurrences,omitempty"`
	Lines          []RecurringLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateRecurringRequest updates template details. Nil fields are unchanged;
// non-nil Lines replaces the whole line set.
type UpdateRecurringRequest struct {
	Name           *string                 `json:"name,omitempty"`
	Memo           *string                 `json:"memo,omitempty"`
	EndDate        *time.Time              `json:"endDate,omitempty"`
	MaxOccurrences *int                    `json:"maxOccurrences,omitempty"`
	Lines          *[]RecurringLineRequest `json:"lines,omitempty"`
}

// RecurringLineResponse defines the data returned for a template line.
type RecurringLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	LineOrder   int             `json:"lineOrder"`
	Description string          `json:"description,omitempty"`
}

// RecurringResponse defines the data returned for a recurring template.
type RecurringResponse struct {
	RecurringID    string                  `json:"recurringID"`
	Name           string                  `json:"name"`
	Memo           string                  `json:"memo,omitempty"`
	Frequency      string                  `json:"frequency"`
	DayOfWeek      *int                    `json:"dayOfWeek,omitempty"`
	DayOfMonth     *int                    `json:"dayOfMonth,omitempty"`
	MonthOfYear    *int                    `json:"monthOfYear,omitempty"`
	StartDate      time.Time               `json:"startDate"`
	EndDate        *time.Time              `json:"endDate,omitempty"`
	NextRunDate    time.Time               `json:"nextRunDate"`
	LastRunDate    *time.Time              `json:"lastRunDate,omitempty"`
	Occurrences    int                     `json:"occurrences"`
	MaxOccurrences *int                    `json:"maxOccurrences,omitempty"`
	IsActive       bool                    `json:"isActive"`
	Lines          []RecurringLineResponse `json:"lines,omitempty"`
}

// RunDueResponse summarizes one scheduler pass.
type RunDueResponse struct {
	Generated []EntryResponse `json:"generated"`
}

// ToRecurringResponse converts a domain template (with any loaded lines).
func ToRecurringResponse(r *domain.RecurringJournalEntry) RecurringResponse {
	resp := RecurringResponse{
		RecurringID:    r.RecurringID,
		Name:           r.Name,
		Memo:           r.Memo,
		Frequency:      string(r.Frequency),
		DayOfWeek:      r.DayOfWeek,
		DayOfMonth:     r.DayOfMonth,
		MonthOfYear:    r.MonthOfYear,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		NextRunDate:    r.NextRunDate,
		LastRunDate:    r.LastRunDate,
		Occurrences:    r.Occurrences,
		MaxOccurrences: r.MaxOccurrences,
		IsActive:       r.IsActive,
	}
	if len(r.Lines) > 0 {
		resp.Lines = make([]RecurringLineResponse, len(r.Lines))
		for i, l := range r.Lines {
			resp.Lines[i] = RecurringLineResponse{
				LineID:      l.LineID,
				AccountID:   l.AccountID,
				Debit:       l.Debit,
				Credit:      l.Credit,
				LineOrder:   l.LineOrder,
				Description: l.Description,
			}
		}
	}
	return resp
}

// ToRecurringResponses converts a slice of domain templates.
func ToRecurringResponses(templates []domain.RecurringJournalEntry) []RecurringResponse {
	responses := make([]RecurringResponse, len(templates))
	for i := range templates {
		responses[i] = ToRecurringResponse(&templates[i])
	}
	return responses
}
