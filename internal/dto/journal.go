package dto

import (
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest defines one debit/credit line in an entry payload.
// Exactly one of Debit/Credit must be a positive amount.
type EntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateEntryRequest defines the payload for creating a journal entry draft.
type CreateEntryRequest struct {
	EntryDate  time.Time          `json:"entryDate" binding:"required"`
	Memo       string             `json:"memo"`
	SourceType string             `json:"sourceType"` // Defaults to MANUAL
	SourceID   string             `json:"sourceID"`
	Lines      []EntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Source resolves the typed source reference of the request.
func (r CreateEntryRequest) Source() domain.EntrySource {
	sourceType := domain.SourceType(r.SourceType)
	if r.SourceType == "" {
		sourceType = domain.SourceManual
	}
	return domain.EntrySource{Type: sourceType, SourceID: r.SourceID}
}

// VoidEntryRequest defines the payload for voiding a posted entry.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReverseEntryRequest defines the payload for reversing a posted entry.
type ReverseEntryRequest struct {
	Memo string `json:"memo"`
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	Status       *domain.EntryStatus
	Limit        int
	NextToken    *string
	IncludeLines bool
}

// EntryLineResponse defines the data returned for an entry line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	LineOrder   int             `json:"lineOrder"`
	Description string          `json:"description,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID     string              `json:"entryID"`
	EntryNumber string              `json:"entryNumber,omitempty"`
	EntryDate   time.Time           `json:"entryDate"`
	Status      string              `json:"status"`
	SourceType  string              `json:"sourceType"`
	SourceID    string              `json:"sourceID,omitempty"`
	Memo        string              `json:"memo,omitempty"`
	TotalDebit  decimal.Decimal     `json:"totalDebit"`
	TotalCredit decimal.Decimal     `json:"totalCredit"`
	PostedAt    *time.Time          `json:"postedAt,omitempty"`
	VoidedAt    *time.Time          `json:"voidedAt,omitempty"`
	VoidReason  string              `json:"voidReason,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
	Lines       []EntryLineResponse `json:"lines,omitempty"`
}

// ListEntriesResponse is a page of entries plus the next pagination token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain line to its response shape.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		LineOrder:   l.LineOrder,
		Description: l.Description,
	}
}

// ToEntryResponse converts a domain entry (with any loaded lines) to its
// response shape.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:     e.EntryID,
		EntryNumber: e.EntryNumber,
		EntryDate:   e.EntryDate,
		Status:      string(e.Status),
		SourceType:  string(e.Source.Type),
		SourceID:    e.Source.SourceID,
		Memo:        e.Memo,
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		PostedAt:    e.PostedAt,
		VoidedAt:    e.VoidedAt,
		VoidReason:  e.VoidReason,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}
