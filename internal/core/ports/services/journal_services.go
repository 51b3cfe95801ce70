package services

import (
	"context"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/retailcore/pos_accounting/internal/dto"
)

// JournalReaderSvc defines read operations on journal entries
type JournalReaderSvc interface {
	// GetEntryByID retrieves an entry together with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns a page of entries, optionally filtered by status.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, string, error)

	// ListEntryLinesByAccount returns the lines posted against an account.
	ListEntryLinesByAccount(ctx context.Context, accountID string, limit int, nextToken string) ([]domain.JournalEntryLine, string, error)
}

// JournalWriterSvc defines write operations on journal entries
type JournalWriterSvc interface {
	// CreateDraft validates lines and persists a DRAFT entry.
	CreateDraft(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error)

	// PostEntry transitions a DRAFT entry to POSTED, assigning its
	// sequential entry number.
	PostEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error)

	// VoidEntry transitions a POSTED entry to VOID with a mandatory reason.
	VoidEntry(ctx context.Context, entryID string, req dto.VoidEntryRequest, actorID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts a mirror-image of a POSTED entry.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, actorID string) (*domain.JournalEntry, error)

	// RecordSourceEntry creates an entry attributed to a business event
	// and posts it in one step.
	RecordSourceEntry(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
