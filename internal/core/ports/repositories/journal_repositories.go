package repositories

import (
	"context"
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific journal entry header by its ID.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries using token-based
	// pagination, optionally filtered by status.
	ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entry data
type EntryWriter interface {
	// SaveDraft persists a new draft entry and its lines in one transaction.
	SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// MarkPosted transitions a DRAFT entry to POSTED, allocating its entry
	// number from the per-(prefix, year) counter inside the same database
	// transaction. The status predicate guards against concurrent posts:
	// a non-draft entry yields apperrors.ErrConflict.
	MarkPosted(ctx context.Context, entryID string, prefix string, year int, totalDebit, totalCredit decimal.Decimal, postedBy string, postedAt time.Time) (entryNumber string, err error)

	// MarkVoided transitions a POSTED entry to VOID. A non-posted entry
	// yields apperrors.ErrConflict. Lines are left untouched.
	MarkVoided(ctx context.Context, entryID string, reason string, voidedBy string, voidedAt time.Time) error
}

// LineReader defines read operations for journal entry lines
type LineReader interface {
	// FindLinesByEntryID retrieves the lines of one entry ordered by line_order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error)

	// ListLinesByAccountID retrieves a paginated list of posted lines touching
	// an account, newest first.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntryLine, *string, error)
}

// JournalRepositoryFacade combines all journal repository interfaces
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
	LineReader
}
