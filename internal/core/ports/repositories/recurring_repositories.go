package repositories

import (
	"context"
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
)

// RecurringReader defines read operations for recurring templates
type RecurringReader interface {
	// FindRecurringByID retrieves a template with its lines.
	FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringJournalEntry, error)

	// ListRecurring retrieves all templates, optionally active only.
	ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringJournalEntry, error)

	// ListDue retrieves active templates whose next run date is on or before asOf.
	ListDue(ctx context.Context, asOf time.Time) ([]domain.RecurringJournalEntry, error)
}

// RecurringWriter defines write operations for recurring templates
type RecurringWriter interface {
	// SaveRecurring persists a new template and its lines in one transaction.
	SaveRecurring(ctx context.Context, recurring domain.RecurringJournalEntry, lines []domain.RecurringJournalEntryLine) error

	// UpdateRecurring replaces a template's details and lines.
	UpdateRecurring(ctx context.Context, recurring domain.RecurringJournalEntry, lines []domain.RecurringJournalEntryLine) error

	// DeactivateRecurring marks a template inactive.
	DeactivateRecurring(ctx context.Context, recurringID string, actorID string, now time.Time) error

	// RecordRun atomically claims the (template, runDate) occurrence, inserts
	// the generated entry as POSTED with a freshly allocated REC number, and
	// advances the template's schedule. A second claim for the same day
	// yields apperrors.ErrDuplicate and writes nothing.
	RecordRun(ctx context.Context, recurring domain.RecurringJournalEntry, runDate time.Time, nextRunDate time.Time, entry domain.JournalEntry, lines []domain.JournalEntryLine) (entryNumber string, err error)
}

// RecurringRepositoryFacade combines all recurring repository interfaces
type RecurringRepositoryFacade interface {
	RecurringReader
	RecurringWriter
}
