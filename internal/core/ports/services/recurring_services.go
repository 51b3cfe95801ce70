package services

import (
	"context"
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/retailcore/pos_accounting/internal/dto"
)

// RecurringReaderSvc defines read operations on recurring entry templates
type RecurringReaderSvc interface {
	// GetRecurringByID retrieves a template together with its lines.
	GetRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringJournalEntry, error)

	// ListRecurring returns templates, optionally restricted to active ones.
	ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringJournalEntry, error)
}

// RecurringWriterSvc defines write operations on recurring entry templates
type RecurringWriterSvc interface {
	// CreateRecurring validates the template lines and schedule and persists it.
	CreateRecurring(ctx context.Context, req dto.CreateRecurringRequest, actorID string) (*domain.RecurringJournalEntry, error)

	// UpdateRecurring updates template details and optionally replaces its lines.
	UpdateRecurring(ctx context.Context, recurringID string, req dto.UpdateRecurringRequest, actorID string) (*domain.RecurringJournalEntry, error)

	// DeactivateRecurring stops future generation for a template.
	DeactivateRecurring(ctx context.Context, recurringID string, actorID string) error

	// RunRecurring generates the entry for a single due template. It is
	// idempotent per calendar day.
	RunRecurring(ctx context.Context, recurringID string, asOf time.Time, actorID string) (*domain.JournalEntry, error)

	// RunDue generates entries for every template due on or before asOf.
	RunDue(ctx context.Context, asOf time.Time, actorID string) ([]domain.JournalEntry, error)
}

// RecurringSvcFacade combines all recurring service interfaces
type RecurringSvcFacade interface {
	RecurringReaderSvc
	RecurringWriterSvc
}
