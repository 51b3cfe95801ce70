package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	"github.com/retailcore/pos_accounting/internal/core/domain"
	portsrepo "github.com/retailcore/pos_accounting/internal/core/ports/repositories"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
	"github.com/retailcore/pos_accounting/internal/dto"
	"github.com/retailcore/pos_accounting/internal/middleware"
	"github.com/retailcore/pos_accounting/internal/utils/accounting"
)

var (
	ErrInvalidFrequency   = errors.New("unknown recurring frequency")
	ErrTemplateUnbalanced = errors.New("template lines do not balance")
	ErrInvalidCadence     = errors.New("cadence constraint is out of range")
	ErrNotDue             = errors.New("template is not due")
)

// recurringService manages recurring entry templates and their generation.
// Template lines are validated for balance at save time, so a due template
// always generates a postable entry.
type recurringService struct {
	BaseService
	recurringRepo portsrepo.RecurringRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(recurringRepo portsrepo.RecurringRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo: recurringRepo,
		accountRepo:   accountRepo,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// validateTemplateLines enforces shape and balance on template lines.
// Unlike drafts, templates must balance up front.
func (s *recurringService) validateTemplateLines(ctx context.Context, lines []domain.RecurringJournalEntryLine) error {
	asEntryLines := make([]domain.JournalEntryLine, len(lines))
	accountIDs := make([]string, 0, len(lines))
	for i, line := range lines {
		asEntryLines[i] = domain.JournalEntryLine{
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		}
		accountIDs = append(accountIDs, line.AccountID)
	}

	if err := accounting.ValidateLines(asEntryLines); err != nil {
		return fmt.Errorf("%w: %w", err, apperrors.ErrValidation)
	}
	if len(asEntryLines) < 2 {
		return fmt.Errorf("%w: %w", ErrEntryMinLines, apperrors.ErrValidation)
	}
	if !domain.Balanced(asEntryLines) {
		debit, credit := domain.Totals(asEntryLines)
		return fmt.Errorf("%w: debits %s, credits %s: %w", ErrTemplateUnbalanced, debit, credit, apperrors.ErrValidation)
	}

	uniqueIDs := uniqueStrings(accountIDs)
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueIDs {
		acc, found := accountsMap[id]
		if !found {
			return fmt.Errorf("%w: ID %s: %w", ErrAccountNotFound, id, apperrors.ErrValidation)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: ID %s: %w", ErrAccountInactive, id, apperrors.ErrValidation)
		}
	}
	return nil
}

// validateCadence checks frequency-specific constraints.
func validateCadence(frequency domain.RecurringFrequency, dayOfWeek, dayOfMonth, monthOfYear *int) error {
	if !domain.ValidFrequency(frequency) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidFrequency, frequency, apperrors.ErrValidation)
	}
	if dayOfWeek != nil && (*dayOfWeek < 0 || *dayOfWeek > 6) {
		return fmt.Errorf("%w: dayOfWeek %d: %w", ErrInvalidCadence, *dayOfWeek, apperrors.ErrValidation)
	}
	if dayOfMonth != nil && (*dayOfMonth < 1 || *dayOfMonth > 31) {
		return fmt.Errorf("%w: dayOfMonth %d: %w", ErrInvalidCadence, *dayOfMonth, apperrors.ErrValidation)
	}
	if monthOfYear != nil && (*monthOfYear < 1 || *monthOfYear > 12) {
		return fmt.Errorf("%w: monthOfYear %d: %w", ErrInvalidCadence, *monthOfYear, apperrors.ErrValidation)
	}
	return nil
}

// alignFirstRun rolls the start date forward to the first date matching
// the cadence constraints.
func alignFirstRun(frequency domain.RecurringFrequency, start time.Time, dayOfWeek, dayOfMonth, monthOfYear *int) time.Time {
	first := start
	switch frequency {
	case domain.FrequencyWeekly:
		if dayOfWeek != nil {
			for int(first.Weekday()) != *dayOfWeek {
				first = first.AddDate(0, 0, 1)
			}
		}
	case domain.FrequencyMonthly, domain.FrequencyQuarterly:
		if dayOfMonth != nil {
			candidate := time.Date(first.Year(), first.Month(), *dayOfMonth, 0, 0, 0, 0, first.Location())
			if candidate.Before(first) {
				candidate = candidate.AddDate(0, 1, 0)
			}
			first = candidate
		}
	case domain.FrequencyYearly:
		if monthOfYear != nil {
			day := 1
			if dayOfMonth != nil {
				day = *dayOfMonth
			}
			candidate := time.Date(first.Year(), time.Month(*monthOfYear), day, 0, 0, 0, 0, first.Location())
			if candidate.Before(first) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			first = candidate
		}
	}
	return first
}

// CreateRecurring validates the template and persists it with its first run
// date aligned to the cadence constraints.
func (s *recurringService) CreateRecurring(ctx context.Context, req dto.CreateRecurringRequest, actorID string) (*domain.RecurringJournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	frequency := domain.RecurringFrequency(req.Frequency)
	if err := validateCadence(frequency, req.DayOfWeek, req.DayOfMonth, req.MonthOfYear); err != nil {
		return nil, err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("end date precedes start date: %w", apperrors.ErrValidation)
	}
	if req.MaxOccurrences != nil && *req.MaxOccurrences < 1 {
		return nil, fmt.Errorf("max occurrences must be at least 1: %w", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	recurringID := uuid.NewString()
	lines := make([]domain.RecurringJournalEntryLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.RecurringJournalEntryLine{
			LineID:      uuid.NewString(),
			RecurringID: recurringID,
			AccountID:   lineReq.AccountID,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			LineOrder:   i + 1,
			Description: lineReq.Description,
		}
	}

	if err := s.validateTemplateLines(ctx, lines); err != nil {
		return nil, err
	}

	recurring := domain.RecurringJournalEntry{
		RecurringID:    recurringID,
		Name:           req.Name,
		Memo:           req.Memo,
		Frequency:      frequency,
		DayOfWeek:      req.DayOfWeek,
		DayOfMonth:     req.DayOfMonth,
		MonthOfYear:    req.MonthOfYear,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		NextRunDate:    alignFirstRun(frequency, req.StartDate, req.DayOfWeek, req.DayOfMonth, req.MonthOfYear),
		MaxOccurrences: req.MaxOccurrences,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.recurringRepo.SaveRecurring(ctx, recurring, lines); err != nil {
		logger.Error("Failed to save recurring template", slog.String("error", err.Error()), slog.String("recurring_name", req.Name))
		return nil, fmt.Errorf("failed to save recurring template: %w", err)
	}

	logger.Info("Recurring template created", slog.String("recurring_id", recurringID), slog.String("frequency", string(frequency)))
	recurring.Lines = lines
	return &recurring, nil
}

// GetRecurringByID retrieves a template with its lines.
func (s *recurringService) GetRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringJournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recurring, err := s.recurringRepo.FindRecurringByID(ctx, recurringID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find recurring template", slog.String("error", err.Error()), slog.String("recurring_id", recurringID))
		}
		return nil, err
	}
	return recurring, nil
}

// ListRecurring returns templates, optionally restricted to active ones.
func (s *recurringService) ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringJournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	templates, err := s.recurringRepo.ListRecurring(ctx, activeOnly)
	if err != nil {
		logger.Error("Failed to list recurring templates", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}
	return templates, nil
}

// UpdateRecurring updates template details. A non-nil Lines replaces the
// whole line set after re-validation.
func (s *recurringService) UpdateRecurring(ctx context.Context, recurringID string, req dto.UpdateRecurringRequest, actorID string) (*domain.RecurringJournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recurring, err := s.recurringRepo.FindRecurringByID(ctx, recurringID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Recurring template not found for update", slog.String("recurring_id", recurringID))
		} else {
			logger.Error("Failed to find recurring template for update", slog.String("error", err.Error()), slog.String("recurring_id", recurringID))
		}
		return nil, err
	}

	if req.Name != nil {
		recurring.Name = *req.Name
	}
	if req.Memo != nil {
		recurring.Memo = *req.Memo
	}
	if req.EndDate != nil {
		if req.EndDate.Before(recurring.StartDate) {
			return nil, fmt.Errorf("end date precedes start date: %w", apperrors.ErrValidation)
		}
		recurring.EndDate = req.EndDate
	}
	if req.MaxOccurrences != nil {
		if *req.MaxOccurrences < 1 {
			return nil, fmt.Errorf("max occurrences must be at least 1: %w", apperrors.ErrValidation)
		}
		recurring.MaxOccurrences = req.MaxOccurrences
	}

	lines := recurring.Lines
	if req.Lines != nil {
		lines = make([]domain.RecurringJournalEntryLine, len(*req.Lines))
		for i, lineReq := range *req.Lines {
			lines[i] = domain.RecurringJournalEntryLine{
				LineID:      uuid.NewString(),
				RecurringID: recurringID,
				AccountID:   lineReq.AccountID,
				Debit:       lineReq.Debit,
				Credit:      lineReq.Credit,
				LineOrder:   i + 1,
				Description: lineReq.Description,
			}
		}
		if err := s.validateTemplateLines(ctx, lines); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	recurring.LastUpdatedAt = now
	recurring.LastUpdatedBy = actorID

	if err := s.recurringRepo.UpdateRecurring(ctx, *recurring, lines); err != nil {
		logger.Error("Failed to update recurring template", slog.String("error", err.Error()), slog.String("recurring_id", recurringID))
		return nil, fmt.Errorf("failed to update recurring template: %w", err)
	}

	logger.Info("Recurring template updated", slog.String("recurring_id", recurringID))
	recurring.Lines = lines
	return recurring, nil
}

// DeactivateRecurring stops future generation for a template.
func (s *recurringService) DeactivateRecurring(ctx context.Context, recurringID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.recurringRepo.DeactivateRecurring(ctx, recurringID, actorID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate recurring template", slog.String("error", err.Error()), slog.String("recurring_id", recurringID))
		}
		return err
	}

	logger.Info("Recurring template deactivated", slog.String("recurring_id", recurringID))
	return nil
}

// generate builds the POSTED entry for one due template and records the run.
// The repository claims the (template, day) occurrence atomically, so two
// concurrent scheduler passes cannot generate the same entry twice.
func (s *recurringService) generate(ctx context.Context, recurring domain.RecurringJournalEntry, runDate time.Time, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	day := time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, time.UTC)
	entryID := uuid.NewString()

	entryLines := make([]domain.JournalEntryLine, len(recurring.Lines))
	for i, tmplLine := range recurring.Lines {
		entryLines[i] = domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   tmplLine.AccountID,
			Debit:       tmplLine.Debit,
			Credit:      tmplLine.Credit,
			LineOrder:   tmplLine.LineOrder,
			Description: tmplLine.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	totalDebit, totalCredit := domain.Totals(entryLines)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   day,
		Status:      domain.Posted,
		Source:      domain.EntrySource{Type: domain.SourceRecurring, SourceID: recurring.RecurringID},
		Memo:        recurring.Memo,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		PostedBy:    actorID,
		PostedAt:    &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	nextRunDate := recurring.NextAfter(day)
	entryNumber, err := s.recurringRepo.RecordRun(ctx, recurring, day, nextRunDate, entry, entryLines)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Debug("Recurring template already ran today", slog.String("recurring_id", recurring.RecurringID))
			return nil, err
		}
		logger.Error("Failed to record recurring run", slog.String("error", err.Error()), slog.String("recurring_id", recurring.RecurringID))
		return nil, fmt.Errorf("failed to record recurring run: %w", err)
	}

	entry.EntryNumber = entryNumber
	entry.Lines = entryLines
	logger.Info("Recurring entry generated", slog.String("recurring_id", recurring.RecurringID), slog.String("entry_number", entryNumber))
	return &entry, nil
}

// RunRecurring generates the entry for a single template if it is due as of
// the given date. Running twice on the same day yields apperrors.ErrDuplicate.
func (s *recurringService) RunRecurring(ctx context.Context, recurringID string, asOf time.Time, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recurring, err := s.recurringRepo.FindRecurringByID(ctx, recurringID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find recurring template for run", slog.String("error", err.Error()), slog.String("recurring_id", recurringID))
		}
		return nil, err
	}
	if !recurring.IsDue(asOf) {
		return nil, fmt.Errorf("%w: next run is %s: %w", ErrNotDue, recurring.NextRunDate.Format("2006-01-02"), apperrors.ErrConflict)
	}

	return s.generate(ctx, *recurring, asOf, actorID)
}

// RunDue generates entries for every template due on or before asOf. It is
// the scheduler's entry point and is safe to call any number of times per
// day; templates that already ran are skipped.
func (s *recurringService) RunDue(ctx context.Context, asOf time.Time, actorID string) ([]domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	due, err := s.recurringRepo.ListDue(ctx, asOf)
	if err != nil {
		logger.Error("Failed to list due recurring templates", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list due templates: %w", err)
	}

	generated := make([]domain.JournalEntry, 0, len(due))
	for _, recurring := range due {
		if !recurring.IsDue(asOf) {
			continue
		}
		entry, err := s.generate(ctx, recurring, asOf, actorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			// One broken template must not starve the rest of the pass.
			logger.Error("Skipping recurring template after generation failure", slog.String("error", err.Error()), slog.String("recurring_id", recurring.RecurringID))
			continue
		}
		generated = append(generated, *entry)
	}

	logger.Info("Recurring pass completed", slog.Int("due", len(due)), slog.Int("generated", len(generated)))
	return generated, nil
}
