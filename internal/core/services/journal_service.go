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
	ErrEntryUnbalanced  = errors.New("entry debits and credits do not balance")
	ErrEntryMinLines    = errors.New("entry must have at least two lines")
	ErrEntryMinAccounts = errors.New("entry must affect at least two different accounts")
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountInactive  = errors.New("account is inactive")
	ErrInvalidSource    = errors.New("source reference is invalid")
	ErrVoidOfVoid       = errors.New("cannot reverse or void an entry that is not posted")
	ErrReverseOfReverse = errors.New("cannot reverse an adjustment entry")
)

// journalService implements the double-entry posting engine: the
// draft -> posted -> void lifecycle and the derived reversal flow.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateAccounts checks that every referenced account exists and is active.
func (s *journalService) validateAccounts(ctx context.Context, lines []domain.JournalEntryLine) error {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
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

// validatePostable enforces the invariants a draft must satisfy before it
// can become POSTED.
func (s *journalService) validatePostable(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: %w", ErrEntryMinLines, apperrors.ErrValidation)
	}
	accountSet := make(map[string]bool, len(lines))
	for _, line := range lines {
		accountSet[line.AccountID] = true
	}
	if len(accountSet) < 2 {
		return fmt.Errorf("%w: %w", ErrEntryMinAccounts, apperrors.ErrValidation)
	}
	if !domain.Balanced(lines) {
		debit, credit := domain.Totals(lines)
		return fmt.Errorf("%w: debits %s, credits %s: %w", ErrEntryUnbalanced, debit, credit, apperrors.ErrValidation)
	}
	return nil
}

// buildLines converts request lines into domain lines owned by entryID.
func buildLines(entryID string, reqLines []dto.EntryLineRequest, actorID string, now time.Time) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(reqLines))
	for i, lineReq := range reqLines {
		lines[i] = domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lineReq.AccountID,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			LineOrder:   i + 1,
			Description: lineReq.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	return lines
}

// CreateDraft validates line shapes and account references and persists a
// DRAFT entry. Drafts may be unbalanced; balance is enforced at post time.
func (s *journalService) CreateDraft(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source := req.Source()
	if !source.Valid() {
		return nil, fmt.Errorf("%w: type %q: %w", ErrInvalidSource, source.Type, apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	lines := buildLines(entryID, req.Lines, actorID, now)

	if err := accounting.ValidateLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %w", err, apperrors.ErrValidation)
	}
	if err := s.validateAccounts(ctx, lines); err != nil {
		return nil, err
	}

	totalDebit, totalCredit := domain.Totals(lines)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   req.EntryDate,
		Status:      domain.Draft,
		Source:      source,
		Memo:        req.Memo,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.journalRepo.SaveDraft(ctx, entry, lines); err != nil {
		logger.Error("Failed to save draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}

	logger.Info("Draft entry created", slog.String("entry_id", entryID), slog.String("source_type", string(source.Type)))
	entry.Lines = lines
	return &entry, nil
}

// PostEntry transitions a DRAFT entry to POSTED. The entry number is
// allocated inside the repository transaction so no two posted entries can
// share one; a concurrent post of the same draft loses on the status
// predicate and surfaces apperrors.ErrConflict.
func (s *journalService) PostEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for posting", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry status is %s, expected DRAFT", apperrors.ErrConflict, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for posting", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
	}
	if err := accounting.ValidateLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %w", err, apperrors.ErrValidation)
	}
	if err := s.validatePostable(lines); err != nil {
		return nil, err
	}
	// Accounts may have been deactivated since the draft was created.
	if err := s.validateAccounts(ctx, lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	totalDebit, totalCredit := domain.Totals(lines)
	entryNumber, err := s.journalRepo.MarkPosted(ctx, entryID, entry.Source.NumberPrefix(), entry.EntryDate.Year(), totalDebit, totalCredit, actorID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Entry was posted concurrently", slog.String("entry_id", entryID))
			return nil, err
		}
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post entry: %w", err)
	}

	entry.EntryNumber = entryNumber
	entry.Status = domain.Posted
	entry.TotalDebit = totalDebit
	entry.TotalCredit = totalCredit
	entry.PostedBy = actorID
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID
	entry.Lines = lines

	logger.Info("Entry posted", slog.String("entry_id", entryID), slog.String("entry_number", entryNumber))
	return entry, nil
}

// VoidEntry transitions a POSTED entry to VOID. The lines stay in place for
// audit but stop counting toward any balance.
func (s *journalService) VoidEntry(ctx context.Context, entryID string, req dto.VoidEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for voiding", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if entry.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry status is %s, expected POSTED", apperrors.ErrConflict, entry.Status)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.MarkVoided(ctx, entryID, req.Reason, actorID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Entry was voided concurrently", slog.String("entry_id", entryID))
			return nil, err
		}
		logger.Error("Failed to void entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to void entry: %w", err)
	}

	entry.Status = domain.Void
	entry.VoidedBy = actorID
	entry.VoidedAt = &now
	entry.VoidReason = req.Reason
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID

	logger.Info("Entry voided", slog.String("entry_id", entryID), slog.String("reason", req.Reason))
	return entry, nil
}

// ReverseEntry creates the mirror-image draft of a POSTED entry: every debit
// becomes a credit and vice versa, so posting it zeroes the net effect on
// every touched account. The original stays POSTED; the caller reviews and
// posts the draft separately. Adjustment entries cannot themselves be
// reversed.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry status is %s, expected POSTED: %w", ErrVoidOfVoid, original.Status, apperrors.ErrConflict)
	}
	if original.Source.Type == domain.SourceAdjustment {
		return nil, fmt.Errorf("%w: entry %s: %w", ErrReverseOfReverse, original.EntryNumber, apperrors.ErrConflict)
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
	}

	memo := req.Memo
	if memo == "" {
		memo = fmt.Sprintf("Reversal of entry %s", original.EntryNumber)
	}

	reqLines := make([]dto.EntryLineRequest, len(originalLines))
	for i, line := range originalLines {
		reqLines[i] = dto.EntryLineRequest{
			AccountID:   line.AccountID,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
		}
	}

	createReq := dto.CreateEntryRequest{
		EntryDate:  time.Now().UTC(),
		Memo:       memo,
		SourceType: string(domain.SourceAdjustment),
		SourceID:   original.EntryID,
		Lines:      reqLines,
	}

	reversal, err := s.CreateDraft(ctx, createReq, actorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Reversal draft created", slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID))
	return reversal, nil
}

// RecordSourceEntry creates a balanced entry attributed to a business event
// and posts it immediately. This is the single call POS flows use so a sale
// or refund never lingers as a draft.
func (s *journalService) RecordSourceEntry(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	draft, err := s.CreateDraft(ctx, req, actorID)
	if err != nil {
		return nil, err
	}

	posted, err := s.PostEntry(ctx, draft.EntryID, actorID)
	if err != nil {
		// The draft survives so the caller can inspect and repair it.
		logger.Error("Failed to post source entry, draft retained", slog.String("error", err.Error()), slog.String("entry_id", draft.EntryID))
		return nil, err
	}
	return posted, nil
}

// GetEntryByID retrieves an entry together with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	logger.Debug("Entry retrieved", slog.String("entry_id", entryID), slog.Int("line_count", len(lines)))
	return entry, nil
}

// ListEntries returns a page of entries, optionally with their lines
// batch-loaded.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, params.Status, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to retrieve entries: %w", err)
	}

	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, entry := range entries {
			entryIDs[i] = entry.EntryID
		}
		linesMap, err := s.journalRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			logger.Warn("Failed to batch load lines for entries", slog.String("error", err.Error()))
		} else {
			for i := range entries {
				entries[i].Lines = linesMap[entries[i].EntryID]
			}
		}
	}

	token := ""
	if nextToken != nil {
		token = *nextToken
	}
	logger.Info("Entries listed", slog.Int("count", len(entries)))
	return entries, token, nil
}

// ListEntryLinesByAccount returns the posted lines touching an account,
// newest first.
func (s *journalService) ListEntryLinesByAccount(ctx context.Context, accountID string, limit int, nextToken string) ([]domain.JournalEntryLine, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if limit <= 0 {
		limit = 20
	}
	var tokenPtr *string
	if nextToken != "" {
		tokenPtr = &nextToken
	}

	lines, next, err := s.journalRepo.ListLinesByAccountID(ctx, accountID, limit, tokenPtr)
	if err != nil {
		logger.Error("Failed to list lines by account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, "", fmt.Errorf("failed to retrieve lines: %w", err)
	}

	token := ""
	if next != nil {
		token = *next
	}
	return lines, token, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
