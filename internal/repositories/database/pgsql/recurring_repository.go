package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	"github.com/retailcore/pos_accounting/internal/core/domain"
	portsrepo "github.com/retailcore/pos_accounting/internal/core/ports/repositories"
	"github.com/retailcore/pos_accounting/internal/models"
	"github.com/retailcore/pos_accounting/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring templates.
func newPgxRecurringRepository(pool *pgxpool.Pool) portsrepo.RecurringRepositoryFacade {
	return &PgxRecurringRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRecurringRepository implements portsrepo.RecurringRepositoryFacade
var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

const recurringColumns = `recurring_id, name, memo, frequency, day_of_week, day_of_month, month_of_year,
	start_date, end_date, next_run_date, last_run_date, occurrences, max_occurrences, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

const recurringLineColumns = `line_id, recurring_id, account_id, debit, credit, line_order, description`

func scanRecurring(row pgx.Row) (models.RecurringJournalEntry, error) {
	var m models.RecurringJournalEntry
	err := row.Scan(
		&m.RecurringID,
		&m.Name,
		&m.Memo,
		&m.Frequency,
		&m.DayOfWeek,
		&m.DayOfMonth,
		&m.MonthOfYear,
		&m.StartDate,
		&m.EndDate,
		&m.NextRunDate,
		&m.LastRunDate,
		&m.Occurrences,
		&m.MaxOccurrences,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertRecurringLines queues template line inserts onto a batch.
func insertRecurringLines(batch *pgx.Batch, lines []domain.RecurringJournalEntryLine) {
	lineQuery := `
		INSERT INTO recurring_journal_entry_lines (` + recurringLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelRecurringLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.RecurringID,
			modelLine.AccountID,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.LineOrder,
			modelLine.Description,
		)
	}
}

// SaveRecurring persists a new template and its lines in one transaction.
func (r *PgxRecurringRepository) SaveRecurring(ctx context.Context, recurring domain.RecurringJournalEntry, lines []domain.RecurringJournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelRec := mapping.ToModelRecurring(recurring)
	query := `
		INSERT INTO recurring_journal_entries (` + recurringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		modelRec.RecurringID,
		modelRec.Name,
		modelRec.Memo,
		modelRec.Frequency,
		modelRec.DayOfWeek,
		modelRec.DayOfMonth,
		modelRec.MonthOfYear,
		modelRec.StartDate,
		modelRec.EndDate,
		modelRec.NextRunDate,
		modelRec.LastRunDate,
		modelRec.Occurrences,
		modelRec.MaxOccurrences,
		modelRec.IsActive,
		modelRec.CreatedAt,
		modelRec.CreatedBy,
		modelRec.LastUpdatedAt,
		modelRec.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert recurring template "+modelRec.RecurringID, err)
	}

	batch := &pgx.Batch{}
	insertRecurringLines(batch, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for recurring template "+modelRec.RecurringID, err)
	}

	return r.Commit(ctx, tx)
}

// FindRecurringByID retrieves a template with its lines.
func (r *PgxRecurringRepository) FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringJournalEntry, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_journal_entries
		WHERE recurring_id = $1;
	`
	modelRec, err := scanRecurring(r.Pool.QueryRow(ctx, query, recurringID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find recurring template "+recurringID, err)
	}

	lines, err := r.findLines(ctx, recurringID)
	if err != nil {
		return nil, err
	}

	domainRec := mapping.ToDomainRecurring(modelRec)
	domainRec.Lines = lines
	return &domainRec, nil
}

func (r *PgxRecurringRepository) findLines(ctx context.Context, recurringID string) ([]domain.RecurringJournalEntryLine, error) {
	query := `
		SELECT ` + recurringLineColumns + `
		FROM recurring_journal_entry_lines
		WHERE recurring_id = $1
		ORDER BY line_order;
	`
	rows, err := r.Pool.Query(ctx, query, recurringID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for recurring template "+recurringID, err)
	}
	defer rows.Close()

	lines := []domain.RecurringJournalEntryLine{}
	for rows.Next() {
		var m models.RecurringJournalEntryLine
		err := rows.Scan(
			&m.LineID,
			&m.RecurringID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.LineOrder,
			&m.Description,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recurring line row", err)
		}
		lines = append(lines, mapping.ToDomainRecurringLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recurring line rows", err)
	}
	return lines, nil
}

// ListRecurring retrieves templates ordered by next run date.
func (r *PgxRecurringRepository) ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringJournalEntry, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_journal_entries
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY next_run_date, name;"

	return r.queryTemplates(ctx, query)
}

// ListDue retrieves active templates whose next run date is on or before asOf
// and that are not past their end date or occurrence cap.
func (r *PgxRecurringRepository) ListDue(ctx context.Context, asOf time.Time) ([]domain.RecurringJournalEntry, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_journal_entries
		WHERE is_active = TRUE
		  AND next_run_date <= $1
		  AND (end_date IS NULL OR end_date >= $1)
		  AND (max_occurrences IS NULL OR occurrences < max_occurrences)
		ORDER BY next_run_date;
	`
	templates, err := r.queryTemplates(ctx, query, asOf)
	if err != nil {
		return nil, err
	}

	// Generation needs the lines; load them per template. Due sets are small.
	for i := range templates {
		lines, err := r.findLines(ctx, templates[i].RecurringID)
		if err != nil {
			return nil, err
		}
		templates[i].Lines = lines
	}
	return templates, nil
}

func (r *PgxRecurringRepository) queryTemplates(ctx context.Context, query string, args ...interface{}) ([]domain.RecurringJournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring templates", err)
	}
	defer rows.Close()

	templates := []domain.RecurringJournalEntry{}
	for rows.Next() {
		m, err := scanRecurring(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recurring template row", err)
		}
		templates = append(templates, mapping.ToDomainRecurring(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recurring template rows", err)
	}
	return templates, nil
}

// UpdateRecurring replaces a template's details and its whole line set.
func (r *PgxRecurringRepository) UpdateRecurring(ctx context.Context, recurring domain.RecurringJournalEntry, lines []domain.RecurringJournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelRec := mapping.ToModelRecurring(recurring)
	query := `
		UPDATE recurring_journal_entries
		SET name = $2, memo = $3, end_date = $4, max_occurrences = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE recurring_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		modelRec.RecurringID,
		modelRec.Name,
		modelRec.Memo,
		modelRec.EndDate,
		modelRec.MaxOccurrences,
		modelRec.LastUpdatedAt,
		modelRec.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update recurring template "+modelRec.RecurringID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recurring_journal_entry_lines WHERE recurring_id = $1;`, modelRec.RecurringID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines for recurring template "+modelRec.RecurringID, err)
	}

	batch := &pgx.Batch{}
	insertRecurringLines(batch, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for recurring template "+modelRec.RecurringID, err)
	}

	return r.Commit(ctx, tx)
}

// DeactivateRecurring marks a template inactive.
func (r *PgxRecurringRepository) DeactivateRecurring(ctx context.Context, recurringID string, actorID string, now time.Time) error {
	query := `
		UPDATE recurring_journal_entries
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE recurring_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, recurringID, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate recurring template "+recurringID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordRun atomically claims one (template, day) occurrence, inserts the
// generated entry as POSTED with a freshly allocated number, and advances
// the schedule. The unique index on recurring_entry_runs makes the claim the
// idempotency gate: a second run for the same day hits 23505, everything
// rolls back, and ErrDuplicate is returned.
func (r *PgxRecurringRepository) RecordRun(ctx context.Context, recurring domain.RecurringJournalEntry, runDate time.Time, nextRunDate time.Time, entry domain.JournalEntry, lines []domain.JournalEntryLine) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	claimQuery := `
		INSERT INTO recurring_entry_runs (run_id, recurring_id, run_date, entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, claimQuery,
		uuid.NewString(),
		recurring.RecurringID,
		runDate,
		entry.EntryID,
		entry.CreatedAt,
		entry.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return "", fmt.Errorf("%w: template %s already ran on %s", apperrors.ErrDuplicate, recurring.RecurringID, runDate.Format("2006-01-02"))
		}
		return "", apperrors.NewAppError(500, "failed to claim recurring run for template "+recurring.RecurringID, err)
	}

	entryNumber, err := allocateEntryNumber(ctx, tx, entry.Source.NumberPrefix(), entry.EntryDate.Year())
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to allocate entry number", err)
	}

	modelEntry := mapping.ToModelJournalEntry(entry)
	modelEntry.EntryNumber = &entryNumber
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.EntryNumber,
		modelEntry.EntryDate,
		modelEntry.Status,
		modelEntry.SourceType,
		modelEntry.SourceID,
		modelEntry.Memo,
		modelEntry.TotalDebit,
		modelEntry.TotalCredit,
		modelEntry.PostedBy,
		modelEntry.PostedAt,
		modelEntry.VoidedBy,
		modelEntry.VoidedAt,
		modelEntry.VoidReason,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to insert generated entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	insertLines(batch, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return "", apperrors.NewAppError(500, "failed to insert lines for generated entry "+modelEntry.EntryID, err)
	}

	scheduleQuery := `
		UPDATE recurring_journal_entries
		SET next_run_date = $2, last_run_date = $3, occurrences = occurrences + 1,
		    last_updated_at = $4, last_updated_by = $5
		WHERE recurring_id = $1;
	`
	tag, err := tx.Exec(ctx, scheduleQuery,
		recurring.RecurringID,
		nextRunDate,
		runDate,
		entry.CreatedAt,
		entry.CreatedBy,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to advance schedule for template "+recurring.RecurringID, err)
	}
	if tag.RowsAffected() == 0 {
		return "", apperrors.ErrNotFound
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}
