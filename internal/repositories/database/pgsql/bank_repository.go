package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	"github.com/retailcore/pos_accounting/internal/core/domain"
	portsrepo "github.com/retailcore/pos_accounting/internal/core/ports/repositories"
	"github.com/retailcore/pos_accounting/internal/models"
	"github.com/retailcore/pos_accounting/internal/utils/mapping"
	"github.com/retailcore/pos_accounting/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBankRepository struct {
	BaseRepository
}

// newPgxBankRepository creates a new repository for bank data.
func newPgxBankRepository(pool *pgxpool.Pool) portsrepo.BankRepositoryFacade {
	return &PgxBankRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBankRepository implements portsrepo.BankRepositoryFacade
var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

const bankAccountColumns = `bank_account_id, gl_account_id, name, bank_name, account_number,
	current_balance, last_reconciled_date, last_reconciled_balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

const bankTxnColumns = `transaction_id, bank_account_id, kind, transaction_date, amount, memo,
	entry_id, is_reconciled, reconciliation_id,
	created_at, created_by, last_updated_at, last_updated_by`

const reconciliationColumns = `reconciliation_id, bank_account_id, statement_date, statement_balance,
	gl_balance, cleared_balance, difference, status, completed_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanBankAccount(row pgx.Row) (models.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(
		&m.BankAccountID,
		&m.GLAccountID,
		&m.Name,
		&m.BankName,
		&m.AccountNumber,
		&m.CurrentBalance,
		&m.LastReconciledDate,
		&m.LastReconciledBalance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanBankTxn(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.BankAccountID,
		&m.Kind,
		&m.TransactionDate,
		&m.Amount,
		&m.Memo,
		&m.EntryID,
		&m.IsReconciled,
		&m.ReconciliationID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanReconciliation(row pgx.Row) (models.BankReconciliation, error) {
	var m models.BankReconciliation
	err := row.Scan(
		&m.ReconciliationID,
		&m.BankAccountID,
		&m.StatementDate,
		&m.StatementBalance,
		&m.GLBalance,
		&m.ClearedBalance,
		&m.Difference,
		&m.Status,
		&m.CompletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBankAccount inserts a new bank account.
func (r *PgxBankRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankAccountID,
		m.GLAccountID,
		m.Name,
		m.BankName,
		m.AccountNumber,
		m.CurrentBalance,
		m.LastReconciledDate,
		m.LastReconciledBalance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save bank account "+m.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		WHERE bank_account_id = $1;
	`
	m, err := scanBankAccount(r.Pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find bank account "+bankAccountID, err)
	}

	domainAcc := mapping.ToDomainBankAccount(m)
	return &domainAcc, nil
}

// ListBankAccounts retrieves all bank accounts ordered by name.
func (r *PgxBankRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	query := `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bank accounts", err)
	}
	defer rows.Close()

	accounts := []domain.BankAccount{}
	for rows.Next() {
		m, err := scanBankAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan bank account row", err)
		}
		accounts = append(accounts, mapping.ToDomainBankAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating bank account rows", err)
	}
	return accounts, nil
}

// RecordBankTransaction inserts the transaction and moves the bank account's
// running balance in one database transaction. Deposits add, withdrawals
// subtract.
func (r *PgxBankRepository) RecordBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBankTransaction(txn)
	insertQuery := `
		INSERT INTO bank_transactions (` + bankTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.TransactionID,
		m.BankAccountID,
		m.Kind,
		m.TransactionDate,
		m.Amount,
		m.Memo,
		m.EntryID,
		m.IsReconciled,
		m.ReconciliationID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert bank transaction "+m.TransactionID, err)
	}

	balanceQuery := `
		UPDATE bank_accounts
		SET current_balance = current_balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`
	tag, err := tx.Exec(ctx, balanceQuery,
		m.BankAccountID,
		txn.SignedAmount(),
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to move balance for bank account "+m.BankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// ListBankTransactions retrieves a page of a bank account's transactions,
// newest first. The keyset cursor rides on created_at alone.
func (r *PgxBankRepository) ListBankTransactions(ctx context.Context, bankAccountID string, unreconciledOnly bool, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `
		SELECT ` + bankTxnColumns + `
		FROM bank_transactions
		WHERE bank_account_id = $1
	`
	args := []interface{}{bankAccountID}
	if unreconciledOnly {
		query += " AND is_reconciled = FALSE"
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query bank transactions for account "+bankAccountID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.BankTransaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanBankTxn(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan bank transaction row", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating bank transaction rows", err)
	}

	var nextTokenVal *string
	if len(modelTxns) > limit {
		token := pagination.EncodeDateBasedToken(modelTxns[limit-1].CreatedAt)
		nextTokenVal = &token
		modelTxns = modelTxns[:limit]
	}

	txns := make([]domain.BankTransaction, len(modelTxns))
	for i, m := range modelTxns {
		txns[i] = mapping.ToDomainBankTransaction(m)
	}
	return txns, nextTokenVal, nil
}

// FindBankTransactionsByIDs retrieves transactions by ID. Any missing ID
// yields ErrNotFound so a reconciliation can never silently skip one.
func (r *PgxBankRepository) FindBankTransactionsByIDs(ctx context.Context, transactionIDs []string) ([]domain.BankTransaction, error) {
	if len(transactionIDs) == 0 {
		return []domain.BankTransaction{}, nil
	}

	query := `
		SELECT ` + bankTxnColumns + `
		FROM bank_transactions
		WHERE transaction_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bank transactions by IDs", err)
	}
	defer rows.Close()

	txns := []domain.BankTransaction{}
	for rows.Next() {
		m, err := scanBankTxn(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan bank transaction row", err)
		}
		txns = append(txns, mapping.ToDomainBankTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating bank transaction rows", err)
	}

	if len(txns) != len(transactionIDs) {
		return nil, fmt.Errorf("%w: %d of %d transactions found", apperrors.ErrNotFound, len(txns), len(transactionIDs))
	}
	return txns, nil
}

// SaveReconciliation persists a new in-progress reconciliation. The partial
// unique index on (bank_account_id) WHERE status = 'IN_PROGRESS' rejects a
// second open session for the same bank account with ErrConflict.
func (r *PgxBankRepository) SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error {
	m := mapping.ToModelBankReconciliation(rec)
	query := `
		INSERT INTO bank_reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReconciliationID,
		m.BankAccountID,
		m.StatementDate,
		m.StatementBalance,
		m.GLBalance,
		m.ClearedBalance,
		m.Difference,
		m.Status,
		m.CompletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: bank account %s already has an open reconciliation", apperrors.ErrConflict, m.BankAccountID)
		}
		return apperrors.NewAppError(500, "failed to save reconciliation "+m.ReconciliationID, err)
	}
	return nil
}

// FindReconciliationByID retrieves a reconciliation by its ID.
func (r *PgxBankRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM bank_reconciliations
		WHERE reconciliation_id = $1;
	`
	m, err := scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation "+reconciliationID, err)
	}

	domainRec := mapping.ToDomainBankReconciliation(m)
	return &domainRec, nil
}

// ListReconciliations retrieves a bank account's reconciliations, newest first.
func (r *PgxBankRepository) ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.BankReconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM bank_reconciliations
		WHERE bank_account_id = $1
		ORDER BY statement_date DESC;
	`
	rows, err := r.Pool.Query(ctx, query, bankAccountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliations for account "+bankAccountID, err)
	}
	defer rows.Close()

	recs := []domain.BankReconciliation{}
	for rows.Next() {
		m, err := scanReconciliation(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciliation row", err)
		}
		recs = append(recs, mapping.ToDomainBankReconciliation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation rows", err)
	}
	return recs, nil
}

// CompleteReconciliation marks the reconciliation COMPLETED, flags the
// cleared transactions, and stamps the bank account's last reconciled
// date/balance, all in one database transaction. Status predicates guard
// against concurrent completion and double-clearing.
func (r *PgxBankRepository) CompleteReconciliation(ctx context.Context, reconciliationID string, clearedBalance, difference decimal.Decimal, clearedTransactionIDs []string, completedBy string, completedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	completeQuery := `
		UPDATE bank_reconciliations
		SET status = 'COMPLETED', cleared_balance = $2, difference = $3,
		    completed_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE reconciliation_id = $1 AND status = 'IN_PROGRESS'
		RETURNING bank_account_id, statement_date;
	`
	var bankAccountID string
	var statementDate time.Time
	err = tx.QueryRow(ctx, completeQuery, reconciliationID, clearedBalance, difference, completedAt, completedBy).Scan(&bankAccountID, &statementDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: reconciliation %s is not in progress", apperrors.ErrConflict, reconciliationID)
		}
		return apperrors.NewAppError(500, "failed to complete reconciliation "+reconciliationID, err)
	}

	if len(clearedTransactionIDs) > 0 {
		clearQuery := `
			UPDATE bank_transactions
			SET is_reconciled = TRUE, reconciliation_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE transaction_id = ANY($1) AND is_reconciled = FALSE;
		`
		tag, err := tx.Exec(ctx, clearQuery, clearedTransactionIDs, reconciliationID, completedAt, completedBy)
		if err != nil {
			return apperrors.NewAppError(500, "failed to flag cleared transactions for reconciliation "+reconciliationID, err)
		}
		if int(tag.RowsAffected()) != len(clearedTransactionIDs) {
			return fmt.Errorf("%w: a cleared transaction was reconciled concurrently", apperrors.ErrConflict)
		}
	}

	stampQuery := `
		UPDATE bank_accounts
		SET last_reconciled_date = $2, last_reconciled_balance = $3, last_updated_at = $4, last_updated_by = $5
		WHERE bank_account_id = $1;
	`
	tag, err := tx.Exec(ctx, stampQuery, bankAccountID, statementDate, clearedBalance, completedAt, completedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp bank account "+bankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
