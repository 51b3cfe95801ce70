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
	"github.com/shopspring/decimal"
)

var (
	ErrNotCashAccount      = errors.New("GL account must be a CASH or BANK subtype asset account")
	ErrBankTxnNotPositive  = errors.New("bank transaction amount must be positive")
	ErrWrongBankAccount    = errors.New("transaction belongs to a different bank account")
	ErrAlreadyReconciled   = errors.New("transaction is already reconciled")
	ErrReconciliationOpen  = errors.New("reconciliation is not in progress")
	ErrDifferenceRemaining = errors.New("reconciliation difference is not zero")
)

// bankService manages bank accounts, statement transactions and the
// reconciliation workflow.
type bankService struct {
	BaseService
	bankRepo      portsrepo.BankRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
}

// NewBankService creates a new BankService.
func NewBankService(bankRepo portsrepo.BankRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository) portssvc.BankSvcFacade {
	return &bankService{
		bankRepo:      bankRepo,
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.BankSvcFacade = (*bankService)(nil)

// CreateBankAccount persists a bank account linked to a cash-equivalent GL
// account.
func (s *bankService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actorID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	glAccount, err := s.accountRepo.FindAccountByID(ctx, req.GLAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("GL account %s not found: %w", req.GLAccountID, apperrors.ErrValidation)
		}
		logger.Error("Failed to fetch GL account for bank account", slog.String("error", err.Error()), slog.String("gl_account_id", req.GLAccountID))
		return nil, fmt.Errorf("failed to fetch GL account: %w", err)
	}
	if glAccount.AccountType != domain.Asset || (glAccount.Subtype != domain.SubtypeCash && glAccount.Subtype != domain.SubtypeBank) {
		return nil, fmt.Errorf("%w: account %s is %s/%s: %w", ErrNotCashAccount, req.GLAccountID, glAccount.AccountType, glAccount.Subtype, apperrors.ErrValidation)
	}
	if !glAccount.IsActive {
		return nil, fmt.Errorf("%w: ID %s: %w", ErrAccountInactive, req.GLAccountID, apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		GLAccountID:    req.GLAccountID,
		Name:           req.Name,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		CurrentBalance: req.OpeningBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.bankRepo.SaveBankAccount(ctx, account); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()), slog.String("bank_account_name", req.Name))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID), slog.String("gl_account_id", req.GLAccountID))
	return &account, nil
}

// GetBankAccountByID retrieves a bank account by ID.
func (s *bankService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find bank account", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		}
		return nil, err
	}
	return account, nil
}

// ListBankAccounts returns all bank accounts.
func (s *bankService) ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.bankRepo.ListBankAccounts(ctx)
	if err != nil {
		logger.Error("Failed to list bank accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	if !activeOnly {
		return accounts, nil
	}
	active := make([]domain.BankAccount, 0, len(accounts))
	for _, account := range accounts {
		if account.IsActive {
			active = append(active, account)
		}
	}
	return active, nil
}

// RecordBankTransaction records a statement line. The repository moves the
// bank account's running balance in the same database transaction.
func (s *bankService) RecordBankTransaction(ctx context.Context, bankAccountID string, req dto.RecordBankTransactionRequest, actorID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find bank account for transaction", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("bank account %s is inactive: %w", bankAccountID, apperrors.ErrValidation)
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s: %w", ErrBankTxnNotPositive, req.Amount, apperrors.ErrValidation)
	}
	if !req.Amount.Round(2).Equal(req.Amount) {
		return nil, fmt.Errorf("transaction amount exceeds 2 decimal places: %s: %w", req.Amount, apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	txn := domain.BankTransaction{
		TransactionID:   uuid.NewString(),
		BankAccountID:   bankAccountID,
		Kind:            domain.BankTransactionKind(req.Kind),
		TransactionDate: req.TransactionDate,
		Amount:          req.Amount,
		Memo:            req.Memo,
		EntryID:         req.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.bankRepo.RecordBankTransaction(ctx, txn); err != nil {
		logger.Error("Failed to record bank transaction", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to record bank transaction: %w", err)
	}

	logger.Info("Bank transaction recorded", slog.String("transaction_id", txn.TransactionID), slog.String("kind", req.Kind))
	return &txn, nil
}

// ListBankTransactions returns a page of statement lines for a bank account.
func (s *bankService) ListBankTransactions(ctx context.Context, bankAccountID string, unreconciledOnly bool, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID); err != nil {
		return nil, nil, err
	}

	txns, token, err := s.bankRepo.ListBankTransactions(ctx, bankAccountID, unreconciledOnly, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list bank transactions", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, nil, fmt.Errorf("failed to list bank transactions: %w", err)
	}
	return txns, token, nil
}

// StartReconciliation opens an IN_PROGRESS reconciliation, snapshotting the
// GL-side book balance of the linked account as of the statement date.
func (s *bankService) StartReconciliation(ctx context.Context, bankAccountID string, req dto.StartReconciliationRequest, actorID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find bank account for reconciliation", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		}
		return nil, err
	}

	glBalance, err := s.glBalanceAsOf(ctx, account.GLAccountID, req.StatementDate)
	if err != nil {
		logger.Error("Failed to compute GL balance for reconciliation", slog.String("error", err.Error()), slog.String("gl_account_id", account.GLAccountID))
		return nil, fmt.Errorf("failed to compute GL balance: %w", err)
	}

	lastReconciled := decimal.Zero
	if account.LastReconciledBalance != nil {
		lastReconciled = *account.LastReconciledBalance
	}

	now := time.Now().UTC()
	rec := domain.BankReconciliation{
		ReconciliationID: uuid.NewString(),
		BankAccountID:    bankAccountID,
		StatementDate:    req.StatementDate,
		StatementBalance: req.StatementBalance,
		GLBalance:        glBalance,
		ClearedBalance:   lastReconciled,
		Difference:       req.StatementBalance.Sub(lastReconciled),
		Status:           domain.ReconciliationInProgress,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.bankRepo.SaveReconciliation(ctx, rec); err != nil {
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}

	logger.Info("Reconciliation started", slog.String("reconciliation_id", rec.ReconciliationID), slog.String("bank_account_id", bankAccountID))
	return &rec, nil
}

// glBalanceAsOf derives the book balance of a GL account from its posted
// activity plus its opening balance.
func (s *bankService) glBalanceAsOf(ctx context.Context, glAccountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, glAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	debit, credit, err := s.reportingRepo.GetAccountActivity(ctx, glAccountID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.Balance(account.OpeningBalance, account.AccountType.NormalBalance(), debit, credit), nil
}

// ListReconciliations returns a bank account's reconciliation history.
func (s *bankService) ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID); err != nil {
		return nil, err
	}

	recs, err := s.bankRepo.ListReconciliations(ctx, bankAccountID)
	if err != nil {
		logger.Error("Failed to list reconciliations", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	return recs, nil
}

// GetReconciliationByID retrieves a reconciliation by ID.
func (s *bankService) GetReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rec, err := s.bankRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		}
		return nil, err
	}
	return rec, nil
}

// CompleteReconciliation recomputes the cleared balance server-side from the
// submitted transaction set and completes only on an exact zero difference.
// Client-supplied balances are never trusted.
func (s *bankService) CompleteReconciliation(ctx context.Context, reconciliationID string, req dto.CompleteReconciliationRequest, actorID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rec, err := s.bankRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find reconciliation for completion", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		}
		return nil, err
	}
	if rec.Status != domain.ReconciliationInProgress {
		return nil, fmt.Errorf("%w: status is %s: %w", ErrReconciliationOpen, rec.Status, apperrors.ErrConflict)
	}

	account, err := s.bankRepo.FindBankAccountByID(ctx, rec.BankAccountID)
	if err != nil {
		logger.Error("Failed to find bank account for completion", slog.String("error", err.Error()), slog.String("bank_account_id", rec.BankAccountID))
		return nil, err
	}

	cleared, err := s.bankRepo.FindBankTransactionsByIDs(ctx, req.ClearedTransactionIDs)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch cleared transactions", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		}
		return nil, err
	}
	for _, txn := range cleared {
		if txn.BankAccountID != rec.BankAccountID {
			return nil, fmt.Errorf("%w: transaction %s: %w", ErrWrongBankAccount, txn.TransactionID, apperrors.ErrValidation)
		}
		if txn.IsReconciled {
			return nil, fmt.Errorf("%w: transaction %s: %w", ErrAlreadyReconciled, txn.TransactionID, apperrors.ErrConflict)
		}
	}

	lastReconciled := decimal.Zero
	if account.LastReconciledBalance != nil {
		lastReconciled = *account.LastReconciledBalance
	}
	clearedBalance := accounting.ClearedBalance(lastReconciled, cleared)
	difference := rec.StatementBalance.Sub(clearedBalance)

	if !difference.IsZero() {
		return nil, fmt.Errorf("%w: %s remaining: %w", ErrDifferenceRemaining, difference, apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	if err := s.bankRepo.CompleteReconciliation(ctx, reconciliationID, clearedBalance, difference, req.ClearedTransactionIDs, actorID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Reconciliation completed concurrently", slog.String("reconciliation_id", reconciliationID))
			return nil, err
		}
		logger.Error("Failed to complete reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to complete reconciliation: %w", err)
	}

	rec.ClearedBalance = clearedBalance
	rec.Difference = difference
	rec.Status = domain.ReconciliationCompleted
	rec.CompletedAt = &now
	rec.LastUpdatedAt = now
	rec.LastUpdatedBy = actorID

	logger.Info("Reconciliation completed", slog.String("reconciliation_id", reconciliationID), slog.Int("cleared_count", len(cleared)))
	return rec, nil
}
