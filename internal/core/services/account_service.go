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
)

var (
	ErrInvalidSubtype      = errors.New("subtype does not belong to the account type")
	ErrParentTypeMismatch  = errors.New("parent account must have the same account type")
	ErrSystemAccount       = errors.New("system accounts cannot be deactivated")
	ErrAccountHasChildren  = errors.New("account with active children cannot be deactivated")
	ErrNegativeOpening     = errors.New("opening balance must not be negative")
	ErrOpeningDateRequired = errors.New("opening balance date is required when an opening balance is set")
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates and persists a new account.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountType := domain.AccountType(req.AccountType)
	subtype := domain.AccountSubtype(req.Subtype)
	if !domain.ValidSubtype(accountType, subtype) {
		return nil, fmt.Errorf("%w: %s is not a %s subtype: %w", ErrInvalidSubtype, subtype, accountType, apperrors.ErrValidation)
	}

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: %w", ErrNegativeOpening, apperrors.ErrValidation)
	}
	if !req.OpeningBalance.IsZero() && req.OpeningBalanceDate.IsZero() {
		return nil, fmt.Errorf("%w: %w", ErrOpeningDateRequired, apperrors.ErrValidation)
	}

	// A parent must exist and share the account type so subtree rollups
	// stay within one statement section.
	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("parent account %s not found: %w", req.ParentAccountID, apperrors.ErrValidation)
			}
			logger.Error("Failed to fetch parent account", slog.String("error", err.Error()), slog.String("parent_account_id", req.ParentAccountID))
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if parent.AccountType != accountType {
			return nil, fmt.Errorf("%w: parent is %s, child is %s: %w", ErrParentTypeMismatch, parent.AccountType, accountType, apperrors.ErrValidation)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:          uuid.NewString(),
		Name:               req.Name,
		AccountType:        accountType,
		Subtype:            subtype,
		ParentAccountID:    req.ParentAccountID,
		Description:        req.Description,
		OpeningBalance:     req.OpeningBalance,
		OpeningBalanceDate: req.OpeningBalanceDate,
		IsActive:           true,
		IsSystem:           req.IsSystem,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_name", req.Name))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("account_type", string(accountType)))
	return &account, nil
}

// GetAccountByID retrieves a specific account by ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts by IDs", slog.String("error", err.Error()), slog.Int("count", len(accountIDs)))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accountsMap, nil
}

// ListAccounts retrieves accounts matching the filter.
func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount applies partial updates to an account's details. Type and
// opening balance are immutable once the account exists.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for update", slog.String("account_id", accountID))
		} else {
			logger.Error("Failed to find account for update", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Subtype != nil {
		subtype := domain.AccountSubtype(*req.Subtype)
		if !domain.ValidSubtype(account.AccountType, subtype) {
			return nil, fmt.Errorf("%w: %s is not a %s subtype: %w", ErrInvalidSubtype, subtype, account.AccountType, apperrors.ErrValidation)
		}
		account.Subtype = subtype
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actorID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to save account update", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to save account update: %w", err)
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount removes an account from use. An account with postings is
// soft-deleted so historical entries keep resolving; one that never posted
// has no history to preserve and its row is deleted outright.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for deactivation", slog.String("account_id", accountID))
		} else {
			logger.Error("Failed to find account for deactivation", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	if account.IsSystem {
		return fmt.Errorf("%w: %s: %w", ErrSystemAccount, accountID, apperrors.ErrConflict)
	}
	if !account.IsActive {
		logger.Debug("Account already inactive", slog.String("account_id", accountID))
		return nil
	}

	children, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{ParentID: &accountID, ActiveOnly: true})
	if err != nil {
		logger.Error("Failed to check for child accounts", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to check for child accounts: %w", err)
	}
	if len(children) > 0 {
		return fmt.Errorf("%w: %s has %d active children: %w", ErrAccountHasChildren, accountID, len(children), apperrors.ErrConflict)
	}

	hasPostings, err := s.accountRepo.HasPostings(ctx, accountID)
	if err != nil {
		logger.Error("Failed to check postings", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to check postings: %w", err)
	}

	if !hasPostings {
		err := s.accountRepo.DeleteAccount(ctx, accountID)
		if err == nil {
			logger.Info("Account deleted", slog.String("account_id", accountID))
			return nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
			return fmt.Errorf("failed to delete account: %w", err)
		}
		// Referenced by a recurring template or bank account; keep the row.
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, actorID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated successfully", slog.String("account_id", accountID))
	return nil
}
