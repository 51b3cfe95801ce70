package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	"github.com/retailcore/pos_accounting/internal/core/domain"
	portsrepo "github.com/retailcore/pos_accounting/internal/core/ports/repositories"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
	"github.com/retailcore/pos_accounting/internal/middleware"
	"github.com/retailcore/pos_accounting/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService derives balances and statements from posted activity.
// Nothing here writes; every figure is recomputed from the lines on each
// call so voids and late postings are reflected immediately.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountRepositoryFacade) portssvc.ReportingSvc {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// AccountBalance computes an account's balance as of a date: opening balance
// plus posted activity, signed by the account's normal side.
func (s *reportingService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return decimal.Zero, err
	}

	debit, credit, err := s.reportingRepo.GetAccountActivity(ctx, accountID, asOf)
	if err != nil {
		logger.Error("Failed to fetch account activity", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to fetch account activity: %w", err)
	}

	balance := accounting.Balance(account.OpeningBalance, account.AccountType.NormalBalance(), debit, credit)
	logger.Debug("Account balance computed", slog.String("account_id", accountID), slog.String("balance", balance.String()))
	return balance, nil
}

// AccountActivity computes raw debit and credit totals for an account in an
// optional date range.
func (s *reportingService) AccountActivity(ctx context.Context, accountID string, from, to *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	debit, credit, err := s.reportingRepo.GetDebitCreditTotals(ctx, accountID, from, to)
	if err != nil {
		logger.Error("Failed to fetch debit/credit totals", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to fetch activity totals: %w", err)
	}
	return debit, credit, nil
}

// TrialBalance lists every active account with its balance placed on the
// debit or credit column. Total debits always equal total credits when the
// ledger is consistent.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		logger.Error("Failed to fetch trial balance data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch trial balance data: %w", err)
	}

	logger.Info("Trial balance computed", slog.Int("account_count", len(rows)))
	return rows, nil
}

// IncomeStatement aggregates income and expense activity over a period and
// nets them into a profit or loss figure.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	income, expenses, err := s.reportingRepo.GetIncomeStatementData(ctx, from, to)
	if err != nil {
		logger.Error("Failed to fetch income statement data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch income statement data: %w", err)
	}

	totalIncome := sumAmounts(income)
	totalExpenses := sumAmounts(expenses)
	report := &domain.IncomeStatementReport{
		Income:    income,
		Expenses:  expenses,
		NetIncome: totalIncome.Sub(totalExpenses),
	}

	logger.Info("Income statement computed", slog.String("net_income", report.NetIncome.String()))
	return report, nil
}

// BalanceSheet reports assets, liabilities and equity as of a date. Income
// and expense accounts never appear directly; their cumulative effect up to
// the fiscal year start folds into the retained earnings equity line, and
// the current year's net income is carried so the statement still balances.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time, fiscalYear domain.FiscalYear) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, asOf)
	if err != nil {
		logger.Error("Failed to fetch balance sheet data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch balance sheet data: %w", err)
	}

	retainedEarnings, err := s.reportingRepo.GetNetIncomeBefore(ctx, fiscalYear.Start)
	if err != nil {
		logger.Error("Failed to compute retained earnings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute retained earnings: %w", err)
	}

	// Net income of the current fiscal year up to asOf.
	currentIncome, currentExpenses, err := s.reportingRepo.GetIncomeStatementData(ctx, fiscalYear.Start, asOf)
	if err != nil {
		logger.Error("Failed to fetch current year activity", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch current year activity: %w", err)
	}
	currentNetIncome := sumAmounts(currentIncome).Sub(sumAmounts(currentExpenses))

	report := &domain.BalanceSheetReport{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		RetainedEarnings: retainedEarnings,
		TotalAssets:      sumAmounts(assets),
		TotalLiabilities: sumAmounts(liabilities),
	}
	report.TotalEquity = sumAmounts(equity).Add(retainedEarnings).Add(currentNetIncome)

	logger.Info("Balance sheet computed",
		slog.String("total_assets", report.TotalAssets.String()),
		slog.String("total_liabilities", report.TotalLiabilities.String()),
		slog.String("total_equity", report.TotalEquity.String()))
	return report, nil
}

// CashFlow aggregates net movement through cash-equivalent accounts over a
// period, split into inflows and outflows.
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	movements, err := s.reportingRepo.GetCashFlowData(ctx, from, to)
	if err != nil {
		logger.Error("Failed to fetch cash flow data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch cash flow data: %w", err)
	}

	report := &domain.CashFlowReport{
		Inflows:  make([]domain.AccountAmount, 0, len(movements)),
		Outflows: make([]domain.AccountAmount, 0),
	}
	net := decimal.Zero
	for _, movement := range movements {
		net = net.Add(movement.NetAmount)
		if movement.NetAmount.IsNegative() {
			report.Outflows = append(report.Outflows, movement)
		} else {
			report.Inflows = append(report.Inflows, movement)
		}
	}
	report.NetCashFlow = net

	logger.Info("Cash flow computed", slog.String("net_cash_flow", net.String()))
	return report, nil
}

// sumAmounts totals the net amounts of a report section.
func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount.NetAmount)
	}
	return total
}
