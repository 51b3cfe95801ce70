package services

import (
	"context"
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingSvc defines derived balance and report calculations. Balances
// are always computed from posted lines, never read from a cached column.
type ReportingSvc interface {
	// AccountBalance computes an account's balance as of a date,
	// including its opening balance.
	AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// AccountActivity computes debit and credit totals for an account
	// within an optional date range.
	AccountActivity(ctx context.Context, accountID string, from, to *time.Time) (debit, credit decimal.Decimal, err error)

	// TrialBalance lists every active account with its debit or credit
	// balance as of a date.
	TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// IncomeStatement aggregates income and expense activity over a period.
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)

	// BalanceSheet reports assets, liabilities and equity as of a date,
	// folding earnings before the fiscal year into retained earnings.
	BalanceSheet(ctx context.Context, asOf time.Time, fiscalYear domain.FiscalYear) (*domain.BalanceSheetReport, error)

	// CashFlow aggregates movements through cash accounts over a period.
	CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error)
}
