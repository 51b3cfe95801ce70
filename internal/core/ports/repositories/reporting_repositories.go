package repositories

import (
	"context"
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the aggregation queries behind balances and
// statements. Every query scans POSTED entries only; nothing is cached.
type ReportingRepository interface {
	// GetAccountActivity sums the debit and credit sides of an account's
	// posted lines dated on or before asOf.
	GetAccountActivity(ctx context.Context, accountID string, asOf time.Time) (debit, credit decimal.Decimal, err error)

	// GetDebitCreditTotals sums an account's posted lines in an optional
	// date range (nil bound = unbounded).
	GetDebitCreditTotals(ctx context.Context, accountID string, from, to *time.Time) (debit, credit decimal.Decimal, err error)

	// GetTrialBalanceData returns per-account debit/credit sums as of a date.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetIncomeStatementData returns income and expense account net amounts
	// over a period, signed by their normal balance side.
	GetIncomeStatementData(ctx context.Context, from, to time.Time) (income, expenses []domain.AccountAmount, err error)

	// GetBalanceSheetData returns asset, liability and equity account net
	// amounts (opening balance included) as of a date.
	GetBalanceSheetData(ctx context.Context, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, err error)

	// GetNetIncomeBefore computes cumulative net income (income - expenses)
	// over all posted activity strictly before the cutoff date. Used for
	// retained earnings.
	GetNetIncomeBefore(ctx context.Context, cutoff time.Time) (decimal.Decimal, error)

	// GetCashFlowData returns net movement per cash-equivalent account
	// (CASH/BANK subtypes) over a period.
	GetCashFlowData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, error)
}
