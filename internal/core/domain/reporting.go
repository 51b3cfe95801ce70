package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatementReport nets income against expenses over a period.
type IncomeStatementReport struct {
	Income    []AccountAmount `json:"income"`
	Expenses  []AccountAmount `json:"expenses"`
	NetIncome decimal.Decimal `json:"netIncome"`
}

// BalanceSheetReport snapshots assets, liabilities and equity as of a date.
// RetainedEarnings carries cumulative net income of prior fiscal years into
// the equity section.
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// CashFlowReport sums the movement of cash-equivalent accounts over a period.
type CashFlowReport struct {
	Inflows     []AccountAmount `json:"inflows"`
	Outflows    []AccountAmount `json:"outflows"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
}
