package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide indicates which side of the ledger increases an account.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// NormalBalance returns the side on which increases are recorded for the
// account type: assets and expenses grow with debits, everything else with
// credits.
func (t AccountType) NormalBalance() BalanceSide {
	if t == Asset || t == Expense {
		return DebitSide
	}
	return CreditSide
}

// AccountSubtype narrows an AccountType to a closed vocabulary per type.
type AccountSubtype string

const (
	SubtypeCash               AccountSubtype = "CASH"
	SubtypeBank               AccountSubtype = "BANK"
	SubtypeAccountsReceivable AccountSubtype = "ACCOUNTS_RECEIVABLE"
	SubtypeInventory          AccountSubtype = "INVENTORY"
	SubtypeFixedAsset         AccountSubtype = "FIXED_ASSET"
	SubtypeOtherAsset         AccountSubtype = "OTHER_ASSET"

	SubtypeAccountsPayable AccountSubtype = "ACCOUNTS_PAYABLE"
	SubtypeCreditCard      AccountSubtype = "CREDIT_CARD"
	SubtypeTaxPayable      AccountSubtype = "TAX_PAYABLE"
	SubtypeOtherLiability  AccountSubtype = "OTHER_LIABILITY"

	SubtypeOwnerEquity      AccountSubtype = "OWNER_EQUITY"
	SubtypeRetainedEarnings AccountSubtype = "RETAINED_EARNINGS"

	SubtypeSalesRevenue AccountSubtype = "SALES_REVENUE"
	SubtypeOtherIncome  AccountSubtype = "OTHER_INCOME"

	SubtypeCostOfGoodsSold  AccountSubtype = "COST_OF_GOODS_SOLD"
	SubtypeOperatingExpense AccountSubtype = "OPERATING_EXPENSE"
	SubtypePayrollExpense   AccountSubtype = "PAYROLL_EXPENSE"
	SubtypeOtherExpense     AccountSubtype = "OTHER_EXPENSE"
)

// subtypesByType is the closed per-type vocabulary.
var subtypesByType = map[AccountType][]AccountSubtype{
	Asset:     {SubtypeCash, SubtypeBank, SubtypeAccountsReceivable, SubtypeInventory, SubtypeFixedAsset, SubtypeOtherAsset},
	Liability: {SubtypeAccountsPayable, SubtypeCreditCard, SubtypeTaxPayable, SubtypeOtherLiability},
	Equity:    {SubtypeOwnerEquity, SubtypeRetainedEarnings},
	Income:    {SubtypeSalesRevenue, SubtypeOtherIncome},
	Expense:   {SubtypeCostOfGoodsSold, SubtypeOperatingExpense, SubtypePayrollExpense, SubtypeOtherExpense},
}

// ValidSubtype reports whether the subtype belongs to the account type's
// vocabulary.
func ValidSubtype(t AccountType, s AccountSubtype) bool {
	for _, candidate := range subtypesByType[t] {
		if candidate == s {
			return true
		}
	}
	return false
}

// SubtypesFor returns the allowed subtypes for an account type.
func SubtypesFor(t AccountType) []AccountSubtype {
	return subtypesByType[t]
}

// AccountFilter narrows account listing.
type AccountFilter struct {
	Type       *AccountType
	ParentID   *string
	ActiveOnly bool
}

// Account represents a node in the chart of accounts.
// Accounts are referenced (never owned) by journal entry lines; an account
// with postings is deactivated, never removed.
type Account struct {
	AccountID          string          `json:"accountID"` // Primary key (UUID)
	Name               string          `json:"name"`
	AccountType        AccountType     `json:"accountType"`
	Subtype            AccountSubtype  `json:"subtype"`
	ParentAccountID    string          `json:"parentAccountID"` // Nullable self reference, forms a tree
	Description        string          `json:"description"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	OpeningBalanceDate time.Time       `json:"openingBalanceDate"`
	IsActive           bool            `json:"isActive"`
	IsSystem           bool            `json:"isSystem"` // System accounts cannot be deactivated
	AuditFields
}
