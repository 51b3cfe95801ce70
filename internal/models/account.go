package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the persisted row shape of a chart-of-accounts node.
// ParentAccountID is a nullable self reference.
type Account struct {
	AccountID          string          `db:"account_id"`
	Name               string          `db:"name"`
	AccountType        string          `db:"account_type"`
	Subtype            string          `db:"subtype"`
	ParentAccountID    *string         `db:"parent_account_id"`
	Description        string          `db:"description"`
	OpeningBalance     decimal.Decimal `db:"opening_balance"`
	OpeningBalanceDate time.Time       `db:"opening_balance_date"`
	IsActive           bool            `db:"is_active"`
	IsSystem           bool            `db:"is_system"`
	AuditFields
}
