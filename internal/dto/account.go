package dto

import (
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Name               string          `json:"name" binding:"required"`
	AccountType        string          `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Subtype            string          `json:"subtype" binding:"required"`
	ParentAccountID    string          `json:"parentAccountID"`
	Description        string          `json:"description"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	OpeningBalanceDate time.Time       `json:"openingBalanceDate"`
	IsSystem           bool            `json:"isSystem"`
}

// UpdateAccountRequest defines the payload for updating an account.
// Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Subtype     *string `json:"subtype,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID          string          `json:"accountID"`
	Name               string          `json:"name"`
	AccountType        string          `json:"accountType"`
	Subtype            string          `json:"subtype"`
	ParentAccountID    string          `json:"parentAccountID,omitempty"`
	Description        string          `json:"description,omitempty"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	OpeningBalanceDate time.Time       `json:"openingBalanceDate"`
	IsActive           bool            `json:"isActive"`
	IsSystem           bool            `json:"isSystem"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// BalanceResponse reports an account balance as of a date.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      time.Time       `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// ActivityResponse reports raw debit and credit totals for an account over an
// optional date range.
type ActivityResponse struct {
	AccountID   string          `json:"accountID"`
	From        *time.Time      `json:"from,omitempty"`
	To          *time.Time      `json:"to,omitempty"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          a.AccountID,
		Name:               a.Name,
		AccountType:        string(a.AccountType),
		Subtype:            string(a.Subtype),
		ParentAccountID:    a.ParentAccountID,
		Description:        a.Description,
		OpeningBalance:     a.OpeningBalance,
		OpeningBalanceDate: a.OpeningBalanceDate,
		IsActive:           a.IsActive,
		IsSystem:           a.IsSystem,
		CreatedAt:          a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
