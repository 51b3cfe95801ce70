package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	portsrepo "github.com/retailcore/pos_accounting/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface.
// Every query scans POSTED entries only; VOID and DRAFT lines never count.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetAccountActivity sums the debit and credit sides of an account's posted
// lines dated on or before asOf.
func (r *reportingRepository) GetAccountActivity(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account_id = $1
			AND e.entry_date <= $2
			AND e.status = 'POSTED'
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("error querying account activity: %w", err)
	}
	return debit, credit, nil
}

// GetDebitCreditTotals sums an account's posted lines in an optional date range.
func (r *reportingRepository) GetDebitCreditTotals(ctx context.Context, accountID string, from, to *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account_id = $1
			AND e.status = 'POSTED'
	`
	args := []interface{}{accountID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}

	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("error querying debit/credit totals: %w", err)
	}
	return debit, credit, nil
}

// GetTrialBalanceData retrieves per-account debit/credit sums for active
// accounts as of a specific date. Accounts with no postings still appear,
// carrying only their opening balance. Lines and entries join as a unit
// inside the LEFT JOIN so DRAFT, VOID and future-dated lines drop out of the
// sums instead of surviving with a null entry.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.name AS account_name,
			a.account_type,
			a.opening_balance,
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			journal_entry_lines l
			JOIN journal_entries e ON l.entry_id = e.entry_id
				AND e.status = 'POSTED'
				AND e.entry_date <= $1
		) ON l.account_id = a.account_id
		WHERE a.is_active = TRUE
		GROUP BY a.account_id, a.name, a.account_type, a.opening_balance
		ORDER BY a.account_type, a.name
	`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var accountID, accountName, accountType string
		var opening, totalDebit, totalCredit decimal.Decimal

		if err := rows.Scan(&accountID, &accountName, &accountType, &opening, &totalDebit, &totalCredit); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		// Fold the opening balance onto the account's normal side, then
		// collapse the row to a single-column balance.
		t := domain.AccountType(accountType)
		if t.NormalBalance() == domain.DebitSide {
			totalDebit = totalDebit.Add(opening)
		} else {
			totalCredit = totalCredit.Add(opening)
		}

		row := domain.TrialBalanceRow{
			AccountID:   accountID,
			AccountName: accountName,
			AccountType: t,
		}
		net := totalDebit.Sub(totalCredit)
		if net.IsNegative() {
			row.Credit = net.Neg()
		} else {
			row.Debit = net
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	if len(result) == 0 {
		return []domain.TrialBalanceRow{}, nil
	}
	return result, nil
}

// GetIncomeStatementData retrieves income and expense account net amounts
// for a period, signed by each type's normal balance side.
func (r *reportingRepository) GetIncomeStatementData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.name,
			SUM(CASE WHEN a.account_type = 'INCOME'
				THEN l.credit - l.debit
				ELSE l.debit - l.credit END) AS net
		FROM journal_entry_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date BETWEEN $1 AND $2
			AND e.status = 'POSTED'
			AND a.account_type IN ('INCOME', 'EXPENSE')
		GROUP BY a.account_type, a.account_id, a.name
		ORDER BY a.account_type, a.name
	`

	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying income statement data: %w", err)
	}
	defer rows.Close()

	income := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}
	for rows.Next() {
		var accountType, accountID, name string
		var net decimal.Decimal

		if err := rows.Scan(&accountType, &accountID, &name, &net); err != nil {
			return nil, nil, fmt.Errorf("error scanning income statement row: %w", err)
		}

		amount := domain.AccountAmount{AccountID: accountID, Name: name, NetAmount: net}
		if accountType == "INCOME" {
			income = append(income, amount)
		} else {
			expenses = append(expenses, amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating income statement rows: %w", err)
	}
	return income, expenses, nil
}

// GetBalanceSheetData retrieves asset, liability and equity account net
// amounts (opening balances included) as of a date. The parenthesized join
// keeps the status and date predicates on the line rows themselves, not just
// on the joined entry columns.
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.name,
			a.opening_balance +
			COALESCE(SUM(CASE WHEN a.account_type = 'ASSET'
				THEN l.debit - l.credit
				ELSE l.credit - l.debit END), 0) AS net
		FROM accounts a
		LEFT JOIN (
			journal_entry_lines l
			JOIN journal_entries e ON l.entry_id = e.entry_id
				AND e.status = 'POSTED'
				AND e.entry_date <= $1
		) ON l.account_id = a.account_id
		WHERE a.is_active = TRUE
			AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		GROUP BY a.account_type, a.account_id, a.name, a.opening_balance
		ORDER BY a.account_type, a.name
	`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	assets := []domain.AccountAmount{}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{}
	for rows.Next() {
		var accountType, accountID, name string
		var net decimal.Decimal

		if err := rows.Scan(&accountType, &accountID, &name, &net); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning balance sheet row: %w", err)
		}

		amount := domain.AccountAmount{AccountID: accountID, Name: name, NetAmount: net}
		switch accountType {
		case "ASSET":
			assets = append(assets, amount)
		case "LIABILITY":
			liabilities = append(liabilities, amount)
		case "EQUITY":
			equity = append(equity, amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}
	return assets, liabilities, equity, nil
}

// GetNetIncomeBefore computes cumulative net income over all posted activity
// strictly before the cutoff date.
func (r *reportingRepository) GetNetIncomeBefore(ctx context.Context, cutoff time.Time) (decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN a.account_type = 'INCOME' THEN l.credit - l.debit ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN a.account_type = 'EXPENSE' THEN l.debit - l.credit ELSE 0 END), 0) AS expenses
		FROM journal_entry_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date < $1
			AND e.status = 'POSTED'
			AND a.account_type IN ('INCOME', 'EXPENSE')
	`
	var income, expenses decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, cutoff).Scan(&income, &expenses); err != nil {
		return decimal.Zero, fmt.Errorf("error querying net income before cutoff: %w", err)
	}
	return income.Sub(expenses), nil
}

// GetCashFlowData retrieves net movement per cash-equivalent account over a
// period.
func (r *reportingRepository) GetCashFlowData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_id,
			a.name,
			SUM(l.debit - l.credit) AS net
		FROM journal_entry_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date BETWEEN $1 AND $2
			AND e.status = 'POSTED'
			AND a.subtype IN ('CASH', 'BANK')
		GROUP BY a.account_id, a.name
		ORDER BY a.name
	`

	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying cash flow data: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountAmount{}
	for rows.Next() {
		var accountID, name string
		var net decimal.Decimal

		if err := rows.Scan(&accountID, &name, &net); err != nil {
			return nil, fmt.Errorf("error scanning cash flow row: %w", err)
		}
		result = append(result, domain.AccountAmount{AccountID: accountID, Name: name, NetAmount: net})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", err)
	}
	return result, nil
}
