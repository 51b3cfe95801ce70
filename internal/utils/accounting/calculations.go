package accounting

import (
	"fmt"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateLineShape checks the debit-XOR-credit invariant for a single line:
// exactly one side is a positive amount with at most two decimal places, the
// other is zero.
func ValidateLineShape(line domain.JournalEntryLine) error {
	if line.Debit.IsNegative() {
		return fmt.Errorf("line debit must not be negative for account %s, got %s", line.AccountID, line.Debit)
	}
	if line.Credit.IsNegative() {
		return fmt.Errorf("line credit must not be negative for account %s, got %s", line.AccountID, line.Credit)
	}

	debitSet := !line.Debit.IsZero()
	creditSet := !line.Credit.IsZero()

	if debitSet && creditSet {
		return fmt.Errorf("line for account %s carries both debit and credit", line.AccountID)
	}
	if !debitSet && !creditSet {
		return fmt.Errorf("line for account %s carries neither debit nor credit", line.AccountID)
	}

	amount := line.Amount()
	if !amount.Round(2).Equal(amount) {
		return fmt.Errorf("line amount for account %s exceeds 2 decimal places: %s", line.AccountID, amount)
	}
	return nil
}

// ValidateLines checks every line's shape and rejects empty line sets.
// Balance is intentionally not checked here; drafts may be unbalanced.
func ValidateLines(lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("entry must have at least one line")
	}
	for _, line := range lines {
		if err := ValidateLineShape(line); err != nil {
			return err
		}
	}
	return nil
}

// SignedAmount applies the account's normal-balance direction to a line:
// activity on the normal side increases the balance, the opposite side
// decreases it.
func SignedAmount(line domain.JournalEntryLine, accountType domain.AccountType) decimal.Decimal {
	amount := line.Amount()
	if line.IsDebit() == (accountType.NormalBalance() == domain.DebitSide) {
		return amount
	}
	return amount.Neg()
}

// Balance combines an opening balance with raw debit/credit sums according to
// the account's normal side: debit-normal accounts grow with debits,
// credit-normal accounts with credits.
func Balance(opening decimal.Decimal, side domain.BalanceSide, debitSum, creditSum decimal.Decimal) decimal.Decimal {
	if side == domain.DebitSide {
		return opening.Add(debitSum).Sub(creditSum)
	}
	return opening.Add(creditSum).Sub(debitSum)
}

// ClearedBalance rolls the last reconciled balance forward over the cleared
// transaction subset: deposits add, withdrawals subtract.
func ClearedBalance(lastReconciled decimal.Decimal, cleared []domain.BankTransaction) decimal.Decimal {
	balance := lastReconciled
	for _, txn := range cleared {
		balance = balance.Add(txn.SignedAmount())
	}
	return balance
}
