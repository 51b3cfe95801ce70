package accounting

import (
	"testing"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValidateLineShape(t *testing.T) {
	valid := domain.JournalEntryLine{AccountID: "a", Debit: dec("10.50")}
	assert.NoError(t, ValidateLineShape(valid))

	bothSides := domain.JournalEntryLine{AccountID: "a", Debit: dec("10"), Credit: dec("10")}
	assert.Error(t, ValidateLineShape(bothSides))

	neitherSide := domain.JournalEntryLine{AccountID: "a"}
	assert.Error(t, ValidateLineShape(neitherSide))

	negativeCredit := domain.JournalEntryLine{AccountID: "a", Credit: dec("-5")}
	assert.Error(t, ValidateLineShape(negativeCredit))

	negativeDebit := domain.JournalEntryLine{AccountID: "a", Debit: dec("-5.001")}
	assert.Error(t, ValidateLineShape(negativeDebit))

	subCent := domain.JournalEntryLine{AccountID: "a", Debit: dec("10.005")}
	assert.Error(t, ValidateLineShape(subCent))
}

func TestValidateLinesRejectsEmpty(t *testing.T) {
	assert.Error(t, ValidateLines(nil))
	assert.Error(t, ValidateLines([]domain.JournalEntryLine{}))
}

func TestValidateLinesRejectsNegativeDebitInBalancedSet(t *testing.T) {
	// -5 + 10 nets against the 5 credit, so the set balances, but the
	// negative line itself is malformed.
	lines := []domain.JournalEntryLine{
		{AccountID: "a", Debit: dec("-5")},
		{AccountID: "b", Debit: dec("10")},
		{AccountID: "c", Credit: dec("5")},
	}
	assert.Error(t, ValidateLines(lines))
}

func TestSignedAmount(t *testing.T) {
	debitLine := domain.JournalEntryLine{Debit: dec("100")}
	creditLine := domain.JournalEntryLine{Credit: dec("100")}

	// Debit to a debit-normal account increases it.
	assert.True(t, SignedAmount(debitLine, domain.Asset).Equal(dec("100")))
	assert.True(t, SignedAmount(creditLine, domain.Asset).Equal(dec("-100")))

	// Credit to a credit-normal account increases it.
	assert.True(t, SignedAmount(creditLine, domain.Income).Equal(dec("100")))
	assert.True(t, SignedAmount(debitLine, domain.Liability).Equal(dec("-100")))
}

func TestBalance(t *testing.T) {
	// Debit-normal: opening + debits - credits.
	got := Balance(dec("1000"), domain.DebitSide, dec("500"), dec("200"))
	assert.True(t, got.Equal(dec("1300")), "got %s", got)

	// Credit-normal: opening + credits - debits.
	got = Balance(dec("1000"), domain.CreditSide, dec("500"), dec("200"))
	assert.True(t, got.Equal(dec("700")), "got %s", got)
}

func TestClearedBalance(t *testing.T) {
	cleared := []domain.BankTransaction{
		{Kind: domain.Deposit, Amount: dec("250.00")},
		{Kind: domain.Withdrawal, Amount: dec("75.25")},
		{Kind: domain.Deposit, Amount: dec("10.00")},
	}
	got := ClearedBalance(dec("1000.00"), cleared)
	assert.True(t, got.Equal(dec("1184.75")), "got %s", got)

	assert.True(t, ClearedBalance(dec("42"), nil).Equal(dec("42")))
}
