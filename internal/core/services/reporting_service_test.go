package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/retailcore/pos_accounting/internal/core/domain"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
	"github.com/retailcore/pos_accounting/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetAccountActivity(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportingRepository) GetDebitCreditTotals(ctx context.Context, accountID string, from, to *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetIncomeStatementData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Error(2)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Get(2).([]domain.AccountAmount), args.Error(3)
}

func (m *MockReportingRepository) GetNetIncomeBefore(ctx context.Context, cutoff time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetCashFlowData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountAmount), args.Error(1)
}

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockAccountRepository
	service           portssvc.ReportingSvc
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockAccountRepo)
}

func amount(name string, value int64) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: uuid.NewString(),
		Name:      name,
		NetAmount: decimal.NewFromInt(value),
	}
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestAccountBalance_DebitNormal() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		AccountType:    domain.Asset,
		Subtype:        domain.SubtypeCash,
		OpeningBalance: decimal.NewFromInt(500),
		IsActive:       true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountActivity", ctx, account.AccountID, asOf).
		Return(decimal.NewFromInt(1200), decimal.NewFromInt(300), nil).Once()

	balance, err := suite.service.AccountBalance(ctx, account.AccountID, asOf)

	suite.Require().NoError(err)
	// Debit-normal: 500 opening + 1200 debits - 300 credits.
	suite.True(balance.Equal(decimal.NewFromInt(1400)), "got %s", balance)
}

func (suite *ReportingServiceTestSuite) TestAccountBalance_CreditNormal() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		AccountType: domain.Income,
		Subtype:     domain.SubtypeSalesRevenue,
		IsActive:    true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountActivity", ctx, account.AccountID, asOf).
		Return(decimal.NewFromInt(100), decimal.NewFromInt(900), nil).Once()

	balance, err := suite.service.AccountBalance(ctx, account.AccountID, asOf)

	suite.Require().NoError(err)
	// Credit-normal: 900 credits - 100 debits on a zero opening balance.
	suite.True(balance.Equal(decimal.NewFromInt(800)), "got %s", balance)
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_NetsIncomeAgainstExpenses() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	income := []domain.AccountAmount{amount("Sales revenue", 12000), amount("Service revenue", 3000)}
	expenses := []domain.AccountAmount{amount("Rent", 5000), amount("Supplies", 1500)}

	suite.mockReportingRepo.On("GetIncomeStatementData", ctx, from, to).Return(income, expenses, nil).Once()

	report, err := suite.service.IncomeStatement(ctx, from, to)

	suite.Require().NoError(err)
	suite.Len(report.Income, 2)
	suite.Len(report.Expenses, 2)
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(8500)), "got %s", report.NetIncome)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_Balances() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	fiscalYear := domain.FiscalYearStarting(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	assets := []domain.AccountAmount{amount("Cash", 9000), amount("Inventory", 4000)}
	liabilities := []domain.AccountAmount{amount("Accounts payable", 2500)}
	equity := []domain.AccountAmount{amount("Owner capital", 6000)}
	retainedEarnings := decimal.NewFromInt(1500)
	// Current fiscal year net income: 10000 income - 7000 expenses = 3000.
	currentIncome := []domain.AccountAmount{amount("Sales revenue", 10000)}
	currentExpenses := []domain.AccountAmount{amount("Rent", 7000)}

	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, asOf).Return(assets, liabilities, equity, nil).Once()
	suite.mockReportingRepo.On("GetNetIncomeBefore", ctx, fiscalYear.Start).Return(retainedEarnings, nil).Once()
	suite.mockReportingRepo.On("GetIncomeStatementData", ctx, fiscalYear.Start, asOf).Return(currentIncome, currentExpenses, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, asOf, fiscalYear)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(13000)), "got %s", report.TotalAssets)
	suite.True(report.TotalLiabilities.Equal(decimal.NewFromInt(2500)), "got %s", report.TotalLiabilities)
	// Equity picks up retained earnings and the current year's net income,
	// so assets = liabilities + equity.
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(10500)), "got %s", report.TotalEquity)
	suite.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)))
	suite.True(report.RetainedEarnings.Equal(retainedEarnings))
}

func (suite *ReportingServiceTestSuite) TestCashFlow_SplitsInflowsAndOutflows() {
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	movements := []domain.AccountAmount{
		amount("Register cash", 1800),
		amount("Checking", -600),
	}

	suite.mockReportingRepo.On("GetCashFlowData", ctx, from, to).Return(movements, nil).Once()

	report, err := suite.service.CashFlow(ctx, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(report.Inflows, 1)
	suite.Require().Len(report.Outflows, 1)
	suite.Equal("Register cash", report.Inflows[0].Name)
	suite.Equal("Checking", report.Outflows[0].Name)
	suite.True(report.NetCashFlow.Equal(decimal.NewFromInt(1200)), "got %s", report.NetCashFlow)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_PassesThroughRows() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	rows := []domain.TrialBalanceRow{
		{AccountID: uuid.NewString(), AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(700)},
		{AccountID: uuid.NewString(), AccountName: "Sales revenue", AccountType: domain.Income, Credit: decimal.NewFromInt(700)},
	}

	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, asOf).Return(rows, nil).Once()

	result, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.True(result[0].Debit.Equal(result[1].Credit))
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
