package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	"github.com/retailcore/pos_accounting/internal/core/domain"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
	"github.com/retailcore/pos_accounting/internal/core/services"
	"github.com/retailcore/pos_accounting/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockRecurringRepository is a mock type for the RecurringRepositoryFacade interface
type MockRecurringRepository struct {
	mock.Mock
}

func (m *MockRecurringRepository) FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringJournalEntry, error) {
	args := m.Called(ctx, recurringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringJournalEntry), args.Error(1)
}

func (m *MockRecurringRepository) ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringJournalEntry, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringJournalEntry), args.Error(1)
}

func (m *MockRecurringRepository) ListDue(ctx context.Context, asOf time.Time) ([]domain.RecurringJournalEntry, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringJournalEntry), args.Error(1)
}

func (m *MockRecurringRepository) SaveRecurring(ctx context.Context, recurring domain.RecurringJournalEntry, lines []domain.RecurringJournalEntryLine) error {
	args := m.Called(ctx, recurring, lines)
	return args.Error(0)
}

func (m *MockRecurringRepository) UpdateRecurring(ctx context.Context, recurring domain.RecurringJournalEntry, lines []domain.RecurringJournalEntryLine) error {
	args := m.Called(ctx, recurring, lines)
	return args.Error(0)
}

func (m *MockRecurringRepository) DeactivateRecurring(ctx context.Context, recurringID string, actorID string, now time.Time) error {
	args := m.Called(ctx, recurringID, actorID, now)
	return args.Error(0)
}

func (m *MockRecurringRepository) RecordRun(ctx context.Context, recurring domain.RecurringJournalEntry, runDate time.Time, nextRunDate time.Time, entry domain.JournalEntry, lines []domain.JournalEntryLine) (string, error) {
	args := m.Called(ctx, recurring, runDate, nextRunDate, entry, lines)
	return args.String(0), args.Error(1)
}

// --- Test Suite Setup ---

type RecurringServiceTestSuite struct {
	suite.Suite
	mockRecurringRepo *MockRecurringRepository
	mockAccountRepo   *MockAccountRepository
	service           portssvc.RecurringSvcFacade

	rentExpenseID  string
	cashAccountID  string
	activeAccounts map[string]domain.Account
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockRecurringRepo = new(MockRecurringRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewRecurringService(suite.mockRecurringRepo, suite.mockAccountRepo)

	suite.rentExpenseID = uuid.NewString()
	suite.cashAccountID = uuid.NewString()
	suite.activeAccounts = map[string]domain.Account{
		suite.rentExpenseID: {
			AccountID:   suite.rentExpenseID,
			AccountType: domain.Expense,
			Subtype:     domain.SubtypeOperatingExpense,
			IsActive:    true,
		},
		suite.cashAccountID: {
			AccountID:   suite.cashAccountID,
			AccountType: domain.Asset,
			Subtype:     domain.SubtypeBank,
			IsActive:    true,
		},
	}
}

func (suite *RecurringServiceTestSuite) rentRequest() dto.CreateRecurringRequest {
	return dto.CreateRecurringRequest{
		Name:      "Store rent",
		Memo:      "Monthly rent for the storefront",
		Frequency: string(domain.FrequencyMonthly),
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Lines: []dto.RecurringLineRequest{
			{AccountID: suite.rentExpenseID, Debit: decimal.NewFromInt(2500)},
			{AccountID: suite.cashAccountID, Credit: decimal.NewFromInt(2500)},
		},
	}
}

func (suite *RecurringServiceTestSuite) rentTemplate(nextRun time.Time) *domain.RecurringJournalEntry {
	return &domain.RecurringJournalEntry{
		RecurringID: uuid.NewString(),
		Name:        "Store rent",
		Frequency:   domain.FrequencyMonthly,
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		NextRunDate: nextRun,
		IsActive:    true,
		Lines: []domain.RecurringJournalEntryLine{
			{LineID: uuid.NewString(), AccountID: suite.rentExpenseID, Debit: decimal.NewFromInt(2500), LineOrder: 1},
			{LineID: uuid.NewString(), AccountID: suite.cashAccountID, Credit: decimal.NewFromInt(2500), LineOrder: 2},
		},
	}
}

// --- Test Cases ---

func (suite *RecurringServiceTestSuite) TestCreateRecurring_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts, nil).Once()
	suite.mockRecurringRepo.On("SaveRecurring", ctx, mock.AnythingOfType("domain.RecurringJournalEntry"), mock.AnythingOfType("[]domain.RecurringJournalEntryLine")).Return(nil).Once()

	recurring, err := suite.service.CreateRecurring(ctx, suite.rentRequest(), actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(recurring)
	suite.True(recurring.IsActive)
	suite.Equal(domain.FrequencyMonthly, recurring.Frequency)
	suite.Equal(recurring.StartDate, recurring.NextRunDate)
	suite.Len(recurring.Lines, 2)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestCreateRecurring_AlignsFirstRunToDayOfMonth() {
	ctx := context.Background()
	dayOfMonth := 15
	req := suite.rentRequest()
	req.DayOfMonth = &dayOfMonth
	req.StartDate = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts, nil).Once()
	suite.mockRecurringRepo.On("SaveRecurring", ctx, mock.AnythingOfType("domain.RecurringJournalEntry"), mock.AnythingOfType("[]domain.RecurringJournalEntryLine")).Return(nil).Once()

	recurring, err := suite.service.CreateRecurring(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	// The 15th has already passed in August, so the first run lands in September.
	suite.Equal(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), recurring.NextRunDate)
}

func (suite *RecurringServiceTestSuite) TestCreateRecurring_UnbalancedTemplate() {
	ctx := context.Background()
	req := suite.rentRequest()
	req.Lines[1].Credit = decimal.NewFromInt(2000)

	_, err := suite.service.CreateRecurring(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTemplateUnbalanced)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveRecurring")
}

func (suite *RecurringServiceTestSuite) TestCreateRecurring_InvalidCadence() {
	ctx := context.Background()
	dayOfMonth := 32
	req := suite.rentRequest()
	req.DayOfMonth = &dayOfMonth

	_, err := suite.service.CreateRecurring(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidCadence)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveRecurring")
}

func (suite *RecurringServiceTestSuite) TestCreateRecurring_EndBeforeStart() {
	ctx := context.Background()
	req := suite.rentRequest()
	end := req.StartDate.AddDate(0, 0, -1)
	req.EndDate = &end

	_, err := suite.service.CreateRecurring(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecurringServiceTestSuite) TestRunRecurring_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	asOf := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	template := suite.rentTemplate(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	suite.mockRecurringRepo.On("FindRecurringByID", ctx, template.RecurringID).Return(template, nil).Once()
	suite.mockRecurringRepo.On("RecordRun", ctx,
		mock.AnythingOfType("domain.RecurringJournalEntry"),
		time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalEntryLine")).
		Return("REC-2026-000014", nil).Once()

	entry, err := suite.service.RunRecurring(ctx, template.RecurringID, asOf, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal("REC-2026-000014", entry.EntryNumber)
	suite.Equal(domain.SourceRecurring, entry.Source.Type)
	suite.Equal(template.RecurringID, entry.Source.SourceID)
	suite.Len(entry.Lines, 2)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(2500)))
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestRunRecurring_NotDue() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	template := suite.rentTemplate(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	suite.mockRecurringRepo.On("FindRecurringByID", ctx, template.RecurringID).Return(template, nil).Once()

	_, err := suite.service.RunRecurring(ctx, template.RecurringID, asOf, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDue)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "RecordRun")
}

func (suite *RecurringServiceTestSuite) TestRunRecurring_SameDayDuplicate() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)
	template := suite.rentTemplate(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))

	suite.mockRecurringRepo.On("FindRecurringByID", ctx, template.RecurringID).Return(template, nil).Once()
	suite.mockRecurringRepo.On("RecordRun", ctx, mock.AnythingOfType("domain.RecurringJournalEntry"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).
		Return("", apperrors.ErrDuplicate).Once()

	_, err := suite.service.RunRecurring(ctx, template.RecurringID, asOf, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *RecurringServiceTestSuite) TestRunRecurring_OccurrenceCapReached() {
	ctx := context.Background()
	maxOccurrences := 12
	template := suite.rentTemplate(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	template.Occurrences = 12
	template.MaxOccurrences = &maxOccurrences

	suite.mockRecurringRepo.On("FindRecurringByID", ctx, template.RecurringID).Return(template, nil).Once()

	_, err := suite.service.RunRecurring(ctx, template.RecurringID, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDue)
}

func (suite *RecurringServiceTestSuite) TestRunDue_SkipsDuplicatesAndContinues() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	alreadyRan := suite.rentTemplate(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	pending := suite.rentTemplate(time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC))

	suite.mockRecurringRepo.On("ListDue", ctx, asOf).Return([]domain.RecurringJournalEntry{*alreadyRan, *pending}, nil).Once()
	suite.mockRecurringRepo.On("RecordRun", ctx, mock.MatchedBy(func(r domain.RecurringJournalEntry) bool {
		return r.RecurringID == alreadyRan.RecurringID
	}), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).
		Return("", apperrors.ErrDuplicate).Once()
	suite.mockRecurringRepo.On("RecordRun", ctx, mock.MatchedBy(func(r domain.RecurringJournalEntry) bool {
		return r.RecurringID == pending.RecurringID
	}), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).
		Return("REC-2026-000015", nil).Once()

	generated, err := suite.service.RunDue(ctx, asOf, "system")

	suite.Require().NoError(err)
	suite.Require().Len(generated, 1)
	suite.Equal("REC-2026-000015", generated[0].EntryNumber)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestRunDue_NothingDue() {
	ctx := context.Background()
	asOf := time.Now().UTC()

	suite.mockRecurringRepo.On("ListDue", ctx, asOf).Return([]domain.RecurringJournalEntry{}, nil).Once()

	generated, err := suite.service.RunDue(ctx, asOf, "system")

	suite.Require().NoError(err)
	suite.Empty(generated)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "RecordRun")
}

func (suite *RecurringServiceTestSuite) TestUpdateRecurring_ReplacesLines() {
	ctx := context.Background()
	actorID := uuid.NewString()
	template := suite.rentTemplate(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	newLines := []dto.RecurringLineRequest{
		{AccountID: suite.rentExpenseID, Debit: decimal.NewFromInt(2750)},
		{AccountID: suite.cashAccountID, Credit: decimal.NewFromInt(2750)},
	}
	req := dto.UpdateRecurringRequest{Lines: &newLines}

	suite.mockRecurringRepo.On("FindRecurringByID", ctx, template.RecurringID).Return(template, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts, nil).Once()
	suite.mockRecurringRepo.On("UpdateRecurring", ctx, mock.AnythingOfType("domain.RecurringJournalEntry"), mock.AnythingOfType("[]domain.RecurringJournalEntryLine")).Return(nil).Once()

	updated, err := suite.service.UpdateRecurring(ctx, template.RecurringID, req, actorID)

	suite.Require().NoError(err)
	suite.Require().Len(updated.Lines, 2)
	suite.True(updated.Lines[0].Debit.Equal(decimal.NewFromInt(2750)))
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestDeactivateRecurring_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	recurringID := uuid.NewString()

	suite.mockRecurringRepo.On("DeactivateRecurring", ctx, recurringID, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateRecurring(ctx, recurringID, actorID)

	suite.Require().NoError(err)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func TestRecurringService(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
