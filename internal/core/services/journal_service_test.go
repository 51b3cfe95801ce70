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

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

func (m *MockJournalRepository) SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkPosted(ctx context.Context, entryID string, prefix string, year int, totalDebit, totalCredit decimal.Decimal, postedBy string, postedAt time.Time) (string, error) {
	args := m.Called(ctx, entryID, prefix, year, totalDebit, totalCredit, postedBy, postedAt)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) MarkVoided(ctx context.Context, entryID string, reason string, voidedBy string, voidedAt time.Time) error {
	args := m.Called(ctx, entryID, reason, voidedBy, voidedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntryLine, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.JournalEntryLine), token, args.Error(2)
}

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.JournalSvcFacade

	cashAccountID  string
	salesAccountID string
	activeAccounts map[string]domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo)

	suite.cashAccountID = uuid.NewString()
	suite.salesAccountID = uuid.NewString()
	suite.activeAccounts = map[string]domain.Account{
		suite.cashAccountID: {
			AccountID:   suite.cashAccountID,
			AccountType: domain.Asset,
			Subtype:     domain.SubtypeCash,
			IsActive:    true,
		},
		suite.salesAccountID: {
			AccountID:   suite.salesAccountID,
			AccountType: domain.Income,
			Subtype:     domain.SubtypeSalesRevenue,
			IsActive:    true,
		},
	}
}

func (suite *JournalServiceTestSuite) saleRequest(amount int64) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Memo:      "Daily sale",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccountID, Debit: decimal.NewFromInt(amount)},
			{AccountID: suite.salesAccountID, Credit: decimal.NewFromInt(amount)},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateDraft_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts, nil).Once()
	suite.mockJournalRepo.On("SaveDraft", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).Return(nil).Once()

	entry, err := suite.service.CreateDraft(ctx, suite.saleRequest(100), actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.Empty(entry.EntryNumber) // numbers are assigned at post time
	suite.Equal(domain.SourceManual, entry.Source.Type)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(100)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(100)))
	suite.Len(entry.Lines, 2)
	suite.Equal(1, entry.Lines[0].LineOrder)
	suite.Equal(2, entry.Lines[1].LineOrder)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraft_UnbalancedAllowed() {
	// Drafts may be unbalanced; balance is enforced only at post time.
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.salesAccountID, Credit: decimal.NewFromInt(60)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts, nil).Once()
	suite.mockJournalRepo.On("SaveDraft", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).Return(nil).Once()

	entry, err := suite.service.CreateDraft(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.False(entry.TotalDebit.Equal(entry.TotalCredit))
}

func (suite *JournalServiceTestSuite) TestCreateDraft_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.activeAccounts
	cash := inactive[suite.cashAccountID]
	cash.IsActive = false
	inactive[suite.cashAccountID] = cash

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(inactive, nil).Once()

	_, err := suite.service.CreateDraft(ctx, suite.saleRequest(100), uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraft")
}

func (suite *JournalServiceTestSuite) TestCreateDraft_InvalidSource() {
	ctx := context.Background()
	req := suite.saleRequest(100)
	req.SourceType = "TELEPATHY"

	_, err := suite.service.CreateDraft(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidSource)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraft")
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	entryID := uuid.NewString()
	entryDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	draft := &domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: entryDate,
		Status:    domain.Draft,
		Source:    domain.EntrySource{Type: domain.SourceManual},
	}
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccountID, Debit: decimal.NewFromInt(250), LineOrder: 1},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.salesAccountID, Credit: decimal.NewFromInt(250), LineOrder: 2},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts, nil).Once()
	suite.mockJournalRepo.On("MarkPosted", ctx, entryID, "JE", 2025, mock.Anything, mock.Anything, actorID, mock.AnythingOfType("time.Time")).
		Return("JE-2025-000042", nil).Once()

	posted, err := suite.service.PostEntry(ctx, entryID, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal("JE-2025-000042", posted.EntryNumber)
	suite.Equal(actorID, posted.PostedBy)
	suite.NotNil(posted.PostedAt)
	suite.True(posted.TotalDebit.Equal(decimal.NewFromInt(250)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_Unbalanced() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: time.Now().UTC(),
		Status:    domain.Draft,
		Source:    domain.EntrySource{Type: domain.SourceManual},
	}
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccountID, Debit: decimal.NewFromInt(100), LineOrder: 1},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.salesAccountID, Credit: decimal.NewFromInt(90), LineOrder: 2},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()

	_, err := suite.service.PostEntry(ctx, entryID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkPosted")
}

func (suite *JournalServiceTestSuite) TestPostEntry_SingleAccount() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: time.Now().UTC(),
		Status:    domain.Draft,
		Source:    domain.EntrySource{Type: domain.SourceManual},
	}
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccountID, Debit: decimal.NewFromInt(50), LineOrder: 1},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccountID, Credit: decimal.NewFromInt(50), LineOrder: 2},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()

	_, err := suite.service.PostEntry(ctx, entryID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryMinAccounts)
}

func (suite *JournalServiceTestSuite) TestPostEntry_NotDraft() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{
		EntryID: entryID,
		Status:  domain.Posted,
		Source:  domain.EntrySource{Type: domain.SourceManual},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()

	_, err := suite.service.PostEntry(ctx, entryID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkPosted")
}

func (suite *JournalServiceTestSuite) TestPostEntry_ConcurrentPostConflict() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: time.Now().UTC(),
		Status:    domain.Draft,
		Source:    domain.EntrySource{Type: domain.SourceManual},
	}
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccountID, Debit: decimal.NewFromInt(100), LineOrder: 1},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.salesAccountID, Credit: decimal.NewFromInt(100), LineOrder: 2},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts, nil).Once()
	suite.mockJournalRepo.On("MarkPosted", ctx, entryID, "JE", mock.AnythingOfType("int"), mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return("", apperrors.ErrConflict).Once()

	_, err := suite.service.PostEntry(ctx, entryID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestVoidEntry_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-2025-000007",
		Status:      domain.Posted,
		Source:      domain.EntrySource{Type: domain.SourceManual},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()
	suite.mockJournalRepo.On("MarkVoided", ctx, entryID, "wrong register", actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	voided, err := suite.service.VoidEntry(ctx, entryID, dto.VoidEntryRequest{Reason: "wrong register"}, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Void, voided.Status)
	suite.Equal("wrong register", voided.VoidReason)
	suite.Equal("JE-2025-000007", voided.EntryNumber) // the number is never reused
	suite.NotNil(voided.VoidedAt)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidEntry_NotPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, Status: domain.Draft}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()

	_, err := suite.service.VoidEntry(ctx, entryID, dto.VoidEntryRequest{Reason: "nope"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkVoided")
}

func (suite *JournalServiceTestSuite) TestVoidEntry_DoubleVoid() {
	ctx := context.Background()
	entryID := uuid.NewString()
	void := &domain.JournalEntry{EntryID: entryID, Status: domain.Void}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(void, nil).Once()

	_, err := suite.service.VoidEntry(ctx, entryID, dto.VoidEntryRequest{Reason: "again"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_MirrorsLines() {
	ctx := context.Background()
	actorID := uuid.NewString()
	originalID := uuid.NewString()
	original := &domain.JournalEntry{
		EntryID:     originalID,
		EntryNumber: "JE-2025-000010",
		EntryDate:   time.Now().UTC().AddDate(0, 0, -1),
		Status:      domain.Posted,
		Source:      domain.EntrySource{Type: domain.SourceOrder, SourceID: uuid.NewString()},
	}
	originalLines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.cashAccountID, Debit: decimal.NewFromInt(1000), LineOrder: 1},
		{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.salesAccountID, Credit: decimal.NewFromInt(1000), LineOrder: 2},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, originalID).Return(originalLines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts, nil).Once()
	suite.mockJournalRepo.On("SaveDraft", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).Return(nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, originalID, dto.ReverseEntryRequest{}, actorID)

	suite.Require().NoError(err)
	// The reversal is a draft; the caller reviews and posts it separately.
	suite.Equal(domain.Draft, reversal.Status)
	suite.Empty(reversal.EntryNumber)
	suite.Equal(domain.SourceAdjustment, reversal.Source.Type)
	suite.Equal(originalID, reversal.Source.SourceID)
	suite.Contains(reversal.Memo, "JE-2025-000010")
	suite.Require().Len(reversal.Lines, 2)
	// Every debit becomes a credit and vice versa.
	suite.True(reversal.Lines[0].Credit.Equal(decimal.NewFromInt(1000)))
	suite.True(reversal.Lines[0].Debit.IsZero())
	suite.True(reversal.Lines[1].Debit.Equal(decimal.NewFromInt(1000)))
	suite.True(reversal.Lines[1].Credit.IsZero())
	suite.Equal(1, reversal.Lines[0].LineOrder)
	suite.Equal(2, reversal.Lines[1].LineOrder)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkPosted")
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AdjustmentRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	adjustment := &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-2025-000020",
		Status:      domain.Posted,
		Source:      domain.EntrySource{Type: domain.SourceAdjustment, SourceID: uuid.NewString()},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(adjustment, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, entryID, dto.ReverseEntryRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReverseOfReverse)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraft")
}

func (suite *JournalServiceTestSuite) TestReverseEntry_NotPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()
	void := &domain.JournalEntry{EntryID: entryID, Status: domain.Void}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(void, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, entryID, dto.ReverseEntryRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrVoidOfVoid)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestListEntries_DefaultLimit() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ListEntries", ctx, (*domain.EntryStatus)(nil), 20, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil).Once()

	_, token, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.Empty(token)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
