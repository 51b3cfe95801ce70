package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	"github.com/retailcore/pos_accounting/internal/core/domain"
	"github.com/retailcore/pos_accounting/internal/core/services"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
	"github.com/retailcore/pos_accounting/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasPostings(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, actorID string, now time.Time) error {
	args := m.Called(ctx, accountID, actorID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:        "Register Cash",
		AccountType: "ASSET",
		Subtype:     "CASH",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(domain.Asset, created.AccountType)
	suite.Equal(domain.SubtypeCash, created.Subtype)
	suite.True(created.IsActive)
	suite.False(created.IsSystem)
	suite.Equal(actorID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidSubtype() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Broken",
		AccountType: "ASSET",
		Subtype:     "ACCOUNTS_PAYABLE", // a liability subtype
	}

	created, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrInvalidSubtype)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeOpeningBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:               "Register Cash",
		AccountType:        "ASSET",
		Subtype:            "CASH",
		OpeningBalance:     decimal.NewFromInt(-100),
		OpeningBalanceDate: time.Now(),
	}

	_, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNegativeOpening)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OpeningDateRequired() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:           "Register Cash",
		AccountType:    "ASSET",
		Subtype:        "CASH",
		OpeningBalance: decimal.NewFromInt(500),
	}

	_, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrOpeningDateRequired)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parentID := uuid.NewString()
	parent := &domain.Account{
		AccountID:   parentID,
		AccountType: domain.Expense,
		Subtype:     domain.SubtypeOperatingExpense,
		IsActive:    true,
	}
	req := dto.CreateAccountRequest{
		Name:            "Till Float",
		AccountType:     "ASSET",
		Subtype:         "CASH",
		ParentAccountID: parentID,
	}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrParentTypeMismatch)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentNotFound() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:            "Till Float",
		AccountType:     "ASSET",
		Subtype:         "CASH",
		ParentAccountID: parentID,
	}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		Name:        "Old Name",
		AccountType: domain.Income,
		Subtype:     domain.SubtypeSalesRevenue,
		IsActive:    true,
	}
	newName := "Store Sales"
	req := dto.UpdateAccountRequest{Name: &newName}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_InvalidSubtype() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		AccountType: domain.Income,
		Subtype:     domain.SubtypeSalesRevenue,
		IsActive:    true,
	}
	badSubtype := "CASH"
	req := dto.UpdateAccountRequest{Subtype: &badSubtype}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, accountID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidSubtype)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoFields() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		Name:        "Unchanged",
		AccountType: domain.Income,
		Subtype:     domain.SubtypeSalesRevenue,
		IsActive:    true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("Unchanged", updated.Name)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		AccountType: domain.Expense,
		Subtype:     domain.SubtypeOtherExpense,
		IsActive:    true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("ListAccounts", ctx, mock.AnythingOfType("domain.AccountFilter")).Return([]domain.Account{}, nil).Once()
	suite.mockRepo.On("HasPostings", ctx, accountID).Return(true, nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, accountID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NoPostingsDeletesRow() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		AccountType: domain.Expense,
		Subtype:     domain.SubtypeOtherExpense,
		IsActive:    true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("ListAccounts", ctx, mock.AnythingOfType("domain.AccountFilter")).Return([]domain.Account{}, nil).Once()
	suite.mockRepo.On("HasPostings", ctx, accountID).Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, accountID).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_StillReferencedKeepsRow() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		AccountType: domain.Expense,
		Subtype:     domain.SubtypeOtherExpense,
		IsActive:    true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("ListAccounts", ctx, mock.AnythingOfType("domain.AccountFilter")).Return([]domain.Account{}, nil).Once()
	suite.mockRepo.On("HasPostings", ctx, accountID).Return(false, nil).Once()
	// No postings, but a recurring template still references the account.
	suite.mockRepo.On("DeleteAccount", ctx, accountID).Return(apperrors.ErrConflict).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, accountID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_SystemAccountBlocked() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		AccountType: domain.Equity,
		Subtype:     domain.SubtypeRetainedEarnings,
		IsActive:    true,
		IsSystem:    true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSystemAccount)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount")
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		AccountType: domain.Expense,
		Subtype:     domain.SubtypeOtherExpense,
		IsActive:    false,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount")
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_ActiveChildrenBlocked() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		AccountType: domain.Expense,
		Subtype:     domain.SubtypeOperatingExpense,
		IsActive:    true,
	}
	child := domain.Account{AccountID: uuid.NewString(), ParentAccountID: accountID, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("ListAccounts", ctx, mock.AnythingOfType("domain.AccountFilter")).Return([]domain.Account{child}, nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountHasChildren)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount")
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, accountID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
