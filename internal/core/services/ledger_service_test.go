package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dlezama/banca_simple_app/internal/apperrors"
	"github.com/dlezama/banca_simple_app/internal/core/domain"
	"github.com/dlezama/banca_simple_app/internal/core/services"
)

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserRole(ctx context.Context, userID string, role domain.Role, updatedAt time.Time) error {
	args := m.Called(ctx, userID, role, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) ApplyLedgerEntry(ctx context.Context, entry domain.Transaction) (decimal.Decimal, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUserRepository) ApplyTransfer(ctx context.Context, outEntry domain.Transaction, inEntry domain.Transaction) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, outEntry, inEntry)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockUserRepository) ListTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockUserRepository) ListAllTransactions(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  *services.LedgerService
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)
}

func account(id, email string, balance int64) *domain.User {
	return &domain.User{
		UserID:  id,
		Name:    "Account " + id,
		Email:   email,
		Role:    domain.RoleUser,
		Balance: decimal.NewFromInt(balance),
	}
}

// --- Deposit / Withdraw ---

func (suite *LedgerServiceTestSuite) TestDeposit_InvalidAmount() {
	ctx := context.Background()

	_, err := suite.service.Deposit(ctx, "u1", decimal.Zero)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByID")
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyLedgerEntry")
}

func (suite *LedgerServiceTestSuite) TestDeposit_Success() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(account("u1", "a@x.com", 0), nil).Once()
	suite.mockRepo.On("ApplyLedgerEntry", ctx, mock.MatchedBy(func(e domain.Transaction) bool {
		return e.UserID == "u1" && e.Type == domain.Deposit && e.Amount.Equal(decimal.NewFromInt(100))
	})).Return(decimal.NewFromInt(100), nil).Once()

	balance, err := suite.service.Deposit(ctx, "u1", decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(100)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestWithdraw_InsufficientFunds() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(account("u1", "a@x.com", 30), nil).Once()

	_, err := suite.service.Withdraw(ctx, "u1", decimal.NewFromInt(31))

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyLedgerEntry")
}

func (suite *LedgerServiceTestSuite) TestWithdraw_Success() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(account("u1", "a@x.com", 100), nil).Once()
	suite.mockRepo.On("ApplyLedgerEntry", ctx, mock.MatchedBy(func(e domain.Transaction) bool {
		return e.Type == domain.Withdraw && e.Amount.Equal(decimal.NewFromInt(50))
	})).Return(decimal.NewFromInt(50), nil).Once()

	balance, err := suite.service.Withdraw(ctx, "u1", decimal.NewFromInt(50))

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(50)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestWithdraw_UserNotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Withdraw(ctx, "missing", decimal.NewFromInt(50))

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

// --- Transfer ---

func (suite *LedgerServiceTestSuite) TestTransfer_InvalidAmount() {
	ctx := context.Background()

	_, err := suite.service.Transfer(ctx, "u1", "b@x.com", decimal.NewFromInt(-5))

	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByID")
}

func (suite *LedgerServiceTestSuite) TestTransfer_RecipientNotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(account("u1", "a@x.com", 50), nil).Once()
	suite.mockRepo.On("FindUserByEmail", ctx, "nobody@x.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Transfer(ctx, "u1", "nobody@x.com", decimal.NewFromInt(25))

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyTransfer")
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientFunds() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(account("u1", "a@x.com", 10), nil).Once()
	suite.mockRepo.On("FindUserByEmail", ctx, "b@x.com").Return(account("u2", "b@x.com", 0), nil).Once()

	_, err := suite.service.Transfer(ctx, "u1", "b@x.com", decimal.NewFromInt(25))

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyTransfer")
}

func (suite *LedgerServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(account("u1", "a@x.com", 50), nil).Once()
	suite.mockRepo.On("FindUserByEmail", ctx, "b@x.com").Return(account("u2", "b@x.com", 0), nil).Once()
	suite.mockRepo.On("ApplyTransfer", ctx,
		mock.MatchedBy(func(out domain.Transaction) bool {
			return out.UserID == "u1" && out.Type == domain.Transfer &&
				out.Amount.Equal(decimal.NewFromInt(25)) &&
				out.Details != nil && *out.Details == "To: b@x.com"
		}),
		mock.MatchedBy(func(in domain.Transaction) bool {
			return in.UserID == "u2" && in.Type == domain.Transfer &&
				in.Amount.Equal(decimal.NewFromInt(25)) &&
				in.Details != nil && *in.Details == "From: a@x.com"
		}),
	).Return(decimal.NewFromInt(25), decimal.NewFromInt(25), nil).Once()

	result, err := suite.service.Transfer(ctx, "u1", "b@x.com", decimal.NewFromInt(25))

	suite.Require().NoError(err)
	suite.True(result.SenderBalance.Equal(decimal.NewFromInt(25)))
	suite.True(result.RecipientBalance.Equal(decimal.NewFromInt(25)))
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Reads ---

func (suite *LedgerServiceTestSuite) TestGetBalance() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(account("u1", "a@x.com", 42), nil).Once()

	balance, err := suite.service.GetBalance(ctx, "u1")

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(42)))
}

func (suite *LedgerServiceTestSuite) TestListTransactions_UserNotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListTransactions(ctx, "missing")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListTransactionsByUserID")
}

func (suite *LedgerServiceTestSuite) TestListTransactions_EmptyHistory() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(account("u1", "a@x.com", 0), nil).Once()
	suite.mockRepo.On("ListTransactionsByUserID", ctx, "u1").Return(nil, nil).Once()

	transactions, err := suite.service.ListTransactions(ctx, "u1")

	suite.Require().NoError(err)
	suite.NotNil(transactions)
	suite.Empty(transactions)
}

func (suite *LedgerServiceTestSuite) TestListAllTransactions() {
	ctx := context.Background()
	users := []domain.User{
		{UserID: "u1", Transactions: []domain.Transaction{{TransactionID: "t1", UserID: "u1", Type: domain.Deposit, Amount: decimal.NewFromInt(10)}}},
		{UserID: "u2"},
	}
	suite.mockRepo.On("ListAllTransactions", ctx).Return(users, nil).Once()

	histories, err := suite.service.ListAllTransactions(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(histories, 2)
	suite.Equal("u1", histories[0].UserID)
	suite.Len(histories[0].Transactions, 1)
	suite.NotNil(histories[1].Transactions, "empty history must serialize as [], not null")
	suite.Empty(histories[1].Transactions)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
