package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"kidbank/common"
	"kidbank/logger"
	"kidbank/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockAccountRepository is a mock for IAccountRepository.
type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) GetAccountForUpdate(tx *sql.Tx, accountNumber string) (*model.Account, error) {
	args := m.Called(tx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	args := m.Called(tx, accountID, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByNumber(accountNumber string) (*model.Account, error) {
	args := m.Called(accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateAccount(account *model.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockAccountRepository) AccountNumberExists(accountNumber string) (bool, error) {
	args := m.Called(accountNumber)
	return args.Bool(0), args.Error(1)
}

// Unused method needed to satisfy the interface
func (m *MockAccountRepository) GetAllAccounts() ([]*model.Account, error) { return nil, nil }

// MockTransactionRepository is a mock for ITransactionRepository.
type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) CreateTransaction(tx *sql.Tx, tr *model.Transaction) error {
	args := m.Called(tx, tr)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionsByAccountID(accountID int) ([]*model.Transaction, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func TestTransactionService_Deposit(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mockAccountRepo := new(MockAccountRepository)
	mockTxnRepo := new(MockTransactionRepository)
	transactionService := NewTransactionService(db, mockAccountRepo, mockTxnRepo)

	ctx := context.Background()
	account := &model.Account{
		ID:            1,
		AccountNumber: "123456",
		Type:          model.AccountTypeChecking,
		Balance:       decimal.RequireFromString("500"),
	}

	t.Run("success", func(t *testing.T) {
		dbMock.ExpectBegin()
		mockAccountRepo.On("GetAccountForUpdate", mock.Anything, "123456").Return(account, nil).Once()
		mockTxnRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
			return tr.Amount.Equal(decimal.RequireFromString("100")) &&
				tr.BalanceAfter.Equal(decimal.RequireFromString("600"))
		})).Return(nil).Once()
		mockAccountRepo.On("UpdateAccountBalance", mock.Anything, 1, decimal.RequireFromString("600")).Return(nil).Once()
		dbMock.ExpectCommit()

		txn, err := transactionService.Deposit(ctx, "123456", decimal.RequireFromString("100"), "")

		assert.NoError(t, err)
		assert.Equal(t, "Deposit", txn.Description)
		assert.Equal(t, "deposit", txn.Kind())
		mockAccountRepo.AssertExpectations(t)
		mockTxnRepo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("non-positive amount rejected without touching the store", func(t *testing.T) {
		_, err := transactionService.Deposit(ctx, "123456", decimal.Zero, "")
		assert.ErrorIs(t, err, common.ErrValidation)

		_, err = transactionService.Deposit(ctx, "123456", decimal.RequireFromString("-5"), "")
		assert.ErrorIs(t, err, common.ErrValidation)

		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		dbMock.ExpectBegin()
		mockAccountRepo.On("GetAccountForUpdate", mock.Anything, "999999").Return(nil, sql.ErrNoRows).Once()
		dbMock.ExpectRollback()

		_, err := transactionService.Deposit(ctx, "999999", decimal.RequireFromString("10"), "")

		assert.ErrorIs(t, err, common.ErrAccountNotFound)
		mockAccountRepo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("commit error", func(t *testing.T) {
		dbMock.ExpectBegin()
		mockAccountRepo.On("GetAccountForUpdate", mock.Anything, "123456").Return(account, nil).Once()
		mockTxnRepo.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil).Once()
		mockAccountRepo.On("UpdateAccountBalance", mock.Anything, 1, mock.Anything).Return(nil).Once()
		dbMock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		_, err := transactionService.Deposit(ctx, "123456", decimal.RequireFromString("100"), "")

		assert.ErrorIs(t, err, common.ErrStorage)
		mockAccountRepo.AssertExpectations(t)
		mockTxnRepo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestTransactionService_Withdraw(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mockAccountRepo := new(MockAccountRepository)
	mockTxnRepo := new(MockTransactionRepository)
	transactionService := NewTransactionService(db, mockAccountRepo, mockTxnRepo)

	ctx := context.Background()

	t.Run("success stores a negative amount", func(t *testing.T) {
		account := &model.Account{ID: 1, AccountNumber: "123456", Balance: decimal.RequireFromString("100")}

		dbMock.ExpectBegin()
		mockAccountRepo.On("GetAccountForUpdate", mock.Anything, "123456").Return(account, nil).Once()
		mockTxnRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
			return tr.Amount.Equal(decimal.RequireFromString("-30")) &&
				tr.BalanceAfter.Equal(decimal.RequireFromString("70"))
		})).Return(nil).Once()
		mockAccountRepo.On("UpdateAccountBalance", mock.Anything, 1, decimal.RequireFromString("70")).Return(nil).Once()
		dbMock.ExpectCommit()

		txn, err := transactionService.Withdraw(ctx, "123456", decimal.RequireFromString("30"), "")

		assert.NoError(t, err)
		assert.Equal(t, "withdrawal", txn.Kind())
		assert.Equal(t, "Withdrawal", txn.Description)
		mockAccountRepo.AssertExpectations(t)
		mockTxnRepo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("insufficient funds", func(t *testing.T) {
		poor := &model.Account{ID: 2, AccountNumber: "654321", Balance: decimal.RequireFromString("50")}

		dbMock.ExpectBegin()
		mockAccountRepo.On("GetAccountForUpdate", mock.Anything, "654321").Return(poor, nil).Once()
		dbMock.ExpectRollback()

		_, err := transactionService.Withdraw(ctx, "654321", decimal.RequireFromString("51"), "")

		assert.ErrorIs(t, err, common.ErrInsufficientFunds)
		mockAccountRepo.AssertExpectations(t)
		mockTxnRepo.AssertNotCalled(t, "CreateTransaction")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("withdrawal of the full balance is allowed", func(t *testing.T) {
		account := &model.Account{ID: 3, AccountNumber: "111111", Balance: decimal.RequireFromString("25")}

		dbMock.ExpectBegin()
		mockAccountRepo.On("GetAccountForUpdate", mock.Anything, "111111").Return(account, nil).Once()
		mockTxnRepo.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil).Once()
		mockAccountRepo.On("UpdateAccountBalance", mock.Anything, 3, mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.IsZero()
		})).Return(nil).Once()
		dbMock.ExpectCommit()

		txn, err := transactionService.Withdraw(ctx, "111111", decimal.RequireFromString("25"), "")

		assert.NoError(t, err)
		assert.True(t, txn.BalanceAfter.IsZero())
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := transactionService.Withdraw(ctx, "123456", decimal.Zero, "")
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestTransactionService_Reconcile(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mockAccountRepo := new(MockAccountRepository)
	mockTxnRepo := new(MockTransactionRepository)
	transactionService := NewTransactionService(db, mockAccountRepo, mockTxnRepo)

	ctx := context.Background()
	history := []*model.Transaction{
		{ID: 1, AccountID: 1, Amount: decimal.RequireFromString("100")},
		{ID: 2, AccountID: 1, Amount: decimal.RequireFromString("-30")},
	}

	t.Run("clean", func(t *testing.T) {
		account := &model.Account{ID: 1, AccountNumber: "123456", Balance: decimal.RequireFromString("70")}
		mockAccountRepo.On("GetAccountByNumber", "123456").Return(account, nil).Once()
		mockTxnRepo.On("GetTransactionsByAccountID", 1).Return(history, nil).Once()

		assert.NoError(t, transactionService.Reconcile(ctx, "123456"))
	})

	t.Run("corrupted balance detected", func(t *testing.T) {
		account := &model.Account{ID: 1, AccountNumber: "123456", Balance: decimal.RequireFromString("71")}
		mockAccountRepo.On("GetAccountByNumber", "123456").Return(account, nil).Once()
		mockTxnRepo.On("GetTransactionsByAccountID", 1).Return(history, nil).Once()

		err := transactionService.Reconcile(ctx, "123456")
		assert.ErrorIs(t, err, common.ErrStorage)
	})

	t.Run("unknown account", func(t *testing.T) {
		mockAccountRepo.On("GetAccountByNumber", "000000").Return(nil, sql.ErrNoRows).Once()

		err := transactionService.Reconcile(ctx, "000000")
		assert.ErrorIs(t, err, common.ErrAccountNotFound)
	})
}

func TestTransactionService_History(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mockAccountRepo := new(MockAccountRepository)
	mockTxnRepo := new(MockTransactionRepository)
	transactionService := NewTransactionService(db, mockAccountRepo, mockTxnRepo)

	t.Run("empty history is not an error", func(t *testing.T) {
		account := &model.Account{ID: 5, AccountNumber: "555555"}
		mockAccountRepo.On("GetAccountByNumber", "555555").Return(account, nil).Once()
		mockTxnRepo.On("GetTransactionsByAccountID", 5).Return([]*model.Transaction{}, nil).Once()

		history, err := transactionService.History(context.Background(), "555555")
		assert.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("unknown account", func(t *testing.T) {
		mockAccountRepo.On("GetAccountByNumber", "404404").Return(nil, sql.ErrNoRows).Once()

		_, err := transactionService.History(context.Background(), "404404")
		assert.ErrorIs(t, err, common.ErrAccountNotFound)
	})
}
