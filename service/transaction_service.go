package service

import (
	"context"
	"database/sql"
	"fmt"

	"kidbank/common"
	"kidbank/logger"
	"kidbank/model"
	"kidbank/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type TransactionService struct {
	db              *sql.DB
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
}

func NewTransactionService(db *sql.DB, accountRepo repository.IAccountRepository, transactionRepo repository.ITransactionRepository) *TransactionService {
	return &TransactionService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// Deposit appends a positive ledger entry and raises the balance. The entry
// insert and the balance update commit as one unit; on any error the on-disk
// state is unchanged.
func (s *TransactionService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, common.Validationf("deposit amount must be positive")
	}
	if description == "" {
		description = "Deposit"
	}
	return s.apply(ctx, accountNumber, amount, description)
}

// Withdraw appends a negative ledger entry and lowers the balance. Overdrafts
// are rejected with ErrInsufficientFunds before anything is written.
func (s *TransactionService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, common.Validationf("withdrawal amount must be positive")
	}
	if description == "" {
		description = "Withdrawal"
	}
	return s.apply(ctx, accountNumber, amount.Neg(), description)
}

// apply runs one ledger mutation. The signed amount convention (deposits
// positive, withdrawals negative) keeps the invariant
// balance == sum(entry amounts) directly checkable.
func (s *TransactionService) apply(ctx context.Context, accountNumber string, signedAmount decimal.Decimal, description string) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"amount":         signedAmount.String(),
	})
	log.Info("Starting ledger mutation")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Storage("begin transaction", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetAccountForUpdate(tx, accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, common.ErrAccountNotFound
		}
		return nil, common.Storage("get account for update", err)
	}

	newBalance := account.Balance.Add(signedAmount)
	if signedAmount.IsNegative() && newBalance.IsNegative() {
		return nil, common.ErrInsufficientFunds
	}

	transaction := &model.Transaction{
		AccountID:    account.ID,
		Amount:       signedAmount,
		BalanceAfter: newBalance,
		Description:  description,
	}

	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return nil, common.Storage("append ledger entry", err)
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, newBalance); err != nil {
		return nil, common.Storage("update balance", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Storage("commit", err)
	}

	log.WithField("new_balance", newBalance.String()).Info("Ledger mutation committed")
	return transaction, nil
}

// History returns the account's full transaction sequence in insertion order.
// A fresh account yields an empty slice, not an error.
func (s *TransactionService) History(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	account, err := s.accountRepo.GetAccountByNumber(accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, common.ErrAccountNotFound
		}
		return nil, common.Storage("get account", err)
	}

	transactions, err := s.transactionRepo.GetTransactionsByAccountID(account.ID)
	if err != nil {
		return nil, common.Storage("get history", err)
	}
	return transactions, nil
}

// Reconcile replays the account's ledger and compares the recomputed sum with
// the stored balance. It mutates nothing; a mismatch means the balance field
// was corrupted outside normal operation.
func (s *TransactionService) Reconcile(ctx context.Context, accountNumber string) error {
	account, err := s.accountRepo.GetAccountByNumber(accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return common.ErrAccountNotFound
		}
		return common.Storage("get account", err)
	}

	transactions, err := s.transactionRepo.GetTransactionsByAccountID(account.ID)
	if err != nil {
		return common.Storage("get history", err)
	}

	sum := decimal.Zero
	for _, t := range transactions {
		sum = sum.Add(t.Amount)
	}

	if !sum.Equal(account.Balance) {
		return fmt.Errorf("%w: account %s balance %s does not match ledger sum %s",
			common.ErrStorage, accountNumber, account.Balance.String(), sum.String())
	}
	return nil
}
