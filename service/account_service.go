package service

import (
	"database/sql"
	"fmt"
	"math/rand/v2"
	"strings"

	"kidbank/common"
	"kidbank/currency"
	"kidbank/logger"
	"kidbank/model"
	"kidbank/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OpenAccountRequest carries the fields collected by the new-account form.
type OpenAccountRequest struct {
	FirstName      string          `validate:"required"`
	LastName       string          `validate:"required"`
	AccountType    string          `validate:"required,oneof=checking savings"`
	Currency       string          `validate:"required"`
	InitialDeposit decimal.Decimal `validate:"-"`
}

type AccountService struct {
	repo repository.IAccountRepository
}

func NewAccountService(repo repository.IAccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// OpenAccount validates the request, assigns a never-issued account number and
// creates the account with a zero balance. Any initial deposit is applied
// afterwards by the caller through the transaction service so it lands in the
// ledger like every other balance change.
func (s *AccountService) OpenAccount(req OpenAccountRequest) (*model.Account, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !currency.IsValid(req.Currency) {
		return nil, common.Validationf("unknown currency: %s", req.Currency)
	}
	if req.InitialDeposit.IsNegative() {
		return nil, common.Validationf("initial deposit cannot be negative")
	}

	accountNumber, err := s.generateAccountNumber()
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		AccountNumber: accountNumber,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Type:          model.AccountType(req.AccountType),
		Currency:      req.Currency,
		Balance:       decimal.Zero,
	}

	if err := s.repo.CreateAccount(account); err != nil {
		return nil, common.Storage("create account", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"account_type":   account.Type,
	}).Info("Account opened")

	return account, nil
}

// GetAccount looks up an account by number.
func (s *AccountService) GetAccount(accountNumber string) (*model.Account, error) {
	account, err := s.repo.GetAccountByNumber(accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, common.ErrAccountNotFound
		}
		return nil, common.Storage("get account", err)
	}
	return account, nil
}

// GetBalance returns the stored balance for an account. Reads always reflect
// every previously committed transaction: there is no cache in front of the
// database.
func (s *AccountService) GetBalance(accountNumber string) (decimal.Decimal, error) {
	account, err := s.GetAccount(accountNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ListAccounts returns all accounts ordered by holder name.
func (s *AccountService) ListAccounts() ([]*model.Account, error) {
	accounts, err := s.repo.GetAllAccounts()
	if err != nil {
		return nil, common.Storage("list accounts", err)
	}
	return accounts, nil
}

// generateAccountNumber draws random 6-digit numbers until one is free. The
// uniqueness guarantee comes from the existence check plus the UNIQUE
// constraint, not from the generator.
func (s *AccountService) generateAccountNumber() (string, error) {
	for {
		number := fmt.Sprintf("%06d", rand.IntN(900000)+100000)
		exists, err := s.repo.AccountNumberExists(number)
		if err != nil {
			return "", common.Storage("check account number", err)
		}
		if !exists {
			return number, nil
		}
	}
}
