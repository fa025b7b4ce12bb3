package repository

import (
	"database/sql"
	"kidbank/logger"
	"kidbank/model"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account database operations.
type IAccountRepository interface {
	CreateAccount(account *model.Account) error
	GetAccountByNumber(accountNumber string) (*model.Account, error)
	GetAllAccounts() ([]*model.Account, error)
	AccountNumberExists(accountNumber string) (bool, error)
	GetAccountForUpdate(tx *sql.Tx, accountNumber string) (*model.Account, error)
	UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error
}

// AccountRepository implements IAccountRepository over sqlite.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// CreateAccount inserts a new account row and fills in its generated id.
func (r *AccountRepository) CreateAccount(account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"account_type":   account.Type,
		"currency":       account.Currency,
	})
	log.Info("Executing query to create a new account")

	account.CreatedAt = time.Now().UTC()
	query := `INSERT INTO accounts (account_number, first_name, last_name, account_type, currency, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
	err := r.DB.QueryRow(query,
		account.AccountNumber, account.FirstName, account.LastName,
		string(account.Type), account.Currency, account.Balance, account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetAccountByNumber retrieves one account, or sql.ErrNoRows if the number was
// never issued.
func (r *AccountRepository) GetAccountByNumber(accountNumber string) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT id, account_number, first_name, last_name, account_type, currency, balance, created_at
		FROM accounts WHERE account_number = ?`
	err := r.DB.QueryRow(query, accountNumber).Scan(
		&account.ID, &account.AccountNumber, &account.FirstName, &account.LastName,
		&account.Type, &account.Currency, &account.Balance, &account.CreatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithField("account_number", accountNumber).
				WithError(err).Error("Failed to execute get account query")
		}
		return nil, err
	}
	return account, nil
}

// GetAllAccounts retrieves every account ordered by holder name, for the main
// menu listing.
func (r *AccountRepository) GetAllAccounts() ([]*model.Account, error) {
	query := `SELECT id, account_number, first_name, last_name, account_type, currency, balance, created_at
		FROM accounts ORDER BY last_name, first_name`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.AccountNumber, &acc.FirstName, &acc.LastName,
			&acc.Type, &acc.Currency, &acc.Balance, &acc.CreatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// AccountNumberExists reports whether a number has already been issued.
func (r *AccountRepository) AccountNumberExists(accountNumber string) (bool, error) {
	var id int
	err := r.DB.QueryRow(`SELECT id FROM accounts WHERE account_number = ?`, accountNumber).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute account number existence query")
		return false, err
	}
	return true, nil
}

// GetAccountForUpdate reads an account inside an open transaction so the
// balance seen is the one the update applies to.
func (r *AccountRepository) GetAccountForUpdate(tx *sql.Tx, accountNumber string) (*model.Account, error) {
	log := logger.Log.WithField("account_number", accountNumber)
	log.Info("Executing query to get account for update")

	account := &model.Account{}
	query := `SELECT id, account_number, first_name, last_name, account_type, currency, balance, created_at
		FROM accounts WHERE account_number = ?`
	err := tx.QueryRow(query, accountNumber).Scan(
		&account.ID, &account.AccountNumber, &account.FirstName, &account.LastName,
		&account.Type, &account.Currency, &account.Balance, &account.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

// UpdateAccountBalance writes the new balance inside the caller's transaction.
func (r *AccountRepository) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"new_balance": newBalance.String(),
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = ? WHERE id = ?`
	_, err := tx.Exec(query, newBalance, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}
