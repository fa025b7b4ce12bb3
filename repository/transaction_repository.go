package repository

import (
	"database/sql"
	"kidbank/logger"
	"kidbank/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for ledger entry operations.
// Entries are append-only; there is no update or delete.
type ITransactionRepository interface {
	CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error
	GetTransactionsByAccountID(accountID int) ([]*model.Transaction, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// CreateTransaction appends a ledger entry inside the caller's transaction and
// fills in its generated id.
func (r *TransactionRepository) CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": transaction.AccountID,
		"amount":     transaction.Amount.String(),
	})
	log.Info("Executing query to append a ledger entry")

	transaction.CreatedAt = time.Now().UTC()
	query := `INSERT INTO transactions (account_id, amount, balance_after, description, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`
	err := tx.QueryRow(query,
		transaction.AccountID, transaction.Amount, transaction.BalanceAfter,
		transaction.Description, transaction.CreatedAt,
	).Scan(&transaction.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute append ledger entry query")
		return err
	}
	return nil
}

// GetTransactionsByAccountID retrieves the full history for an account in
// insertion order (ascending id).
func (r *TransactionRepository) GetTransactionsByAccountID(accountID int) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get transactions by account ID")

	query := `
		SELECT id, account_id, amount, balance_after, description, created_at
		FROM transactions
		WHERE account_id = ?
		ORDER BY id ASC`

	rows, err := r.DB.Query(query, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions by account ID")
		return nil, err
	}
	defer rows.Close()

	transactions := []*model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.BalanceAfter,
			&t.Description, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
