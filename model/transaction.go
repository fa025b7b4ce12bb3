package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one immutable ledger entry. Amount is signed: deposits are
// positive, withdrawals negative, so an account's balance is always the sum of
// its transaction amounts.
type Transaction struct {
	ID           int             `json:"id"`
	AccountID    int             `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Kind returns "deposit" or "withdrawal" based on the sign of the amount.
func (t *Transaction) Kind() string {
	if t.Amount.IsNegative() {
		return "withdrawal"
	}
	return "deposit"
}
