package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the fixed set of account variants.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

// Valid reports whether t is one of the recognized variants.
func (t AccountType) Valid() bool {
	return t == AccountTypeChecking || t == AccountTypeSavings
}

type Account struct {
	ID            int             `json:"id"`
	AccountNumber string          `json:"account_number"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Type          AccountType     `json:"account_type"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HolderName returns the account holder's display name.
func (a *Account) HolderName() string {
	return a.FirstName + " " + a.LastName
}
