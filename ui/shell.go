// Package ui is the terminal presentation shell. It owns all prompting and
// formatting; every state change goes through the service boundary.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"kidbank/common"
	"kidbank/currency"
	"kidbank/model"
	"kidbank/printer"
	"kidbank/service"
)

type Shell struct {
	accounts        *service.AccountService
	transactions    *service.TransactionService
	printer         *printer.Printer
	defaultCurrency string

	in  *bufio.Scanner
	out io.Writer
}

func NewShell(accounts *service.AccountService, transactions *service.TransactionService, p *printer.Printer, defaultCurrency string, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		accounts:        accounts,
		transactions:    transactions,
		printer:         p,
		defaultCurrency: defaultCurrency,
		in:              bufio.NewScanner(in),
		out:             out,
	}
}

// Run drives the main menu until the user quits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.printf("\nKIDBANK TERMINAL SYSTEM v1.0\n")
		s.printf("%s\n", strings.Repeat("=", 60))
		s.showAccountList()
		s.printf("\n[account number] Open account detail  [N] New account  [Q] Quit\n")

		choice, ok := s.prompt("> ")
		if !ok {
			return nil
		}

		switch strings.ToLower(choice) {
		case "q":
			return nil
		case "n":
			s.createAccountScreen()
		case "":
		default:
			s.accountDetailScreen(ctx, choice)
		}
	}
}

func (s *Shell) showAccountList() {
	accounts, err := s.accounts.ListAccounts()
	if err != nil {
		s.showError(err)
		return
	}
	if len(accounts) == 0 {
		s.printf("No accounts found. Press [N] to create one.\n")
		return
	}
	for _, account := range accounts {
		s.printf("%s  %-25s  %-10s  %s\n",
			account.AccountNumber,
			account.HolderName(),
			strings.ToUpper(string(account.Type)),
			s.formatAmount(account, account.Balance),
		)
	}
}

func (s *Shell) createAccountScreen() {
	first, ok := s.prompt("First name: ")
	if !ok {
		return
	}
	last, ok := s.prompt("Last name: ")
	if !ok {
		return
	}
	acctType, ok := s.prompt("Account type (checking/savings): ")
	if !ok {
		return
	}

	s.printf("Available currencies:\n")
	for _, c := range currency.All() {
		s.printf("  %s - %s\n", c.Code, c.Name)
	}
	code, ok := s.prompt(fmt.Sprintf("Currency [%s]: ", s.defaultCurrency))
	if !ok {
		return
	}
	if code == "" {
		code = s.defaultCurrency
	}

	depositStr, ok := s.prompt("Initial deposit [0]: ")
	if !ok {
		return
	}
	initial := decimal.Zero
	if depositStr != "" {
		var err error
		initial, err = decimal.NewFromString(depositStr)
		if err != nil {
			s.printf("ERROR: invalid amount: %s\n", depositStr)
			return
		}
	}

	account, err := s.accounts.OpenAccount(service.OpenAccountRequest{
		FirstName:      first,
		LastName:       last,
		AccountType:    strings.ToLower(acctType),
		Currency:       strings.ToUpper(code),
		InitialDeposit: initial,
	})
	if err != nil {
		s.showError(err)
		return
	}

	if initial.IsPositive() {
		if _, err := s.transactions.Deposit(context.Background(), account.AccountNumber, initial, "Initial deposit"); err != nil {
			s.showError(err)
			return
		}
	}

	s.printf("SUCCESS: account %s opened\n", account.AccountNumber)
}

func (s *Shell) accountDetailScreen(ctx context.Context, accountNumber string) {
	for {
		account, err := s.accounts.GetAccount(accountNumber)
		if err != nil {
			s.showError(err)
			return
		}

		cur, _ := currency.Get(account.Currency)
		s.printf("\nAccount Holder: %s\n", account.HolderName())
		s.printf("Account: %s  Type: %s  Currency: %s\n",
			account.AccountNumber, strings.ToUpper(string(account.Type)), cur.Name)
		s.printf("Balance: %s\n", s.formatAmount(account, account.Balance))
		s.printf("%s\n", strings.Repeat("=", 60))
		s.printf("RECENT TRANSACTIONS:\n")
		s.showRecentTransactions(ctx, account)
		s.printf("\n[D] Deposit  [W] Withdraw  [P] Print Statement  [R] Reconcile  [B] Back\n")

		choice, ok := s.prompt("> ")
		if !ok {
			return
		}

		switch strings.ToLower(choice) {
		case "b":
			return
		case "d":
			s.transactionScreen(ctx, account, true)
		case "w":
			s.transactionScreen(ctx, account, false)
		case "p":
			s.printStatement(ctx, account)
		case "r":
			if err := s.transactions.Reconcile(ctx, account.AccountNumber); err != nil {
				s.showError(err)
			} else {
				s.printf("SUCCESS: balance matches ledger sum\n")
			}
		}
	}
}

const recentLimit = 10

func (s *Shell) showRecentTransactions(ctx context.Context, account *model.Account) {
	history, err := s.transactions.History(ctx, account.AccountNumber)
	if err != nil {
		s.showError(err)
		return
	}
	if len(history) == 0 {
		s.printf("No transactions\n")
		return
	}
	// History is ascending; show the newest entries last like a passbook.
	if len(history) > recentLimit {
		history = history[len(history)-recentLimit:]
	}
	for _, txn := range history {
		sign := "+"
		if txn.Amount.IsNegative() {
			sign = "-"
		}
		s.printf("%s  %-12s  %s%s  Bal: %s\n",
			txn.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			strings.ToUpper(txn.Kind()),
			sign,
			s.formatAmount(account, txn.Amount.Abs()),
			s.formatAmount(account, txn.BalanceAfter),
		)
	}
}

func (s *Shell) transactionScreen(ctx context.Context, account *model.Account, isDeposit bool) {
	verb := "Deposit"
	if !isDeposit {
		verb = "Withdrawal"
	}

	amountStr, ok := s.prompt(fmt.Sprintf("%s amount: ", verb))
	if !ok {
		return
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		s.printf("ERROR: invalid amount: %s\n", amountStr)
		return
	}

	description, ok := s.prompt("Description (optional): ")
	if !ok {
		return
	}

	var txn *model.Transaction
	if isDeposit {
		txn, err = s.transactions.Deposit(ctx, account.AccountNumber, amount, description)
	} else {
		txn, err = s.transactions.Withdraw(ctx, account.AccountNumber, amount, description)
	}
	if err != nil {
		s.showError(err)
		return
	}

	s.printf("SUCCESS: new balance %s\n", s.formatAmount(account, txn.BalanceAfter))

	if answer, ok := s.prompt("Print receipt? [y/N]: "); ok && strings.EqualFold(answer, "y") {
		account, err := s.accounts.GetAccount(account.AccountNumber)
		if err != nil {
			s.showError(err)
			return
		}
		if err := s.printer.PrintReceipt(account, txn); err != nil {
			s.showError(err)
		} else {
			s.printf("Receipt sent to printer successfully!\n")
		}
	}
}

func (s *Shell) printStatement(ctx context.Context, account *model.Account) {
	history, err := s.transactions.History(ctx, account.AccountNumber)
	if err != nil {
		s.showError(err)
		return
	}
	if err := s.printer.PrintStatement(account, history); err != nil {
		s.showError(err)
		return
	}
	s.printf("Statement sent to printer successfully!\n")
}

// showError maps error kinds onto single-line messages and leaves the user on
// the current screen.
func (s *Shell) showError(err error) {
	var printErr *printer.PrinterError
	switch {
	case errors.Is(err, common.ErrAccountNotFound):
		s.printf("ERROR: account not found\n")
	case errors.Is(err, common.ErrInsufficientFunds):
		s.printf("ERROR: insufficient funds\n")
	case errors.Is(err, common.ErrValidation):
		s.printf("ERROR: %v\n", err)
	case errors.As(err, &printErr):
		s.printf("ERROR: print failed: %v\n", printErr.Err)
	default:
		s.printf("ERROR: storage failure: %v\n", err)
	}
}

func (s *Shell) formatAmount(account *model.Account, amount decimal.Decimal) string {
	cur, err := currency.Get(account.Currency)
	if err != nil {
		return amount.StringFixed(2)
	}
	return cur.Format(amount)
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// prompt reads one trimmed line; ok is false once input is exhausted.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}
