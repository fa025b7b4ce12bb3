// Package printer formats receipts and account statements and spools them to
// the system print queue.
package printer

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"kidbank/currency"
	"kidbank/logger"
	"kidbank/model"
)

// Width is the fixed line width of printed output.
const Width = 80

// PrinterError is raised when spooling to the print command fails. Formatting
// never fails; only the handoff to the spooler can.
type PrinterError struct {
	Err error
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("printing failed: %v", e.Err)
}

func (e *PrinterError) Unwrap() error { return e.Err }

// Printer spools formatted documents through an lp-style command.
type Printer struct {
	Command string
}

func New(command string) *Printer {
	if command == "" {
		command = "lp"
	}
	return &Printer{Command: command}
}

func center(text string) string {
	pad := Width - len(text)
	if pad <= 0 {
		return text
	}
	left := pad / 2
	return strings.Repeat(" ", left) + text
}

func line(char string) string {
	return strings.Repeat(char, Width)
}

func formatTime(t time.Time) string {
	return t.Local().Format("01/02/2006 03:04:05 PM")
}

// FormatReceipt renders a single transaction receipt.
func FormatReceipt(account *model.Account, txn *model.Transaction) string {
	cur, err := currency.Get(account.Currency)
	if err != nil {
		cur = currency.Currency{Code: account.Currency, Symbol: account.Currency}
	}

	kind := strings.ToUpper(txn.Kind())
	amount := txn.Amount.Abs()

	lines := []string{
		"",
		line("*"),
		center("KIDBANK TERMINAL SYSTEM"),
		center("TRANSACTION RECEIPT"),
		line("*"),
		"",
		line("-"),
		fmt.Sprintf("  DATE/TIME: %s", formatTime(time.Now())),
		fmt.Sprintf("  TRANSACTION ID: %d", txn.ID),
		line("-"),
		"",
		fmt.Sprintf("  ACCOUNT HOLDER: %s", account.HolderName()),
		fmt.Sprintf("  ACCOUNT NUMBER: %s", account.AccountNumber),
		fmt.Sprintf("  ACCOUNT TYPE: %s", strings.ToUpper(string(account.Type))),
		"",
		line("-"),
		fmt.Sprintf("  TRANSACTION TYPE: %s", kind),
		fmt.Sprintf("  AMOUNT: %s", cur.Format(amount)),
		"",
		fmt.Sprintf("  NEW BALANCE: %s", cur.Format(txn.BalanceAfter)),
		line("-"),
		"",
	}

	if txn.Description != "" {
		lines = append(lines,
			fmt.Sprintf("  DESCRIPTION: %s", txn.Description),
			"",
		)
	}

	lines = append(lines,
		center("Thank you for banking with KIDBANK"),
		line("*"),
		"",
		"",
	)

	return strings.Join(lines, "\n")
}

// FormatStatement renders an account statement over its transaction history,
// oldest entry first.
func FormatStatement(account *model.Account, transactions []*model.Transaction) string {
	cur, err := currency.Get(account.Currency)
	if err != nil {
		cur = currency.Currency{Code: account.Currency, Symbol: account.Currency}
	}

	lines := []string{
		"",
		line("*"),
		center("KIDBANK TERMINAL SYSTEM"),
		center("ACCOUNT STATEMENT"),
		line("*"),
		"",
		fmt.Sprintf("  STATEMENT DATE: %s", formatTime(time.Now())),
		"",
		fmt.Sprintf("  ACCOUNT HOLDER: %s", account.HolderName()),
		fmt.Sprintf("  ACCOUNT NUMBER: %s", account.AccountNumber),
		fmt.Sprintf("  ACCOUNT TYPE: %s", strings.ToUpper(string(account.Type))),
		fmt.Sprintf("  CURRENCY: %s", cur.Name),
		"",
		line("="),
		fmt.Sprintf("  %-22s %-12s %18s %18s", "DATE", "TYPE", "AMOUNT", "BALANCE"),
		line("-"),
	}

	if len(transactions) == 0 {
		lines = append(lines, "  No transactions")
	}
	for _, txn := range transactions {
		sign := "+"
		if txn.Amount.IsNegative() {
			sign = "-"
		}
		lines = append(lines, fmt.Sprintf("  %-22s %-12s %18s %18s",
			formatTime(txn.CreatedAt),
			strings.ToUpper(txn.Kind()),
			sign+cur.Format(txn.Amount.Abs()),
			cur.Format(txn.BalanceAfter),
		))
	}

	lines = append(lines,
		line("-"),
		fmt.Sprintf("  CURRENT BALANCE: %s", cur.Format(account.Balance)),
		line("="),
		"",
		center("Thank you for banking with KIDBANK"),
		line("*"),
		"",
		"",
	)

	return strings.Join(lines, "\n")
}

// Print spools a formatted document. The document text is fed to the command
// on stdin, matching how lp consumes jobs.
func (p *Printer) Print(document string) error {
	cmd := exec.Command(p.Command)
	cmd.Stdin = strings.NewReader(document)
	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Log.WithError(err).WithField("output", string(out)).Error("Print spooling failed")
		return &PrinterError{Err: err}
	}
	logger.Log.WithField("command", p.Command).Info("Document sent to printer")
	return nil
}

// PrintReceipt formats and spools a transaction receipt.
func (p *Printer) PrintReceipt(account *model.Account, txn *model.Transaction) error {
	return p.Print(FormatReceipt(account, txn))
}

// PrintStatement formats and spools an account statement.
func (p *Printer) PrintStatement(account *model.Account, transactions []*model.Transaction) error {
	return p.Print(FormatStatement(account, transactions))
}
