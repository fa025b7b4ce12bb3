// Package currency holds the fixed registry of currencies accounts can be
// denominated in. There is no conversion between them.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Currency struct {
	Code   string
	Name   string
	Symbol string
}

var registry = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollars", Symbol: "$"},
	"BB":  {Code: "BB", Name: "BrainBucks", Symbol: "BB"},
}

// Get returns the currency for code, or an error for unknown codes.
func Get(code string) (Currency, error) {
	c, ok := registry[code]
	if !ok {
		return Currency{}, fmt.Errorf("unknown currency: %s", code)
	}
	return c, nil
}

// IsValid reports whether code names a registered currency.
func IsValid(code string) bool {
	_, ok := registry[code]
	return ok
}

// All returns every registered currency.
func All() []Currency {
	return []Currency{registry["USD"], registry["BB"]}
}

// Format renders an amount with the currency's symbol: "$1,000.00" for USD,
// "1,000.00 BB" for others. Negative amounts carry the sign ahead of the
// symbol: "-$12.00".
func (c Currency) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	s := groupThousands(amount.StringFixed(2))
	if c.Code == "USD" {
		return sign + c.Symbol + s
	}
	return sign + s + " " + c.Symbol
}

func groupThousands(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, fracPart := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, fracPart = s[:i], s[i:]
			break
		}
	}
	var out []byte
	for i, d := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	res := string(out) + fracPart
	if neg {
		return "-" + res
	}
	return res
}
