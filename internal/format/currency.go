// Package format renders budget amounts for display. Budget arithmetic never
// goes through here; it only turns finished decimals into currency strings.
package format

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency formats amounts in a fixed ISO 4217 currency using that
// currency's grapheme, separators and number of minor digits.
type Currency struct {
	cur *money.Currency
}

// NewCurrency returns a formatter for the given currency code.
func NewCurrency(code string) (*Currency, error) {
	cur := money.GetCurrency(code)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	return &Currency{cur: cur}, nil
}

// Code returns the ISO 4217 code of the formatter.
func (c *Currency) Code() string {
	return c.cur.Code
}

// Format renders amount, rounded half away from zero to the currency's
// minor unit. The layout follows go-money's Formatter, but the digits come
// from the decimal itself so amounts beyond the int64 range of minor units
// are rendered exactly.
func (c *Currency) Format(amount decimal.Decimal) string {
	f := c.cur.Formatter()
	minor := amount.Shift(int32(f.Fraction)).Round(0)

	sa := minor.Abs().String()
	if len(sa) <= f.Fraction {
		sa = strings.Repeat("0", f.Fraction-len(sa)+1) + sa
	}
	if f.Thousand != "" {
		for i := len(sa) - f.Fraction - 3; i > 0; i -= 3 {
			sa = sa[:i] + f.Thousand + sa[i:]
		}
	}
	if f.Fraction > 0 {
		sa = sa[:len(sa)-f.Fraction] + f.Decimal + sa[len(sa)-f.Fraction:]
	}
	sa = strings.Replace(f.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", f.Grapheme, 1)

	if minor.IsNegative() {
		sa = "-" + sa
	}
	return sa
}
