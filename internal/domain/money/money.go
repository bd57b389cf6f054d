// Package money converts between user-typed amount text, decimal values and
// display strings.
//
// Amounts typed by users follow the es-UY convention ("1.573,04") but plain
// dot-decimal input ("1573.04") is accepted as well. Display formatting is
// locale-aware and only happens at the render boundary.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrInvalidAmount is returned when the text is not a decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// Locale used for every display string.
var Locale = language.MustParse("es-UY")

// CurrencySymbol is the display symbol of the fixed dashboard currency (UYU).
const CurrencySymbol = "$"

// ParseAmount converts user text into a decimal.
//
// With both '.' and ',' present, '.' is a thousands separator and ',' the
// decimal point. With only '.', it is the decimal point. With only ',', it is
// converted to '.'.
//
//	ParseAmount("1.573,04") -> 1573.04
//	ParseAmount("46,02")    -> 46.02
//	ParseAmount("12.5")     -> 12.5
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return d, nil
}

// FormatAmountText is the inverse of ParseAmount for editing: two decimals,
// comma as decimal point, no grouping ("1573,04").
func FormatAmountText(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// FormatCurrency formats an amount as es-UY currency with two decimals, e.g. "$ 1.573,04".
func FormatCurrency(d decimal.Decimal) string {
	p := message.NewPrinter(Locale)
	body := p.Sprint(number.Decimal(d.Abs().InexactFloat64(), number.Scale(2)))
	if d.IsNegative() {
		return "-" + CurrencySymbol + " " + body
	}
	return CurrencySymbol + " " + body
}

// FormatPercentage formats a percentage value (31 means 31%) with one decimal, e.g. "31,0%".
func FormatPercentage(pct decimal.Decimal) string {
	p := message.NewPrinter(Locale)
	return p.Sprint(number.Decimal(pct.InexactFloat64(), number.Scale(1))) + "%"
}
