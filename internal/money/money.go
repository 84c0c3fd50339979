// Package money converts between stored minor units and decimal amounts and
// renders amounts for display. Arithmetic is done on decimal.Decimal only;
// formatting is applied at render time.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Scale is the number of fractional digits kept for TRY amounts.
	Scale = 2

	CurrencyTRY = "TRY"
)

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrAmountOverflow = errors.New("amount does not fit in minor units")
)

var hundred = decimal.NewFromInt(100)

// FromMinor converts an amount in kuruş to lira.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -Scale)
}

// ToMinor rounds d to two decimals and converts it to kuruş.
func ToMinor(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	minor := d.Round(Scale).Mul(hundred)
	if !minor.IsInteger() || !minor.BigInt().IsInt64() {
		return 0, ErrAmountOverflow
	}
	return minor.IntPart(), nil
}

// Round rounds half away from zero to two decimals.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Sum adds amounts exactly.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Format renders d the way tr-TR shows lira: "₺1.234,56". Other currencies
// get the code as a suffix with the same grouping.
func Format(d decimal.Decimal, currency string) string {
	s := d.StringFixed(Scale)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	if currency == "" || currency == CurrencyTRY {
		b.WriteString("₺")
	}
	b.WriteString(groupThousands(intPart))
	b.WriteByte(',')
	b.WriteString(frac)
	if currency != "" && currency != CurrencyTRY {
		b.WriteByte(' ')
		b.WriteString(currency)
	}
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
