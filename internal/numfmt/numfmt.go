// Package numfmt formats numbers and document identifiers the Brazilian way:
// comma as decimal separator, dot as thousands separator, and the usual
// CNPJ, CPF, CEP and access-key masks.
package numfmt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotANumber indicates a value that cannot be read as a decimal.
var ErrNotANumber = errors.New("not a decimal number")

// Decimal parses value and formats it with exactly places fraction digits.
// Rounding is half away from zero, like PHP's number_format.
//
//	Decimal("1500.5", 3)  -> "1.500,500"
//	Decimal("-0.125", 2)  -> "-0,13"
func Decimal(value string, places int32) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotANumber, value)
	}
	return FormatDecimal(d, places), nil
}

// DecimalOrRaw is Decimal that falls back to the input on parse failure.
// Used for printed values where showing the raw text beats showing nothing.
func DecimalOrRaw(value string, places int32) string {
	if value == "" {
		return ""
	}
	out, err := Decimal(value, places)
	if err != nil {
		return value
	}
	return out
}

// FormatDecimal formats d with places fraction digits and grouped thousands.
func FormatDecimal(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3 + 1)
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(intPart))
	if places > 0 {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// groupThousands inserts a dot every three digits from the right.
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
