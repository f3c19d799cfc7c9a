package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format форматирует сумму как "R$ 1.234,56": точка - разделитель тысяч, запятая - десятичный
func Format(amount decimal.Decimal, symbol string) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}

	result := sign + grouped.String() + "," + fracPart
	if symbol == "" {
		return result
	}
	return symbol + " " + result
}
