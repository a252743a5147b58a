package cli

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/you-humble/merchant-payout/internal/model"
)

var currencySymbols = map[model.Currency]string{
	model.CurrencyGBP: "£",
	model.CurrencyEUR: "€",
}

// FormatAmount renders minor units as en-GB money, e.g. 500000 GBP -> "£5,000.00".
func FormatAmount(minor int64, currency model.Currency) string {
	sign := ""
	value := decimal.New(minor, -2)
	if value.IsNegative() {
		sign = "-"
		value = value.Neg()
	}

	whole, frac, _ := strings.Cut(value.StringFixed(2), ".")

	return sign + currencySymbols[currency] + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// MaskIBAN keeps the first and last four characters.
func MaskIBAN(iban string) string {
	if len(iban) <= 8 {
		return iban
	}
	return iban[:4] + strings.Repeat("*", len(iban)-8) + iban[len(iban)-4:]
}
