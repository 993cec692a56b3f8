// Package money renders Kip amounts for display: grouped digits in the Lao
// locale, at most two fraction digits, optional currency suffix.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var lao = message.NewPrinter(language.MustParse("lo-LA"))

// FormatKip renders an amount with locale grouping and up to two fraction
// digits (whole amounts render with none).
func FormatKip(amount float64) string {
	return lao.Sprint(number.Decimal(amount,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(2),
	))
}

// FormatKipWithCurrency renders an amount followed by the Kip currency word.
func FormatKipWithCurrency(amount float64) string {
	return FormatKip(amount) + " ກີບ"
}
