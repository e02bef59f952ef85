package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Monetary values are carried as int64 paise everywhere; rupees only exist
// at the presentation edge.

var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatPaise renders a paise amount as rupees with Indian digit grouping,
// e.g. 123456789 -> "Rs. 12,34,567.89". Used in SMS texts and reports.
func FormatPaise(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return rupeePrinter.Sprintf("%sRs. %v.%02d", sign, number.Decimal(paise/100), paise%100)
}
