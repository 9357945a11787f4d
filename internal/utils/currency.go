package utils

import "fmt"

// FormatCurrency renders an amount held in minor units (cents) as a display
// string, e.g. 5000 -> "$50.00". Negative amounts keep the sign in front of
// the currency symbol.
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
