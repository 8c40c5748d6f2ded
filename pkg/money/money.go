// Package money formats and converts amounts stored as integer minor units.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is the only currency the salon trades in.
const Currency = "KES"

var printer = message.NewPrinter(language.English)

// Format renders cents as "KES 1,234.50".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return printer.Sprintf("%s %s%d.%02d", Currency, sign, cents/100, cents%100)
}

// ToDecimal converts cents to a float for JSON output.
func ToDecimal(cents int64) float64 {
	return float64(cents) / 100
}

// FromDecimal converts a decimal amount from a request into cents.
func FromDecimal(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Percent returns round(cents * rate / 100).
func Percent(cents int64, rate float64) int64 {
	return int64(math.Round(float64(cents) * rate / 100))
}
