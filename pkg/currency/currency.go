// Package currency converts USD base amounts into office-local currencies
// using a static rate table.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"

	"asset-tracking-api/internal/models"
)

// Exchange rates relative to a USD base of 1.0, last reviewed 2024-12-08.
var rates = map[models.Country]decimal.Decimal{
	models.UnitedStates: decimal.RequireFromString("1.0"),
	models.Germany:      decimal.RequireFromString("0.95"),
	models.Sweden:       decimal.RequireFromString("10.94"),
}

var symbols = map[models.Country]string{
	models.UnitedStates: "$",
	models.Germany:      "€",
	models.Sweden:       "SEK",
}

// Convert multiplies a USD amount by the target country's exchange rate.
// A country outside the enum is a programming error and panics.
func Convert(amount decimal.Decimal, target models.Country) decimal.Decimal {
	rate, ok := rates[target]
	if !ok {
		panic(fmt.Sprintf("currency: no exchange rate for country %q", target))
	}
	return amount.Mul(rate)
}

// Format renders a USD amount in the country's local currency: the local
// symbol, a space, and the converted amount with two decimal places.
func Format(amount decimal.Decimal, country models.Country) string {
	symbol, ok := symbols[country]
	if !ok {
		panic(fmt.Sprintf("currency: no symbol for country %q", country))
	}
	return symbol + " " + Convert(amount, country).StringFixed(2)
}
