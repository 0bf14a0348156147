// Package currency converts stored PKR plan prices into display prices.
// Rates are a fixed table, not live data.
package currency

import (
	"fmt"
	"math"
)

// Supported display currencies
const (
	USD = "USD"
	INR = "INR"
	PKR = "PKR"
)

// Units of local currency per 1 USD
var perUSD = map[string]float64{
	USD: 1,
	INR: 83,
	PKR: 280,
}

var symbols = map[string]string{
	USD: "$",
	INR: "₹",
	PKR: "Rs. ",
}

// Supported reports whether code is a known display currency
func Supported(code string) bool {
	_, ok := perUSD[code]
	return ok
}

// Convert converts an amount between two supported currencies via USD.
// Returns an error for unknown codes.
func Convert(amount float64, from, to string) (float64, error) {
	fromRate, ok := perUSD[from]
	if !ok {
		return 0, fmt.Errorf("unsupported currency %q", from)
	}
	toRate, ok := perUSD[to]
	if !ok {
		return 0, fmt.Errorf("unsupported currency %q", to)
	}
	return amount / fromRate * toRate, nil
}

// Display formats a stored PKR price for the selected currency. USD keeps two
// decimals; INR and PKR round to whole units.
func Display(pricePKR int64, currency string) (string, error) {
	value, err := Convert(float64(pricePKR), PKR, currency)
	if err != nil {
		return "", err
	}

	symbol := symbols[currency]
	if currency == USD {
		return fmt.Sprintf("%s%.2f", symbol, value), nil
	}
	return fmt.Sprintf("%s%d", symbol, int64(math.Round(value))), nil
}
