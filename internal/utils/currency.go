package utils

import (
	"fmt"
	"math"
)

// RoundMoney rounds to two decimal places, the resolution every monetary
// amount in the system is stored at.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ToPaise converts a rupee amount to the integer paise the gateway expects.
func ToPaise(amount float64) int {
	return int(math.Round(amount * 100))
}

// FromPaise converts gateway paise back to rupees.
func FromPaise(paise int) float64 {
	return float64(paise) / 100
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

func FormatCurrency(amount float64, currencyCode string) string {
	symbol, ok := currencySymbols[currencyCode]
	if !ok {
		symbol = currencyCode + " "
	}
	return fmt.Sprintf("%s%.2f", symbol, RoundMoney(amount))
}

func IsSupportedCurrency(code string) bool {
	_, ok := currencySymbols[code]
	return ok
}
