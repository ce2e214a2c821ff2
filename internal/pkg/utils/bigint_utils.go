package utils

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUnits converts a raw big.Int token amount to a human-readable decimal
// string using the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	formatted := decimal.NewFromBigInt(amount, -int32(decimals)).StringFixed(int32(decimals))

	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}
	if formatted == "" || formatted == "-" {
		return "0"
	}
	return formatted
}

// ValueUSD computes the USD value of a raw token amount at the given price.
func ValueUSD(amount *big.Int, decimals uint8, priceUSD float64) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	scaled := decimal.NewFromBigInt(amount, -int32(decimals))
	return scaled.Mul(decimal.NewFromFloat(priceUSD))
}
