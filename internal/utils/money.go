package utils

import "github.com/shopspring/decimal"

// RoundMoney rounds to paise.
func RoundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// LineTotal returns price × quantity rounded to two places.
func LineTotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).Round(2).InexactFloat64()
}

// SumMoney adds amounts without float drift.
func SumMoney(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}

// IsWholePaise reports whether amount has at most two decimal places.
func IsWholePaise(amount float64) bool {
	return decimal.NewFromFloat(amount).Exponent() >= -2
}
