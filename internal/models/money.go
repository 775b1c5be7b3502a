package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts are emitted as JSON numbers, matching what clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// Contribution returns how much a ledger entry adds to the spent total of a
// budget for its category: the absolute amount of an expense (negative amount)
// that carries a category, zero otherwise.
func Contribution(amount decimal.Decimal, category *string) decimal.Decimal {
	if category == nil || *category == "" || !amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Abs()
}
