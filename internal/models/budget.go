package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Budget is a spending limit for one category. Spent is a cached aggregate of
// the expense transactions tagged with the category; the ledger is authoritative.
type Budget struct {
	Base
	Category string          `gorm:"not null;uniqueIndex" json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Spent    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"spent"`
}

// Remaining returns the unspent part of the limit. It is negative when the
// budget is overspent.
func (b *Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Spent)
}

// MarshalJSON adds the derived remaining amount to the stored columns.
func (b Budget) MarshalJSON() ([]byte, error) {
	type columns Budget
	return json.Marshal(struct {
		columns
		Remaining decimal.Decimal `json:"remaining"`
	}{columns(b), b.Remaining()})
}
