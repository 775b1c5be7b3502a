package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry. Negative amounts are expenses,
// positive amounts are income or credits.
type Transaction struct {
	Base
	Name     string          `gorm:"not null" json:"name"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Category *string         `gorm:"index" json:"category"`
	Date     time.Time       `gorm:"not null;index" json:"date"`
}

// BudgetContribution returns the amount this transaction adds to the spent
// total of its category's budget.
func (t *Transaction) BudgetContribution() decimal.Decimal {
	return Contribution(t.Amount, t.Category)
}
