package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Dec parses a decimal literal, failing the test on malformed input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

// CreateTestBudget inserts a budget with zero spent for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, category, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Category: category,
		Amount:   Dec(t, amount),
		Spent:    decimal.Zero,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestTransaction inserts a ledger row directly, bypassing the budget
// bookkeeping. Use it to simulate rows recorded before a budget existed.
func CreateTestTransaction(t *testing.T, db *gorm.DB, category *string, amount string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Name:     fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:   Dec(t, amount),
		Category: category,
		Date:     time.Now().UTC(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal inserts an in-progress goal with the given target.
func CreateTestGoal(t *testing.T, db *gorm.DB, target string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		Description:   fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  Dec(t, target),
		CurrentAmount: decimal.Zero,
		Status:        models.GoalStatusInProgress,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// ReloadBudget reads a budget back from the database.
func ReloadBudget(t *testing.T, db *gorm.DB, id uint) *models.Budget {
	t.Helper()

	var budget models.Budget
	if err := db.First(&budget, id).Error; err != nil {
		t.Fatalf("failed to reload budget %d: %v", id, err)
	}
	return &budget
}

// LedgerSpent sums the expense contributions recorded in the ledger for a category.
func LedgerSpent(t *testing.T, db *gorm.DB, category string) decimal.Decimal {
	t.Helper()

	var txs []models.Transaction
	if err := db.Where("category = ?", category).Find(&txs).Error; err != nil {
		t.Fatalf("failed to load ledger for %q: %v", category, err)
	}
	total := decimal.Zero
	for i := range txs {
		total = total.Add(txs[i].BudgetContribution())
	}
	return total
}
