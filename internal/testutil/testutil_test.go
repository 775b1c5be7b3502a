package testutil_test

import (
	"testing"

	"fintrack/internal/errors"
	"fintrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"transactions", "budgets", "goals"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	db1 := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db1)
	db2 := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db2)

	testutil.CreateTestBudget(t, db1, "Food", "100")

	var count int64
	if err := db2.Table("budgets").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected isolated database, found %d budgets", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	budget := testutil.CreateTestBudget(t, db, "Food", "500")
	if budget.ID == 0 {
		t.Fatal("budget should have a non-zero ID")
	}
	testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, budget.ID).Spent)

	testutil.CreateTestTransaction(t, db, testutil.StrPtr("Food"), "-20")
	testutil.CreateTestTransaction(t, db, testutil.StrPtr("Food"), "1000")
	testutil.CreateTestTransaction(t, db, nil, "-5")
	testutil.AssertDecimal(t, "20", testutil.LedgerSpent(t, db, "Food"))

	goal := testutil.CreateTestGoal(t, db, "1000")
	testutil.AssertDecimal(t, "1000", goal.TargetAmount)
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
