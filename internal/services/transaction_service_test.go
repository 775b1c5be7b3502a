package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"fintrack/internal/events"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func expense(t *testing.T, name, amount, category string) TransactionInput {
	t.Helper()
	in := TransactionInput{Name: name, Amount: testutil.Dec(t, amount)}
	if category != "" {
		in.Category = testutil.StrPtr(category)
	}
	return in
}

func TestAddTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("expense_charges_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")

		row, err := svc.AddTransaction(ctx, expense(t, "Lunch", "-20", "Food"))
		require.NoError(t, err)
		assert.NotZero(t, row.ID)
		assert.False(t, row.Date.IsZero(), "date should default to now")

		testutil.AssertDecimal(t, "20", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})

	t.Run("income_leaves_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")

		_, err := svc.AddTransaction(ctx, expense(t, "Paycheck", "1000", "Food"))
		require.NoError(t, err)

		testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})

	t.Run("category_without_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		row, err := svc.AddTransaction(ctx, expense(t, "Taxi", "-15", "Travel"))
		require.NoError(t, err)
		require.NotNil(t, row.Category)
		assert.Equal(t, "Travel", *row.Category)
	})

	t.Run("uncategorized_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")

		row, err := svc.AddTransaction(ctx, expense(t, "Cash", "-50", ""))
		require.NoError(t, err)
		assert.Nil(t, row.Category)
		testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})

	t.Run("explicit_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		in := expense(t, "Rent", "-900", "Housing")
		in.Date = &date

		row, err := svc.AddTransaction(ctx, in)
		require.NoError(t, err)
		assert.True(t, row.Date.Equal(date))
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		_, err := svc.AddTransaction(ctx, expense(t, "   ", "-1", "Food"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("blank_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		in := expense(t, "Lunch", "-1", "")
		in.Category = testutil.StrPtr(" ")
		_, err := svc.AddTransaction(ctx, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestLedgerScenario(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)
	budget := testutil.CreateTestBudget(t, db, "Food", "500")

	lunch, err := svc.AddTransaction(ctx, expense(t, "Lunch", "-20", "Food"))
	require.NoError(t, err)
	testutil.AssertDecimal(t, "20", testutil.ReloadBudget(t, db, budget.ID).Spent)

	_, err = svc.AddTransaction(ctx, expense(t, "Paycheck", "1000", "Food"))
	require.NoError(t, err)
	testutil.AssertDecimal(t, "20", testutil.ReloadBudget(t, db, budget.ID).Spent)

	require.NoError(t, svc.DeleteTransaction(ctx, lunch.ID))
	testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, budget.ID).Spent)
}

func TestAddDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)
	budget := testutil.CreateTestBudget(t, db, "Food", "500")

	_, err := svc.AddTransaction(ctx, expense(t, "Groceries", "-42.37", "Food"))
	require.NoError(t, err)
	before := testutil.ReloadBudget(t, db, budget.ID).Spent

	row, err := svc.AddTransaction(ctx, expense(t, "Snack", "-3.1", "Food"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTransaction(ctx, row.ID))

	after := testutil.ReloadBudget(t, db, budget.ID).Spent
	assert.True(t, before.Equal(after), "expected %s, got %s", before, after)
	assert.True(t, after.Equal(testutil.LedgerSpent(t, db, "Food")))
}

func TestLedgerSequenceMatchesLedger(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)
	budget := testutil.CreateTestBudget(t, db, "Food", "500")

	amounts := []string{"-10", "25", "-3.5", "-0.25", "100", "-7"}
	var ids []uint
	for i, amount := range amounts {
		row, err := svc.AddTransaction(ctx, expense(t, fmt.Sprintf("entry %d", i), amount, "Food"))
		require.NoError(t, err)
		ids = append(ids, row.ID)
	}
	require.NoError(t, svc.DeleteTransaction(ctx, ids[0]))
	require.NoError(t, svc.DeleteTransaction(ctx, ids[4]))

	testutil.AssertDecimal(t, "10.75", testutil.ReloadBudget(t, db, budget.ID).Spent)
	testutil.AssertDecimal(t, "10.75", testutil.LedgerSpent(t, db, "Food"))
}

func TestConcurrentAddTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)
	budget := testutil.CreateTestBudget(t, db, "Food", "100")

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 10; i++ {
		in := expense(t, fmt.Sprintf("Meal %d", i), "-10", "Food")
		g.Go(func() error {
			_, err := svc.AddTransaction(ctx, in)
			return err
		})
	}
	require.NoError(t, g.Wait())

	testutil.AssertDecimal(t, "100", testutil.ReloadBudget(t, db, budget.ID).Spent)
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")
		testutil.CreateTestTransaction(t, db, testutil.StrPtr("Food"), "-20")

		err := svc.DeleteTransaction(ctx, 9999)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		var count int64
		db.Model(&models.Transaction{}).Count(&count)
		assert.EqualValues(t, 1, count)
		testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})

	t.Run("spent_can_go_negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")
		// Recorded before the budget tracked it, so never charged.
		row := testutil.CreateTestTransaction(t, db, testutil.StrPtr("Food"), "-30")

		require.NoError(t, svc.DeleteTransaction(ctx, row.ID))
		testutil.AssertDecimal(t, "-30", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})

	t.Run("budget_deleted_meanwhile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")

		row, err := svc.AddTransaction(ctx, expense(t, "Lunch", "-20", "Food"))
		require.NoError(t, err)
		require.NoError(t, db.Delete(&models.Budget{}, budget.ID).Error)

		require.NoError(t, svc.DeleteTransaction(ctx, row.ID))
	})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("same_category_nets_delta", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")

		row, err := svc.AddTransaction(ctx, expense(t, "Lunch", "-20", "Food"))
		require.NoError(t, err)

		updated, err := svc.UpdateTransaction(ctx, row.ID, expense(t, "Big lunch", "-35", "Food"))
		require.NoError(t, err)
		assert.Equal(t, "Big lunch", updated.Name)
		assert.True(t, updated.Date.Equal(row.Date), "date should be kept when omitted")

		testutil.AssertDecimal(t, "35", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})

	t.Run("reclassify_moves_spent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		food := testutil.CreateTestBudget(t, db, "Food", "500")
		fun := testutil.CreateTestBudget(t, db, "Entertainment", "200")

		row, err := svc.AddTransaction(ctx, expense(t, "Cinema", "-18", "Food"))
		require.NoError(t, err)

		_, err = svc.UpdateTransaction(ctx, row.ID, expense(t, "Cinema", "-18", "Entertainment"))
		require.NoError(t, err)

		testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, food.ID).Spent)
		testutil.AssertDecimal(t, "18", testutil.ReloadBudget(t, db, fun.ID).Spent)
	})

	t.Run("expense_becomes_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")

		row, err := svc.AddTransaction(ctx, expense(t, "Refund", "-12", "Food"))
		require.NoError(t, err)

		_, err = svc.UpdateTransaction(ctx, row.ID, expense(t, "Refund", "12", "Food"))
		require.NoError(t, err)
		testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})

	t.Run("clear_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		budget := testutil.CreateTestBudget(t, db, "Food", "500")

		row, err := svc.AddTransaction(ctx, expense(t, "Lunch", "-9", "Food"))
		require.NoError(t, err)

		updated, err := svc.UpdateTransaction(ctx, row.ID, expense(t, "Lunch", "-9", ""))
		require.NoError(t, err)
		assert.Nil(t, updated.Category)
		testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		_, err := svc.UpdateTransaction(ctx, 9999, expense(t, "Ghost", "-1", "Food"))
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestLedgerRollback(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)
	budget := testutil.CreateTestBudget(t, db, "Food", "500")

	err := db.Callback().Update().Before("gorm:update").Register("test:fail_budget_update", func(d *gorm.DB) {
		if d.Statement.Table == "budgets" {
			_ = d.AddError(errors.New("injected store failure"))
		}
	})
	require.NoError(t, err)

	_, err = svc.AddTransaction(ctx, expense(t, "Lunch", "-20", "Food"))
	testutil.AssertAppError(t, err, "INTERNAL_ERROR")

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count, "insert must roll back with the budget update")
	testutil.AssertDecimal(t, "0", testutil.ReloadBudget(t, db, budget.ID).Spent)
}

func TestAddTransaction_CancelledContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)
	testutil.CreateTestBudget(t, db, "Food", "500")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AddTransaction(ctx, expense(t, "Lunch", "-20", "Food"))
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetTransactions(t *testing.T) {
	ctx := context.Background()
	day := func(d int) *time.Time {
		ts := time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)

	add := func(name, category string, date *time.Time) {
		in := expense(t, name, "-1", category)
		in.Date = date
		_, err := svc.AddTransaction(ctx, in)
		require.NoError(t, err)
	}
	add("a", "Food", day(1))
	add("b", "Food", day(3))
	add("c", "Travel", day(3))
	add("d", "Food", day(2))

	names := func(page *pagination.PageResponse[models.Transaction]) []string {
		out := make([]string, len(page.Data))
		for i, row := range page.Data {
			out[i] = row.Name
		}
		return out
	}

	t.Run("newest_first_ties_by_insertion", func(t *testing.T) {
		page, err := svc.GetTransactions(ctx, pagination.PageRequest{}, TransactionFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.TotalItems)
		if diff := cmp.Diff([]string{"b", "c", "d", "a"}, names(page)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("filter_category", func(t *testing.T) {
		page, err := svc.GetTransactions(ctx, pagination.PageRequest{}, TransactionFilter{Category: testutil.StrPtr("Food")})
		require.NoError(t, err)
		if diff := cmp.Diff([]string{"b", "d", "a"}, names(page)); diff != "" {
			t.Errorf("filter mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("filter_date_range", func(t *testing.T) {
		page, err := svc.GetTransactions(ctx, pagination.PageRequest{}, TransactionFilter{FromDate: day(2), ToDate: day(2)})
		require.NoError(t, err)
		if diff := cmp.Diff([]string{"d"}, names(page)); diff != "" {
			t.Errorf("filter mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("page_size_alone_starts_at_first_page", func(t *testing.T) {
		page, err := svc.GetTransactions(ctx, pagination.PageRequest{PageSize: 3}, TransactionFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.EqualValues(t, 4, page.TotalItems)
		if diff := cmp.Diff([]string{"b", "c", "d"}, names(page)); diff != "" {
			t.Errorf("page mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.GetTransactions(ctx, pagination.PageRequest{Page: 2, PageSize: 3}, TransactionFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalPages)
		if diff := cmp.Diff([]string{"a"}, names(page)); diff != "" {
			t.Errorf("page mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)

	row := testutil.CreateTestTransaction(t, db, nil, "12.5")

	got, err := svc.GetTransactionByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.Name, got.Name)
	testutil.AssertDecimal(t, "12.5", got.Amount)

	_, err = svc.GetTransactionByID(ctx, row.ID+100)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestTransactionEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("published_after_commit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := events.NewRecorder(nil)
		svc := NewTransactionService(db, rec)

		row, err := svc.AddTransaction(ctx, expense(t, "Lunch", "-20", "Food"))
		require.NoError(t, err)
		_, err = svc.UpdateTransaction(ctx, row.ID, expense(t, "Lunch", "-25", "Food"))
		require.NoError(t, err)
		require.NoError(t, svc.DeleteTransaction(ctx, row.ID))
		_ = svc.DeleteTransaction(ctx, row.ID)

		want := []events.Type{events.TransactionCreated, events.TransactionUpdated, events.TransactionDeleted}
		if diff := cmp.Diff(want, rec.Types()); diff != "" {
			t.Errorf("events mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("publish_failure_does_not_fail_write", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, events.NewRecorder(errors.New("broker down")))
		budget := testutil.CreateTestBudget(t, db, "Food", "500")

		_, err := svc.AddTransaction(ctx, expense(t, "Lunch", "-20", "Food"))
		require.NoError(t, err)
		testutil.AssertDecimal(t, "20", testutil.ReloadBudget(t, db, budget.ID).Spent)
	})
}
