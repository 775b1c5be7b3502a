package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/events"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, nil)

		goal, err := svc.CreateGoal(ctx, GoalInput{
			Description:  "Emergency Fund",
			TargetAmount: testutil.Dec(t, "1000"),
		})
		require.NoError(t, err)
		assert.NotZero(t, goal.ID)
		testutil.AssertDecimal(t, "0", goal.CurrentAmount)
		assert.Equal(t, models.GoalStatusInProgress, goal.Status)
		assert.Nil(t, goal.Category)
		assert.Nil(t, goal.Deadline)
	})

	t.Run("with_category_and_deadline", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, nil)

		goal, err := svc.CreateGoal(ctx, GoalInput{
			Description:  "Holiday",
			TargetAmount: testutil.Dec(t, "2500"),
			Category:     testutil.StrPtr("Travel"),
			Deadline:     testutil.StrPtr("2025-07-01"),
		})
		require.NoError(t, err)
		require.NotNil(t, goal.Deadline)
		assert.Equal(t, "2025-07-01", *goal.Deadline)
		assert.Equal(t, "Travel", *goal.Category)
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, nil)

		tests := []struct {
			name string
			in   GoalInput
		}{
			{"zero_target", GoalInput{Description: "x", TargetAmount: testutil.Dec(t, "0")}},
			{"negative_target", GoalInput{Description: "x", TargetAmount: testutil.Dec(t, "-5")}},
			{"blank_description", GoalInput{Description: " ", TargetAmount: testutil.Dec(t, "5")}},
			{"bad_deadline", GoalInput{Description: "x", TargetAmount: testutil.Dec(t, "5"), Deadline: testutil.StrPtr("next year")}},
			{"blank_category", GoalInput{Description: "x", TargetAmount: testutil.Dec(t, "5"), Category: testutil.StrPtr("")}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateGoal(ctx, tt.in)
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			})
		}
	})
}

func TestUpdateGoalProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		current     string
		wantCurrent string
		wantStatus  models.GoalStatus
	}{
		{"partial", "250", "250", models.GoalStatusInProgress},
		{"reaches_target", "1000", "1000", models.GoalStatusCompleted},
		{"clamped_above_target", "1500", "1000", models.GoalStatusCompleted},
		{"clamped_below_zero", "-20", "0", models.GoalStatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := NewGoalService(db, nil)
			goal := testutil.CreateTestGoal(t, db, "1000")

			updated, err := svc.UpdateGoalProgress(ctx, goal.ID, testutil.Dec(t, tt.current), nil)
			require.NoError(t, err)
			testutil.AssertDecimal(t, tt.wantCurrent, updated.CurrentAmount)
			assert.Equal(t, tt.wantStatus, updated.Status)

			reloaded, err := svc.GetGoalByID(ctx, goal.ID)
			require.NoError(t, err)
			testutil.AssertDecimal(t, tt.wantCurrent, reloaded.CurrentAmount)
			assert.Equal(t, tt.wantStatus, reloaded.Status)
		})
	}

	t.Run("requested_status_is_derived", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, nil)
		goal := testutil.CreateTestGoal(t, db, "1000")

		completed := models.GoalStatusCompleted
		updated, err := svc.UpdateGoalProgress(ctx, goal.ID, testutil.Dec(t, "10"), &completed)
		require.NoError(t, err)
		assert.Equal(t, models.GoalStatusInProgress, updated.Status)
	})

	t.Run("completed_goal_reopens", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, nil)
		goal := testutil.CreateTestGoal(t, db, "100")

		_, err := svc.UpdateGoalProgress(ctx, goal.ID, testutil.Dec(t, "100"), nil)
		require.NoError(t, err)
		updated, err := svc.UpdateGoalProgress(ctx, goal.ID, testutil.Dec(t, "99.99"), nil)
		require.NoError(t, err)
		assert.Equal(t, models.GoalStatusInProgress, updated.Status)
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, nil)

		_, err := svc.UpdateGoalProgress(ctx, 9999, testutil.Dec(t, "1"), nil)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestGoalScenario(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	rec := events.NewRecorder(nil)
	svc := NewGoalService(db, rec)

	goal, err := svc.CreateGoal(ctx, GoalInput{Description: "Emergency Fund", TargetAmount: testutil.Dec(t, "1000")})
	require.NoError(t, err)
	testutil.AssertDecimal(t, "0", goal.CurrentAmount)
	assert.Equal(t, models.GoalStatusInProgress, goal.Status)

	goal, err = svc.UpdateGoalProgress(ctx, goal.ID, testutil.Dec(t, "1000"), nil)
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusCompleted, goal.Status)

	assert.Equal(t, []events.Type{events.GoalCreated, events.GoalUpdated}, rec.Types())
}

func TestGetGoals(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db, nil)

	older := testutil.CreateTestGoal(t, db, "100")
	require.NoError(t, db.Model(older).Update("created_at", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)).Error)
	newer := testutil.CreateTestGoal(t, db, "200")

	goals, err := svc.GetGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, newer.ID, goals[0].ID)
	assert.Equal(t, older.ID, goals[1].ID)
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db, nil)
	goal := testutil.CreateTestGoal(t, db, "100")

	require.NoError(t, svc.DeleteGoal(ctx, goal.ID))

	_, err := svc.GetGoalByID(ctx, goal.ID)
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

	err = svc.DeleteGoal(ctx, goal.ID)
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}
