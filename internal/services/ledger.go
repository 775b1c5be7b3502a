package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// budgetDeltas accumulates spent adjustments keyed by category.
type budgetDeltas map[string]decimal.Decimal

// apply adds the contribution of an entry with the given amount and category.
func (d budgetDeltas) apply(amount decimal.Decimal, category *string) {
	c := models.Contribution(amount, category)
	if c.IsZero() {
		return
	}
	d[*category] = d[*category].Add(c)
}

// revert removes the contribution of an entry with the given amount and category.
func (d budgetDeltas) revert(amount decimal.Decimal, category *string) {
	c := models.Contribution(amount, category)
	if c.IsZero() {
		return
	}
	d[*category] = d[*category].Sub(c)
}

// categories returns the categories with a non-zero delta in lock order.
func (d budgetDeltas) categories() []string {
	out := make([]string, 0, len(d))
	for category, delta := range d {
		if !delta.IsZero() {
			out = append(out, category)
		}
	}
	sort.Strings(out)
	return out
}

// lockBudgetByCategory loads the budget for category with a row lock held until
// tx ends. It returns nil when no budget tracks the category.
func lockBudgetByCategory(tx *gorm.DB, category string) (*models.Budget, error) {
	var budget models.Budget
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("category = ?", category).
		First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// applyBudgetDeltas adjusts the spent total of every budget named in deltas.
// Rows are locked in category order so concurrent units cannot deadlock.
// Categories without a budget are skipped.
func applyBudgetDeltas(tx *gorm.DB, deltas budgetDeltas) ([]models.Budget, error) {
	var touched []models.Budget
	for _, category := range deltas.categories() {
		budget, err := lockBudgetByCategory(tx, category)
		if err != nil {
			return nil, err
		}
		if budget == nil {
			continue
		}

		budget.Spent = budget.Spent.Add(deltas[category])
		if err := tx.Model(budget).Update("spent", budget.Spent).Error; err != nil {
			return nil, err
		}
		touched = append(touched, *budget)
	}
	return touched, nil
}

// ledgerSpent sums the expense contributions recorded for category.
func ledgerSpent(tx *gorm.DB, category string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := tx.Model(&models.Transaction{}).
		Where("category = ? AND amount < 0", category).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount.Abs())
	}
	return total, nil
}

// normalizeCategory trims an optional category and rejects blank values.
func normalizeCategory(category *string) (*string, error) {
	if category == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*category)
	if trimmed == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category must not be empty when provided")
	}
	return &trimmed, nil
}

// storeError passes AppErrors through and wraps everything else as an internal error.
func storeError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// publish sends a domain event after commit. Failures are logged only.
func publish(ctx context.Context, publisher events.Publisher, eventType events.Type, payload any) {
	if err := publisher.Publish(ctx, events.New(eventType, payload)); err != nil {
		logger.Get().Warnw("failed to publish ledger event",
			"type", eventType,
			"error", err,
		)
	}
}

func orNop(publisher events.Publisher) events.Publisher {
	if publisher == nil {
		return events.NopPublisher{}
	}
	return publisher
}
