package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, publisher events.Publisher) BudgetServicer {
	return &budgetService{db: db, publisher: orNop(publisher)}
}

// UpsertBudget sets the limit for a category, creating the budget with zero
// spent if none exists. The spent total of an existing budget is left alone.
// The second return value reports whether a row was created.
func (s *budgetService) UpsertBudget(ctx context.Context, category string, amount decimal.Decimal) (*models.Budget, bool, error) {
	category, err := validateBudget(category, amount)
	if err != nil {
		return nil, false, err
	}

	var budget *models.Budget
	created := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lockBudgetByCategory(tx, category)
		if err != nil {
			return err
		}

		if existing != nil {
			existing.Amount = amount
			budget = existing
			return tx.Model(existing).Update("amount", amount).Error
		}

		budget = &models.Budget{Category: category, Amount: amount, Spent: decimal.Zero}
		created = true
		return tx.Create(budget).Error
	})
	if err != nil {
		return nil, false, storeError(err)
	}

	logger.Get().Infow("budget upserted",
		"budget_id", budget.ID,
		"category", budget.Category,
		"created", created,
	)
	publish(ctx, s.publisher, events.BudgetUpserted, budget)
	return budget, created, nil
}

// GetBudgets returns every budget ordered by id.
func (s *budgetService) GetBudgets(ctx context.Context) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(ctx context.Context, id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).First(&budget, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget changes the category and limit of a budget. Spent is untouched,
// so renaming a budget does not pull in the ledger of its new category until
// it is reconciled.
func (s *budgetService) UpdateBudget(ctx context.Context, id uint, category string, amount decimal.Decimal) (*models.Budget, error) {
	category, err := validateBudget(category, amount)
	if err != nil {
		return nil, err
	}

	var budget models.Budget
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBudget(tx, id, &budget); err != nil {
			return err
		}

		if category != budget.Category {
			var taken int64
			err := tx.Model(&models.Budget{}).
				Where("category = ? AND id <> ?", category, id).
				Count(&taken).Error
			if err != nil {
				return err
			}
			if taken > 0 {
				return apperrors.ErrBudgetCategoryTaken
			}
		}

		budget.Category = category
		budget.Amount = amount
		return tx.Model(&budget).Updates(map[string]interface{}{
			"category": category,
			"amount":   amount,
		}).Error
	})
	if err != nil {
		return nil, storeError(err)
	}

	logger.Get().Infow("budget updated",
		"budget_id", budget.ID,
		"category", budget.Category,
	)
	publish(ctx, s.publisher, events.BudgetUpserted, &budget)
	return &budget, nil
}

// DeleteBudget removes a budget. Transactions in its category are kept.
func (s *budgetService) DeleteBudget(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Budget{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}

	logger.Get().Infow("budget deleted", "budget_id", id)
	publish(ctx, s.publisher, events.BudgetDeleted, map[string]uint{"id": id})
	return nil
}

// ReconcileBudget recomputes spent from the ledger.
func (s *budgetService) ReconcileBudget(ctx context.Context, id uint) (*models.Budget, error) {
	var budget models.Budget
	var previous decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBudget(tx, id, &budget); err != nil {
			return err
		}

		spent, err := ledgerSpent(tx, budget.Category)
		if err != nil {
			return err
		}

		previous = budget.Spent
		budget.Spent = spent
		return tx.Model(&budget).Update("spent", spent).Error
	})
	if err != nil {
		return nil, storeError(err)
	}

	if !previous.Equal(budget.Spent) {
		logger.Get().Warnw("budget spent drifted from ledger",
			"budget_id", budget.ID,
			"category", budget.Category,
			"cached", previous.String(),
			"ledger", budget.Spent.String(),
		)
	}
	publish(ctx, s.publisher, events.BudgetReconciled, &budget)
	return &budget, nil
}

func lockBudget(tx *gorm.DB, id uint, dest *models.Budget) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrBudgetNotFound
	}
	return err
}

func validateBudget(category string, amount decimal.Decimal) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if amount.IsNegative() {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	return category, nil
}
