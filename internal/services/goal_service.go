package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

const deadlineLayout = "2006-01-02"

// goalService handles goal-related business logic.
type goalService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, publisher events.Publisher) GoalServicer {
	return &goalService{db: db, publisher: orNop(publisher)}
}

// CreateGoal creates an in-progress goal with nothing saved yet.
func (s *goalService) CreateGoal(ctx context.Context, in GoalInput) (*models.Goal, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if !in.TargetAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_amount must be greater than zero")
	}

	category, err := normalizeCategory(in.Category)
	if err != nil {
		return nil, err
	}

	var deadline *string
	if in.Deadline != nil && *in.Deadline != "" {
		d, err := time.Parse(deadlineLayout, *in.Deadline)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deadline must be a date in YYYY-MM-DD format")
		}
		formatted := d.Format(deadlineLayout)
		deadline = &formatted
	}

	goal := &models.Goal{
		Description:   description,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Category:      category,
		Deadline:      deadline,
		Status:        models.GoalStatusInProgress,
	}
	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("goal created", "goal_id", goal.ID)
	publish(ctx, s.publisher, events.GoalCreated, goal)
	return goal, nil
}

// GetGoals returns all goals, newest first.
func (s *goalService) GetGoals(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Find(&goals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	return goals, nil
}

// GetGoalByID returns a goal by ID.
func (s *goalService) GetGoalByID(ctx context.Context, id uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoalProgress records how much has been saved. The amount is clamped to
// [0, target] and the status is always derived from it; a requested status
// that disagrees is ignored.
func (s *goalService) UpdateGoalProgress(
	ctx context.Context,
	id uint,
	current decimal.Decimal,
	status *models.GoalStatus,
) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&goal, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrGoalNotFound
		}
		if err != nil {
			return err
		}

		goal.ApplyProgress(current)
		return tx.Model(&goal).Updates(map[string]interface{}{
			"current_amount": goal.CurrentAmount,
			"status":         goal.Status,
		}).Error
	})
	if err != nil {
		return nil, storeError(err)
	}

	if status != nil && *status != goal.Status {
		logger.Get().Debugw("requested goal status overridden",
			"goal_id", goal.ID,
			"requested", *status,
			"derived", goal.Status,
		)
	}
	logger.Get().Infow("goal progress updated",
		"goal_id", goal.ID,
		"status", goal.Status,
	)
	publish(ctx, s.publisher, events.GoalUpdated, &goal)
	return &goal, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Goal{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}

	logger.Get().Infow("goal deleted", "goal_id", id)
	publish(ctx, s.publisher, events.GoalDeleted, map[string]uint{"id": id})
	return nil
}
