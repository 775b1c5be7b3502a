package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionInput carries the writable fields of a ledger entry. A nil Date
// means "now" on create and "unchanged" on update.
type TransactionInput struct {
	Name     string
	Amount   decimal.Decimal
	Category *string
	Date     *time.Time
}

// TransactionServicer defines the contract for ledger operations. Every
// mutation keeps the spent total of the affected budgets consistent in the
// same database transaction.
type TransactionServicer interface {
	AddTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error)
	GetTransactions(ctx context.Context, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id uint, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id uint) error
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	UpsertBudget(ctx context.Context, category string, amount decimal.Decimal) (*models.Budget, bool, error)
	GetBudgets(ctx context.Context) ([]models.Budget, error)
	GetBudgetByID(ctx context.Context, id uint) (*models.Budget, error)
	UpdateBudget(ctx context.Context, id uint, category string, amount decimal.Decimal) (*models.Budget, error)
	DeleteBudget(ctx context.Context, id uint) error
	ReconcileBudget(ctx context.Context, id uint) (*models.Budget, error)
}

// GoalInput carries the fields of a new goal. Deadline is a YYYY-MM-DD date.
type GoalInput struct {
	Description  string
	TargetAmount decimal.Decimal
	Category     *string
	Deadline     *string
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(ctx context.Context, in GoalInput) (*models.Goal, error)
	GetGoals(ctx context.Context) ([]models.Goal, error)
	GetGoalByID(ctx context.Context, id uint) (*models.Goal, error)
	UpdateGoalProgress(ctx context.Context, id uint, current decimal.Decimal, status *models.GoalStatus) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id uint) error
}
