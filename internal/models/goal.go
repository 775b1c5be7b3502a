package models

import "github.com/shopspring/decimal"

// GoalStatus represents the progress state of a savings goal
type GoalStatus string

const (
	GoalStatusNotStarted GoalStatus = "Not Started"
	GoalStatusInProgress GoalStatus = "In Progress"
	GoalStatusCompleted  GoalStatus = "Completed"
)

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusNotStarted, GoalStatusInProgress, GoalStatusCompleted:
		return true
	}
	return false
}

// Goal is a savings target tracked independently from the ledger.
type Goal struct {
	Base
	Description   string          `gorm:"not null" json:"description"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"current_amount"`
	Category      *string         `json:"category"`
	Deadline      *string         `json:"deadline"`
	Status        GoalStatus      `gorm:"not null;default:'In Progress'" json:"status"`
}

// ApplyProgress sets the current amount, clamped to [0, TargetAmount], and
// derives the status from it.
func (g *Goal) ApplyProgress(current decimal.Decimal) {
	if current.IsNegative() {
		current = decimal.Zero
	}
	if current.GreaterThan(g.TargetAmount) {
		current = g.TargetAmount
	}
	g.CurrentAmount = current
	g.Status = StatusFor(current, g.TargetAmount)
}

// StatusFor returns Completed once current reaches target, In Progress otherwise.
func StatusFor(current, target decimal.Decimal) GoalStatus {
	if current.GreaterThanOrEqual(target) {
		return GoalStatusCompleted
	}
	return GoalStatusInProgress
}
