package models

import "time"

// Base contains common columns for all tables. IDs are auto-incrementing
// integers; rows are hard-deleted.
type Base struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
