package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense represents a single spending entry owned by a user.
type Expense struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;index:idx_expenses_user_date,priority:1" json:"user_id"`
	Title    string          `gorm:"size:200;not null" json:"title"`
	Amount   float64         `gorm:"not null" json:"amount"`
	Category ExpenseCategory `gorm:"size:32;not null;index" json:"category"`
	Date     time.Time       `gorm:"not null;index:idx_expenses_user_date,priority:2,sort:desc" json:"date"`

	// Relationships
	User *Owner `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeSave stores Date in UTC. SQLite keeps timestamps as text, so rows
// written with different offsets would otherwise compare out of order.
func (e *Expense) BeforeSave(tx *gorm.DB) error {
	e.Date = e.Date.UTC()
	return nil
}
