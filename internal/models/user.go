package models

// User represents a budget holder.
type User struct {
	Base
	Name          string  `gorm:"size:100;not null" json:"name"`
	Email         string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	MonthlyBudget float64 `gorm:"not null" json:"monthly_budget"`
}

// Owner is the read-only snapshot of a user embedded in expense responses.
type Owner struct {
	ID            string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

// TableName maps Owner onto the users table.
func (Owner) TableName() string { return "users" }
