package services

import (
	"context"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/validator"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, input validator.CreateUserInput) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUser(ctx context.Context, id string, input validator.UpdateUserInput) (*models.User, error)
	// DeleteUser removes the user together with every expense it owns.
	DeleteUser(ctx context.Context, id string) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
// Date bounds are inclusive.
type ExpenseFilter struct {
	Category  *models.ExpenseCategory
	StartDate *time.Time
	EndDate   *time.Time
}

// ExpenseServicer defines the contract for expense-related business logic.
// Every returned expense carries its owner snapshot.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, input validator.CreateExpenseInput) (*models.Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*models.Expense, error)
	GetUserExpenses(ctx context.Context, userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(ctx context.Context, id string, input validator.UpdateExpenseInput) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	DeleteUserExpenses(ctx context.Context, userID string) (int64, error)
}

// ExpenseSummary is the current-month spending overview for a user.
type ExpenseSummary struct {
	TotalExpenses      float64                            `json:"total_expenses"`
	RemainingBudget    float64                            `json:"remaining_budget"`
	ExpenseCount       int64                              `json:"expense_count"`
	MonthlyBudget      float64                            `json:"monthly_budget"`
	ExpensesByCategory map[models.ExpenseCategory]float64 `json:"expenses_by_category"`
}

// SummaryServicer defines the contract for the monthly summary.
type SummaryServicer interface {
	GetMonthlySummary(ctx context.Context, userID string) (*ExpenseSummary, error)
}

// AuditServicer receives a record after every successful write.
type AuditServicer interface {
	Log(ctx context.Context, action, resourceType, resourceID string, changes map[string]any)
}
