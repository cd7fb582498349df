package validator

import (
	"strings"
	"time"

	"expensetracker/internal/models"
)

// CreateUserInput is the payload for registering a user.
type CreateUserInput struct {
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	Email         string   `json:"email" validate:"required,email"`
	MonthlyBudget *float64 `json:"monthly_budget" validate:"required,gt=0"`
}

// UpdateUserInput is a partial user update; nil fields are left untouched.
type UpdateUserInput struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	MonthlyBudget *float64 `json:"monthly_budget" validate:"omitempty,gt=0"`
}

// IsEmpty reports whether the update carries no fields.
func (in UpdateUserInput) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && in.MonthlyBudget == nil
}

// CreateExpenseInput is the payload for recording an expense. A nil Date
// means "now".
type CreateExpenseInput struct {
	UserID   string                 `json:"user_id" validate:"required,uuid"`
	Title    string                 `json:"title" validate:"required,min=2,max=200"`
	Amount   *float64               `json:"amount" validate:"required,gt=0"`
	Category models.ExpenseCategory `json:"category" validate:"required,expense_category"`
	Date     *time.Time             `json:"date" validate:"omitempty,notfuture"`
}

// UpdateExpenseInput is a partial expense update; nil fields are left untouched.
type UpdateExpenseInput struct {
	UserID   *string                 `json:"user_id" validate:"omitempty,uuid"`
	Title    *string                 `json:"title" validate:"omitempty,min=2,max=200"`
	Amount   *float64                `json:"amount" validate:"omitempty,gt=0"`
	Category *models.ExpenseCategory `json:"category" validate:"omitempty,expense_category"`
	Date     *time.Time              `json:"date" validate:"omitempty,notfuture"`
}

// IsEmpty reports whether the update carries no fields.
func (in UpdateExpenseInput) IsEmpty() bool {
	return in.UserID == nil && in.Title == nil && in.Amount == nil && in.Category == nil && in.Date == nil
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// ValidateUserCreate normalizes and validates a create-user payload.
func ValidateUserCreate(in CreateUserInput) (*CreateUserInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ValidateUserUpdate normalizes and validates a partial user update.
func ValidateUserUpdate(in UpdateUserInput) (*UpdateUserInput, error) {
	in.Name = trimPtr(in.Name)
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ValidateExpenseCreate normalizes and validates a create-expense payload.
// User existence is not checked here.
func ValidateExpenseCreate(in CreateExpenseInput) (*CreateExpenseInput, error) {
	in.UserID = strings.ToLower(strings.TrimSpace(in.UserID))
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ValidateExpenseUpdate normalizes and validates a partial expense update.
func ValidateExpenseUpdate(in UpdateExpenseInput) (*UpdateExpenseInput, error) {
	in.Title = trimPtr(in.Title)
	if in.UserID != nil {
		id := strings.ToLower(strings.TrimSpace(*in.UserID))
		in.UserID = &id
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return &in, nil
}
