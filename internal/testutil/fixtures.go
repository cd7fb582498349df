package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"expensetracker/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique email and a budget of 1000.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithBudget(t, db, 1000)
}

// CreateTestUserWithBudget creates a user with a unique email and the given budget.
func CreateTestUserWithBudget(t *testing.T, db *gorm.DB, budget float64) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		Name:          fmt.Sprintf("Test User %d", n),
		Email:         fmt.Sprintf("user%d@test.com", n),
		MonthlyBudget: budget,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense creates an expense dated now in the given category.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, category models.ExpenseCategory, amount float64) *models.Expense {
	t.Helper()
	return CreateTestExpenseOn(t, db, userID, category, amount, time.Now())
}

// CreateTestExpenseOn creates an expense with an explicit date, bypassing
// service-level rules so tests can seed historical or boundary rows.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, userID string, category models.ExpenseCategory, amount float64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Expense %d", nextID()),
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CountExpenses returns how many expenses reference the user.
func CountExpenses(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count expenses: %v", err)
	}
	return n
}
