package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/uuid"
	"expensetracker/internal/validator"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db    *gorm.DB
	audit AuditServicer
	now   func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, audit AuditServicer) ExpenseServicer {
	return &expenseService{db: db, audit: audit, now: time.Now}
}

// withOwner preloads the owner snapshot onto expense queries.
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("User")
}

// deleteExpensesByUser bulk-deletes a user's expenses. Zero matches is not an error.
func deleteExpensesByUser(db *gorm.DB, userID string) (int64, error) {
	res := db.Where("user_id = ?", userID).Delete(&models.Expense{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

// checkExpenseRules enforces the amount and date rules at the persistence
// boundary, independently of any validation the caller already ran.
func checkExpenseRules(amount *float64, date *time.Time, now time.Time) error {
	var msgs []string
	if amount != nil && *amount <= 0 {
		msgs = append(msgs, "amount must be greater than 0")
	}
	if date != nil && date.After(now) {
		msgs = append(msgs, "date cannot be in the future")
	}
	if appErr := apperrors.Validation(msgs...); appErr != nil {
		return appErr
	}
	return nil
}

// CreateExpense records a new expense for an existing user.
func (s *expenseService) CreateExpense(ctx context.Context, input validator.CreateExpenseInput) (*models.Expense, error) {
	in, err := validator.ValidateExpenseCreate(input)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	if _, err := findUser(db, in.UserID); err != nil {
		return nil, err
	}

	now := s.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	if err := checkExpenseRules(in.Amount, &date, now); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:   in.UserID,
		Title:    in.Title,
		Amount:   *in.Amount,
		Category: in.Category,
		Date:     date.UTC(),
	}

	if err := db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ctx, ActionCreateExpense, "expense", expense.ID, map[string]any{
		"amount":   expense.Amount,
		"category": expense.Category,
	})

	return s.GetExpenseByID(ctx, expense.ID)
}

// GetExpenseByID retrieves an expense with its owner snapshot.
func (s *expenseService) GetExpenseByID(ctx context.Context, id string) (*models.Expense, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrExpenseNotFound
	}
	var expense models.Expense
	if err := withOwner(s.db.WithContext(ctx)).Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// GetUserExpenses returns a page of the user's expenses, newest date first.
// The total comes from a separate COUNT and may drift from the page under
// concurrent writes.
func (s *expenseService) GetUserExpenses(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
	filter ExpenseFilter,
) (*pagination.PageResponse[models.Expense], error) {
	page = page.Normalized()
	db := s.db.WithContext(ctx)

	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}

	// Dates are stored in UTC; bounds must be too.
	base := db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.StartDate != nil {
		base = base.Where("date >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		base = base.Where("date <= ?", filter.EndDate.UTC())
	}

	var totalItems int64
	if err := base.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := withOwner(base.Session(&gorm.Session{})).
		Order("date DESC").Order("id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.Limit, totalItems)
	return &result, nil
}

// UpdateExpense applies a partial update. A new user_id must reference an
// existing user.
func (s *expenseService) UpdateExpense(ctx context.Context, id string, input validator.UpdateExpenseInput) (*models.Expense, error) {
	db := s.db.WithContext(ctx)

	if !uuid.IsValid(id) {
		return nil, apperrors.ErrExpenseNotFound
	}
	var expense models.Expense
	if err := db.Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	in, err := validator.ValidateExpenseUpdate(input)
	if err != nil {
		return nil, err
	}
	if err := checkExpenseRules(in.Amount, in.Date, s.now()); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.UserID != nil && *in.UserID != expense.UserID {
		if _, err := findUser(db, *in.UserID); err != nil {
			return nil, err
		}
		updates["user_id"] = *in.UserID
	}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Amount != nil {
		updates["amount"] = *in.Amount
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Date != nil {
		updates["date"] = in.Date.UTC()
	}

	if len(updates) > 0 {
		if err := db.Model(&expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		s.audit.Log(ctx, ActionUpdateExpense, "expense", expense.ID, updates)
	}

	return s.GetExpenseByID(ctx, expense.ID)
}

// DeleteExpense hard-deletes a single expense.
func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperrors.ErrExpenseNotFound
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Expense{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}

	s.audit.Log(ctx, ActionDeleteExpense, "expense", id, nil)
	return nil
}

// DeleteUserExpenses removes every expense owned by the user and returns the count.
func (s *expenseService) DeleteUserExpenses(ctx context.Context, userID string) (int64, error) {
	return deleteExpensesByUser(s.db.WithContext(ctx), userID)
}
