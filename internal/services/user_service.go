package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/uuid"
	"expensetracker/internal/validator"
)

// userService handles user-related business logic.
type userService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, audit AuditServicer) UserServicer {
	return &userService{db: db, audit: audit}
}

// findUser loads a user or returns ErrUserNotFound. Malformed ids can never
// match a row, so they short-circuit without a query.
func findUser(db *gorm.DB, id string) (*models.User, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrUserNotFound
	}
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// emailTaken reports whether another user already owns the normalized email.
func emailTaken(db *gorm.DB, email, exceptID string) (bool, error) {
	q := db.Model(&models.User{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// CreateUser registers a new user
func (s *userService) CreateUser(ctx context.Context, input validator.CreateUserInput) (*models.User, error) {
	in, err := validator.ValidateUserCreate(input)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	taken, err := emailTaken(db, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateEmail
	}

	user := &models.User{
		Name:          in.Name,
		Email:         in.Email,
		MonthlyBudget: *in.MonthlyBudget,
	}

	// The unique index catches a concurrent registration that slipped past the check.
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ctx, ActionCreateUser, "user", user.ID, map[string]any{"email": user.Email})

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return findUser(s.db.WithContext(ctx), id)
}

// GetUsers returns a page of users, newest first. The total comes from a
// separate COUNT and may drift from the page under concurrent writes.
func (s *userService) GetUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page = page.Normalized()
	db := s.db.WithContext(ctx)

	var totalItems int64
	if err := db.Model(&models.User{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := db.Order("created_at DESC").Order("id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.Limit, totalItems)
	return &result, nil
}

// UpdateUser applies a partial update. An empty update returns the stored user.
func (s *userService) UpdateUser(ctx context.Context, id string, input validator.UpdateUserInput) (*models.User, error) {
	db := s.db.WithContext(ctx)

	user, err := findUser(db, id)
	if err != nil {
		return nil, err
	}

	in, err := validator.ValidateUserUpdate(input)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil && *in.Email != user.Email {
		taken, err := emailTaken(db, *in.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrDuplicateEmail
		}
		updates["email"] = *in.Email
	}
	if in.MonthlyBudget != nil {
		updates["monthly_budget"] = *in.MonthlyBudget
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := db.Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ctx, ActionUpdateUser, "user", user.ID, updates)

	return findUser(db, user.ID)
}

// DeleteUser removes a user and all of its expenses in one transaction.
// Expenses go first so that no reader can ever see an expense whose owner
// is gone. If the user row does not exist the transaction is rolled back and
// ErrUserNotFound is returned.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperrors.ErrUserNotFound
	}

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = deleteExpensesByUser(tx, id)
		if err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return apperrors.From(err)
	}

	s.audit.Log(ctx, ActionDeleteUser, "user", id, map[string]any{"expenses_deleted": removed})
	return nil
}
