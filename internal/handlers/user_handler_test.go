package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/services"
	"expensetracker/internal/validator"
)

// --- mock user service ---

type mockUserService struct {
	createUserFn  func(input validator.CreateUserInput) (*models.User, error)
	getUserByIDFn func(id string) (*models.User, error)
	getUsersFn    func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	updateUserFn  func(id string, input validator.UpdateUserInput) (*models.User, error)
	deleteUserFn  func(id string) error
}

func (m *mockUserService) CreateUser(_ context.Context, input validator.CreateUserInput) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(input)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) GetUsers(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.getUsersFn != nil {
		return m.getUsersFn(page)
	}
	resp := pagination.NewPageResponse([]models.User{}, page.Page, page.Limit, 0)
	return &resp, nil
}

func (m *mockUserService) UpdateUser(_ context.Context, id string, input validator.UpdateUserInput) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(id, input)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) DeleteUser(_ context.Context, id string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(id)
	}
	return nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- mock summary service ---

type mockSummaryService struct {
	getMonthlySummaryFn func(userID string) (*services.ExpenseSummary, error)
}

func (m *mockSummaryService) GetMonthlySummary(_ context.Context, userID string) (*services.ExpenseSummary, error) {
	if m.getMonthlySummaryFn != nil {
		return m.getMonthlySummaryFn(userID)
	}
	return &services.ExpenseSummary{ExpensesByCategory: map[models.ExpenseCategory]float64{}}, nil
}

var _ services.SummaryServicer = (*mockSummaryService)(nil)

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	r.POST("/users", handler.CreateUser)
	r.GET("/users", handler.GetUsers)
	r.GET("/users/:id", handler.GetUser)
	r.PUT("/users/:id", handler.UpdateUser)
	r.DELETE("/users/:id", handler.DeleteUser)
	r.GET("/users/:id/summary", handler.GetMonthlySummary)
	return r
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(in validator.CreateUserInput) (*models.User, error) {
				return &models.User{
					Base:          models.Base{ID: testUserID},
					Name:          in.Name,
					Email:         in.Email,
					MonthlyBudget: *in.MonthlyBudget,
				}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "POST", "/users", `{"name":"Alice","email":"alice@example.com","monthly_budget":1500}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID || user["monthly_budget"].(float64) != 1500 {
			t.Errorf("unexpected user %v", user)
		}
	})

	t.Run("returns 400 on malformed JSON", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockSummaryService{}))

		rec := doRequest(r, "POST", "/users", `{"name":`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when budget is not a number", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockSummaryService{}))

		rec := doRequest(r, "POST", "/users", `{"name":"Alice","email":"a@b.co","monthly_budget":"lots"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("passes service validation errors through", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(in validator.CreateUserInput) (*models.User, error) {
				_, err := validator.ValidateUserCreate(in)
				return nil, err
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "POST", "/users", `{"name":"A","email":"nope","monthly_budget":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(validator.CreateUserInput) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "POST", "/users", `{"name":"Alice","email":"alice@example.com","monthly_budget":10}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestUserHandler_GetUsers(t *testing.T) {
	t.Run("applies defaults when query is empty", func(t *testing.T) {
		var got pagination.PageRequest
		userSvc := &mockUserService{
			getUsersFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
				got = page
				resp := pagination.NewPageResponse([]models.User{}, page.Page, page.Limit, 0)
				return &resp, nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "GET", "/users", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Page != 1 || got.Limit != pagination.DefaultLimit {
			t.Errorf("expected page=1 limit=%d, got %+v", pagination.DefaultLimit, got)
		}
		meta := parseJSON(t, rec)["pagination"].(map[string]interface{})
		if meta["pages"].(float64) != 0 {
			t.Errorf("expected 0 pages, got %v", meta["pages"])
		}
	})

	t.Run("forwards explicit values", func(t *testing.T) {
		var got pagination.PageRequest
		userSvc := &mockUserService{
			getUsersFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
				got = page
				resp := pagination.NewPageResponse([]models.User{}, page.Page, page.Limit, 0)
				return &resp, nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		doRequest(r, "GET", "/users?page=3&limit=500", "")

		if got.Page != 3 || got.Limit != 500 {
			t.Errorf("expected raw values to reach the service, got %+v", got)
		}
	})

	t.Run("returns 400 on non-numeric page", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockSummaryService{}))

		rec := doRequest(r, "GET", "/users?page=two", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockSummaryService{}))

		rec := doRequest(r, "GET", "/users/"+testUserID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		called := false
		userSvc := &mockUserService{
			getUserByIDFn: func(string) (*models.User, error) {
				called = true
				return nil, nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "GET", "/users/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		if called {
			t.Error("service must not be called for a malformed id")
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "GET", "/users/"+testUserID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})
}

func TestUserHandler_UpdateUser(t *testing.T) {
	t.Run("binds only provided fields", func(t *testing.T) {
		var got validator.UpdateUserInput
		userSvc := &mockUserService{
			updateUserFn: func(id string, in validator.UpdateUserInput) (*models.User, error) {
				got = in
				return &models.User{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "PUT", "/users/"+testUserID, `{"monthly_budget":250}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name != nil || got.Email != nil {
			t.Error("expected name and email to be absent")
		}
		if got.MonthlyBudget == nil || *got.MonthlyBudget != 250 {
			t.Errorf("expected budget 250, got %v", got.MonthlyBudget)
		}
	})

	t.Run("returns 409 on taken email", func(t *testing.T) {
		userSvc := &mockUserService{
			updateUserFn: func(string, validator.UpdateUserInput) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "PUT", "/users/"+testUserID, `{"email":"taken@example.com"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		var got string
		userSvc := &mockUserService{
			deleteUserFn: func(id string) error {
				got = id
				return nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "DELETE", "/users/"+testUserID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got != testUserID {
			t.Errorf("expected id %s, got %s", testUserID, got)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		userSvc := &mockUserService{
			deleteUserFn: func(string) error { return apperrors.ErrUserNotFound },
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockSummaryService{}))

		rec := doRequest(r, "DELETE", "/users/"+testUserID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestUserHandler_GetMonthlySummary(t *testing.T) {
	t.Run("returns the summary", func(t *testing.T) {
		summarySvc := &mockSummaryService{
			getMonthlySummaryFn: func(string) (*services.ExpenseSummary, error) {
				return &services.ExpenseSummary{
					TotalExpenses:      5,
					RemainingBudget:    95,
					ExpenseCount:       1,
					MonthlyBudget:      100,
					ExpensesByCategory: map[models.ExpenseCategory]float64{models.CategoryFood: 5},
				}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(&mockUserService{}, summarySvc))

		rec := doRequest(r, "GET", "/users/"+testUserID+"/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		summary := parseJSON(t, rec)["summary"].(map[string]interface{})
		if summary["total_expenses"].(float64) != 5 || summary["remaining_budget"].(float64) != 95 {
			t.Errorf("unexpected summary %v", summary)
		}
		byCat := summary["expenses_by_category"].(map[string]interface{})
		if byCat["Food"].(float64) != 5 {
			t.Errorf("unexpected categories %v", byCat)
		}
	})

	t.Run("returns 404 for unknown user", func(t *testing.T) {
		summarySvc := &mockSummaryService{
			getMonthlySummaryFn: func(string) (*services.ExpenseSummary, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		r := setupUserRouter(NewUserHandler(&mockUserService{}, summarySvc))

		rec := doRequest(r, "GET", "/users/"+testUserID+"/summary", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
