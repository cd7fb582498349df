package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/services"
	"expensetracker/internal/validator"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseListQuery holds the optional filters for listing a user's expenses.
type ExpenseListQuery struct {
	Category  models.ExpenseCategory `form:"category" binding:"omitempty,expense_category"`
	StartDate string                 `form:"start_date"`
	EndDate   string                 `form:"end_date"`
}

// ExpenseResponse represents an expense in the response
type ExpenseResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
	Amount    float64                `json:"amount"`
	Category  models.ExpenseCategory `json:"category"`
	Date      time.Time              `json:"date"`
	User      *models.Owner          `json:"user"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// CreateExpense handles the creation of a new expense
// @Summary     Create an expense
// @Description Record an expense for an existing user. Date defaults to now and may not be in the future.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body validator.CreateExpenseInput true "Expense details"
// @Success     201 {object} ExpenseResponse "Expense created"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req validator.CreateExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, validator.BodyError(err, &req))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpense handles fetching a single expense
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseResponse "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// GetUserExpenses lists a user's expenses, newest first
// @Summary     List user expenses
// @Description Get a paginated list of a user's expenses with optional filters
// @Tags        expenses
// @Produce     json
// @Param       id         path  string true  "User ID"
// @Param       page       query int    false "Page number (default 1)"
// @Param       limit      query int    false "Items per page (default 10, max 100)"
// @Param       category   query string false "Filter by category"
// @Param       start_date query string false "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive upper bound (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id}/expenses [get]
func (h *ExpenseHandler) GetUserExpenses(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, validator.BindingError(err))
		return
	}
	page.Defaults()

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetUserExpenses(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	var q ExpenseListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return filter, validator.BindingError(err)
	}

	if q.Category != "" {
		filter.Category = &q.Category
	}

	if q.StartDate != "" {
		t, err := parseFlexibleTime(q.StartDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.StartDate = &t
	}

	if q.EndDate != "" {
		t, err := parseFlexibleTime(q.EndDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.EndDate = &t
	}

	return filter, nil
}

// UpdateExpense handles partial expense updates
// @Summary     Update expense
// @Description Update any subset of an expense's fields. A new user_id must reference an existing user.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id      path string                       true "Expense ID"
// @Param       request body validator.UpdateExpenseInput true "Fields to update"
// @Success     200 {object} ExpenseResponse "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense or user not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req validator.UpdateExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, validator.BodyError(err, &req))
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles the deletion of an expense
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
