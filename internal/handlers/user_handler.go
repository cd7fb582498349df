package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/pagination"
	"expensetracker/internal/services"
	"expensetracker/internal/validator"
)

// UserHandler handles user-related requests.
type UserHandler struct {
	userService    services.UserServicer
	summaryService services.SummaryServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, summaryService services.SummaryServicer) *UserHandler {
	return &UserHandler{userService: userService, summaryService: summaryService}
}

// UserResponse represents a user in the response
type UserResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	MonthlyBudget float64   `json:"monthly_budget"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateUser handles user registration
// @Summary     Create a user
// @Description Register a budget holder. Emails are trimmed, lowercased and must be unique.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body validator.CreateUserInput true "User details"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     409 {object} ErrorResponse "Email already in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req validator.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, validator.BodyError(err, &req))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetUsers lists users, newest first
// @Summary     List users
// @Description Get a paginated list of users ordered by creation time, newest first
// @Tags        users
// @Produce     json
// @Param       page  query int false "Page number (default 1)"
// @Param       limit query int false "Items per page (default 10, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated users"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, validator.BindingError(err))
		return
	}
	page.Defaults()

	result, err := h.userService.GetUsers(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser handles fetching a single user
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse "User details"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser handles partial user updates
// @Summary     Update user
// @Description Update any subset of name, email and monthly_budget. An empty body returns the user unchanged.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id      path string                    true "User ID"
// @Param       request body validator.UpdateUserInput true "Fields to update"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Email already in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req validator.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, validator.BodyError(err, &req))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes a user and all of its expenses
// @Summary     Delete user
// @Description Delete a user. Every expense owned by the user is deleted first.
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} MessageResponse "User deleted"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User and associated expenses deleted successfully"})
}

// GetMonthlySummary returns the current-month spending overview
// @Summary     Monthly summary
// @Description Totals, remaining budget and per-category sums for the current calendar month
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} services.ExpenseSummary "Monthly summary"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id}/summary [get]
func (h *UserHandler) GetMonthlySummary(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.GetMonthlySummary(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
