package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the user and expense endpoints on the API group.
func RegisterRoutes(v1 *gin.RouterGroup, userHandler *UserHandler, expenseHandler *ExpenseHandler) {
	users := v1.Group("/users")
	users.POST("", userHandler.CreateUser)
	users.GET("", userHandler.GetUsers)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.GET("/:id/expenses", expenseHandler.GetUserExpenses)
	users.GET("/:id/summary", userHandler.GetMonthlySummary)

	expenses := v1.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
}
