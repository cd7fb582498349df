package services

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

// summaryService computes spending overviews. Nothing is cached; every call
// aggregates straight from the expenses table.
type summaryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db, now: time.Now}
}

// categoryTotal is one row of the GROUP BY category aggregation.
type categoryTotal struct {
	Category models.ExpenseCategory
	Total    float64
	Count    int64
}

// MonthWindow returns the first and last instant of the calendar month
// containing t, in t's location. Both bounds are inclusive.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := start.AddDate(0, 1, -1)
	end := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 999999999, t.Location())
	return start, end
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetMonthlySummary aggregates the user's expenses in the current calendar month.
func (s *summaryService) GetMonthlySummary(ctx context.Context, userID string) (*ExpenseSummary, error) {
	db := s.db.WithContext(ctx)

	user, err := findUser(db, userID)
	if err != nil {
		return nil, err
	}

	// The month is the server's; the comparison happens on UTC instants.
	start, end := MonthWindow(s.now())

	var rows []categoryTotal
	err = db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date BETWEEN ? AND ?", user.ID, start.UTC(), end.UTC()).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &ExpenseSummary{
		MonthlyBudget:      user.MonthlyBudget,
		ExpensesByCategory: make(map[models.ExpenseCategory]float64, len(rows)),
	}

	var total float64
	for _, row := range rows {
		total += row.Total
		summary.ExpenseCount += row.Count
		summary.ExpensesByCategory[row.Category] = round2(row.Total)
	}

	summary.TotalExpenses = round2(total)
	summary.RemainingBudget = round2(math.Max(0, user.MonthlyBudget-summary.TotalExpenses))

	return summary, nil
}
