package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
)

// analyticsService computes spending summaries from the transactions table.
// Totals are aggregated in SQL; month windows are built in Go so the same
// queries run on postgres and the sqlite test database.
type analyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db}
}

// GetMonthlySummary returns income, expense, and net totals for one UTC
// calendar month, with a per-category expense breakdown.
func (s *analyticsService) GetMonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	income, expense, count, err := s.windowTotals(userID, start, end)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.categoryTotals(userID, "date >= ? AND date < ?", start, end)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		Year:         year,
		Month:        int(month),
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income - expense,
		Transactions: count,
		ByCategory:   byCategory,
	}, nil
}

// GetCategoryBreakdown returns per-category expense totals for the inclusive
// date range [from, to], largest first.
func (s *analyticsService) GetCategoryBreakdown(userID uint, from, to time.Time) ([]CategorySpend, error) {
	return s.categoryTotals(userID, "date >= ? AND date <= ?", from, to)
}

func (s *analyticsService) categoryTotals(userID uint, dateCond string, args ...interface{}) ([]CategorySpend, error) {
	var rows []struct {
		CategoryID int
		Total      int64
		Count      int64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeExpense).
		Where(dateCond, args...).
		Group("category_id").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	breakdown := make([]CategorySpend, 0, len(rows))
	for _, row := range rows {
		breakdown = append(breakdown, CategorySpend{
			CategoryID: row.CategoryID,
			Category:   models.CategoryName(row.CategoryID),
			Total:      row.Total,
			Count:      row.Count,
		})
	}
	return breakdown, nil
}

// GetSpendingTrend returns income and expense totals for the last months
// calendar months, oldest first. The current month is included.
func (s *analyticsService) GetSpendingTrend(userID uint, months int) ([]MonthlyTotal, error) {
	if months <= 0 {
		months = 6
	}
	if months > 24 {
		months = 24
	}

	now := time.Now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	trend := make([]MonthlyTotal, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		income, expense, _, err := s.windowTotals(userID, start, end)
		if err != nil {
			return nil, err
		}

		trend = append(trend, MonthlyTotal{
			Year:    start.Year(),
			Month:   int(start.Month()),
			Income:  income,
			Expense: expense,
		})
	}
	return trend, nil
}

// GetDailySpending returns per-day income and expense totals for the
// inclusive date range [from, to]. Days with no transactions appear with zero
// totals so the series has no gaps. Ranges longer than a year are clamped.
func (s *analyticsService) GetDailySpending(userID uint, from, to time.Time) ([]DailySpend, error) {
	from = from.UTC()
	to = to.UTC()
	if to.After(from.AddDate(1, 0, 0)) {
		to = from.AddDate(1, 0, 0)
	}

	var rows []struct {
		Day   string
		Type  models.TransactionType
		Total int64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("DATE(date) AS day, type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Group("DATE(date), type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]*DailySpend, len(rows))
	for _, row := range rows {
		// Postgres scans DATE() as a full timestamp string, sqlite as YYYY-MM-DD.
		day := row.Day
		if len(day) > 10 {
			day = day[:10]
		}
		entry, ok := totals[day]
		if !ok {
			entry = &DailySpend{Date: day}
			totals[day] = entry
		}
		switch row.Type {
		case models.TransactionTypeIncome:
			entry.Income += row.Total
		case models.TransactionTypeExpense:
			entry.Expense += row.Total
		}
	}

	series := make([]DailySpend, 0)
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for day := start; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if entry, ok := totals[key]; ok {
			series = append(series, *entry)
		} else {
			series = append(series, DailySpend{Date: key})
		}
	}
	return series, nil
}

// windowTotals sums income and expense amounts for [start, end).
func (s *analyticsService) windowTotals(userID uint, start, end time.Time) (income, expense, count int64, err error) {
	var rows []struct {
		Type  models.TransactionType
		Total int64
		Count int64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("type").
		Scan(&rows).Error; err != nil {
		return 0, 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			income = row.Total
		case models.TransactionTypeExpense:
			expense = row.Total
		}
		count += row.Count
	}
	return income, expense, count, nil
}
