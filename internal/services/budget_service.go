package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for a user.
func (s *budgetService) CreateBudget(
	userID uint,
	categoryID int,
	name string,
	amount int64,
	period models.BudgetPeriod,
	startDate time.Time,
	endDate *time.Time,
) (*models.Budget, error) {
	// Validate input
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
	}
	if period != models.BudgetPeriodMonthly && period != models.BudgetPeriodYearly {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be monthly or yearly")
	}
	if !models.ValidCategoryID(categoryID) {
		return nil, apperrors.ErrCategoryNotFound
	}
	// Budgets cap spending, so only expense categories can carry one.
	if models.CategoryKindOf(categoryID) != models.CategoryKindExpense {
		return nil, apperrors.WithMessage(apperrors.ErrCategoryMismatch, "budgets can only be set on expense categories")
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after start date")
	}

	if startDate.IsZero() {
		startDate = time.Now()
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       name,
		Amount:     amount,
		Period:     period,
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   true,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets retrieves a paginated list of budgets for a user.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest, isActive *bool, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}
	if period != nil {
		base = base.Where("period = ?", *period)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID retrieves a budget by ID for a specific user
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's mutable fields.
func (s *budgetService) UpdateBudget(userID, budgetID uint, name string, amount *int64, period *models.BudgetPeriod, endDate *time.Time) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if amount != nil {
		if *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
		}
		updates["amount"] = *amount
	}
	if period != nil {
		if *period != models.BudgetPeriodMonthly && *period != models.BudgetPeriodYearly {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be monthly or yearly")
		}
		updates["period"] = *period
	}
	if endDate != nil {
		if endDate.Before(budget.StartDate) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after start date")
		}
		updates["end_date"] = *endDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress calculates spending against a budget for the current period.
func (s *budgetService) GetBudgetProgress(userID, budgetID uint) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	start, end := periodWindow(budget.Period, time.Now())
	spent, err := s.spentInWindow(userID, budget.CategoryID, start, end)
	if err != nil {
		return nil, err
	}

	progress := &BudgetProgress{
		BudgetID:  budget.ID,
		Budgeted:  budget.Amount,
		Spent:     spent,
		Remaining: budget.Amount - spent,
	}
	if budget.Amount > 0 {
		progress.Percentage = float64(spent) / float64(budget.Amount) * 100
	}
	return progress, nil
}

// FindBreachedBudgets returns the user's active budgets for a category whose
// spending in the period containing at exceeds the budgeted amount.
func (s *budgetService) FindBreachedBudgets(userID uint, categoryID int, at time.Time) ([]BudgetBreach, error) {
	var budgets []models.Budget
	if err := s.db.
		Where("user_id = ? AND category_id = ? AND is_active = ?", userID, categoryID, true).
		Where("start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var breaches []BudgetBreach
	for _, budget := range budgets {
		start, end := periodWindow(budget.Period, at)
		spent, err := s.spentInWindow(userID, budget.CategoryID, start, end)
		if err != nil {
			return nil, err
		}
		if spent > budget.Amount {
			breaches = append(breaches, BudgetBreach{
				Budget:   budget,
				Budgeted: budget.Amount,
				Spent:    spent,
			})
		}
	}
	return breaches, nil
}

// periodWindow returns the calendar window containing at for the given period.
func periodWindow(period models.BudgetPeriod, at time.Time) (time.Time, time.Time) {
	if period == models.BudgetPeriodYearly {
		start := time.Date(at.Year(), 1, 1, 0, 0, 0, 0, at.Location())
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	return start, start.AddDate(0, 1, 0)
}

func (s *budgetService) spentInWindow(userID uint, categoryID int, start, end time.Time) (int64, error) {
	var spent int64
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ? AND type = ?", userID, categoryID, models.TransactionTypeExpense).
		Where("date >= ? AND date < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&spent).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}
