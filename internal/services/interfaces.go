package services

import (
	"time"

	"gorm.io/gorm"

	"paisabook/internal/models"
	"paisabook/internal/pagination"
	"paisabook/internal/smsparser"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *int
	Source     *models.TransactionSource
	MinAmount  *int64
	MaxAmount  *int64
	Search     string
}

// TransactionUpdate holds optional field updates for a transaction. Nil
// fields are left unchanged.
type TransactionUpdate struct {
	CategoryID  *int
	Type        *models.TransactionType
	Amount      *int64
	Merchant    *string
	Description *string
	Date        *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, categoryID int, transactionType models.TransactionType, amount int64, merchant, description string, date time.Time) (*models.Transaction, error)
	CreateFromParse(tx *gorm.DB, userID uint, parsed *smsparser.ParsedTransaction) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	BudgetID   uint    `json:"budget_id"`
	Budgeted   int64   `json:"budgeted"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetBreach pairs a budget with its spending for the period containing a
// given point in time. Spent may exceed Budgeted.
type BudgetBreach struct {
	Budget   models.Budget `json:"budget"`
	Budgeted int64         `json:"budgeted"`
	Spent    int64         `json:"spent"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, categoryID int, name string, amount int64, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest, isActive *bool, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, name string, amount *int64, period *models.BudgetPeriod, endDate *time.Time) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetProgress(userID, budgetID uint) (*BudgetProgress, error)
	FindBreachedBudgets(userID uint, categoryID int, at time.Time) ([]BudgetBreach, error)
}

// MonthlySummary aggregates a user's cash flow for one calendar month.
type MonthlySummary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalIncome  int64           `json:"total_income"`
	TotalExpense int64           `json:"total_expense"`
	Net          int64           `json:"net"`
	Transactions int64           `json:"transactions"`
	ByCategory   []CategorySpend `json:"by_category"`
}

// CategorySpend is the expense total for one category over a date range.
type CategorySpend struct {
	CategoryID int    `json:"category_id"`
	Category   string `json:"category"`
	Total      int64  `json:"total"`
	Count      int64  `json:"count"`
}

// MonthlyTotal is one month's income and expense totals in a trend series.
type MonthlyTotal struct {
	Year    int   `json:"year"`
	Month   int   `json:"month"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

// DailySpend is one day's totals in a daily series. Date is the UTC day in
// YYYY-MM-DD form.
type DailySpend struct {
	Date    string `json:"date"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// AnalyticsServicer defines the contract for spending analytics.
type AnalyticsServicer interface {
	GetMonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error)
	GetCategoryBreakdown(userID uint, from, to time.Time) ([]CategorySpend, error)
	GetSpendingTrend(userID uint, months int) ([]MonthlyTotal, error)
	GetDailySpending(userID uint, from, to time.Time) ([]DailySpend, error)
}

// PhoneLinkServicer defines the contract for linking sender phone numbers to users.
type PhoneLinkServicer interface {
	CreateLink(userID uint, phoneNumber, label string) (*models.PhoneLink, error)
	GetUserLinks(userID uint) ([]models.PhoneLink, error)
	GetLinkByPhone(phoneNumber string) (*models.PhoneLink, error)
	SetLinkActive(userID, linkID uint, active bool) (*models.PhoneLink, error)
	DeleteLink(userID, linkID uint) error
	RecordActivity(phoneNumber string) error
}

// IngestResult reports what happened to an inbound SMS: the stored message,
// and the transaction created from it when parsing succeeded.
type IngestResult struct {
	Message     *models.SMSMessage  `json:"message"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// SMSServicer defines the contract for SMS ingestion and the review queue.
type SMSServicer interface {
	Ingest(phoneNumber, body string, receivedAt time.Time) (*IngestResult, error)
	GetReviewQueue(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.SMSMessage], error)
	GetMessageByID(userID, messageID uint) (*models.SMSMessage, error)
	Classify(userID, messageID uint, categoryID int, transactionType models.TransactionType, amount int64, merchant, description string, date time.Time) (*models.Transaction, error)
	Ignore(userID, messageID uint) error
}

// NotificationServicer defines the contract for in-app notifications.
type NotificationServicer interface {
	Notify(userID uint, kind models.NotificationKind, title, body string) (*models.Notification, error)
	GetUserNotifications(userID uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	MarkRead(userID, notificationID uint) error
	MarkAllRead(userID uint) (int64, error)
	UnreadCount(userID uint) (int64, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
