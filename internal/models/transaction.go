package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionSource records how a transaction entered the system.
type TransactionSource string

const (
	TransactionSourceManual TransactionSource = "manual"
	TransactionSourceSMS    TransactionSource = "sms"
)

// Transaction represents a financial transaction in the system.
// Amounts are stored in minor units (paise) and are always positive;
// Type encodes the direction.
type Transaction struct {
	Base
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	CategoryID  int               `gorm:"not null" json:"category_id"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Amount      int64             `gorm:"type:bigint;not null" json:"amount"`
	Merchant    string            `gorm:"size:255" json:"merchant"`
	Description string            `gorm:"size:500" json:"description"`
	Date        time.Time         `gorm:"not null;index" json:"date"`
	Source      TransactionSource `gorm:"not null;default:'manual'" json:"source"`

	// Fields populated for SMS-derived transactions.
	AccountRef   string `gorm:"size:32" json:"account_ref,omitempty"`
	BalanceAfter *int64 `gorm:"type:bigint" json:"balance_after,omitempty"`
}

// AccountRefDisplay returns the masked account reference for presentation,
// substituting "Unknown" when the SMS carried none.
func (t *Transaction) AccountRefDisplay() string {
	if t.AccountRef == "" {
		return "Unknown"
	}
	return t.AccountRef
}

// CategoryName returns the catalog name for the transaction's category.
func (t *Transaction) CategoryName() string {
	return CategoryName(t.CategoryID)
}
