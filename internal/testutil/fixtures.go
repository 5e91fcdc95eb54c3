package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"paisabook/internal/models"
	"paisabook/internal/uuid"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPhoneLink creates an active phone link with a unique number.
func CreateTestPhoneLink(t *testing.T, db *gorm.DB, userID uint) *models.PhoneLink {
	t.Helper()
	number := fmt.Sprintf("+9198765%05d", nextID())
	return CreateTestPhoneLinkWithNumber(t, db, userID, number)
}

// CreateTestPhoneLinkWithNumber creates an active phone link with the given number.
func CreateTestPhoneLinkWithNumber(t *testing.T, db *gorm.DB, userID uint, phoneNumber string) *models.PhoneLink {
	t.Helper()

	link := &models.PhoneLink{
		UserID:      userID,
		PhoneNumber: phoneNumber,
		Label:       fmt.Sprintf("Test Phone %d", nextID()),
		IsActive:    true,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create test phone link: %v", err)
	}
	return link
}

// CreateTestTransaction creates a transaction of the given type and amount (in paise).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID int, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       time.Now(),
		Source:     models.TransactionSourceManual,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, categoryID int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		Amount:     10000, // ₹100.00
		Period:     models.BudgetPeriodMonthly,
		StartDate:  time.Now().Truncate(24 * time.Hour),
		IsActive:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestSMSMessage creates a stored SMS message with the given status.
func CreateTestSMSMessage(t *testing.T, db *gorm.DB, userID uint, status models.SMSStatus) *models.SMSMessage {
	t.Helper()

	message := &models.SMSMessage{
		UID:         uuid.New(),
		UserID:      userID,
		PhoneNumber: fmt.Sprintf("+9198765%05d", nextID()),
		Body:        fmt.Sprintf("Test message %d", nextID()),
		Status:      status,
		ReceivedAt:  time.Now(),
	}
	if err := db.Create(message).Error; err != nil {
		t.Fatalf("failed to create test sms message: %v", err)
	}
	return message
}
