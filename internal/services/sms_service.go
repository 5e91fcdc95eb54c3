package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/logger"
	"paisabook/internal/models"
	"paisabook/internal/pagination"
	"paisabook/internal/smsparser"
	"paisabook/internal/uuid"
)

// smsService runs the SMS ingest pipeline: attribute the message to a user,
// parse it, record a transaction when parsing succeeds, and queue it for
// manual review when it does not.
type smsService struct {
	db            *gorm.DB
	parser        *smsparser.Parser
	phoneLinks    PhoneLinkServicer
	transactions  TransactionServicer
	budgets       BudgetServicer
	notifications NotificationServicer
}

// NewSMSService creates a new SMSServicer.
func NewSMSService(
	db *gorm.DB,
	parser *smsparser.Parser,
	phoneLinks PhoneLinkServicer,
	transactions TransactionServicer,
	budgets BudgetServicer,
	notifications NotificationServicer,
) SMSServicer {
	return &smsService{
		db:            db,
		parser:        parser,
		phoneLinks:    phoneLinks,
		transactions:  transactions,
		budgets:       budgets,
		notifications: notifications,
	}
}

// Ingest processes one inbound SMS. The message row and the transaction
// parsed from it are written in a single database transaction; activity
// counters and notifications are best-effort afterwards.
func (s *smsService) Ingest(phoneNumber, body string, receivedAt time.Time) (*IngestResult, error) {
	link, err := s.phoneLinks.GetLinkByPhone(phoneNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrPhoneLinkNotFound) {
			return nil, apperrors.ErrPhoneNotLinked
		}
		return nil, err
	}

	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	message := &models.SMSMessage{
		UID:         uuid.New(),
		UserID:      link.UserID,
		PhoneNumber: phoneNumber,
		Body:        body,
		ReceivedAt:  receivedAt,
	}

	parsed, ok := s.parser.Parse(body, phoneNumber)
	if !ok {
		message.Status = models.SMSStatusReview
		if err := s.db.Create(message).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		s.recordActivity(phoneNumber)
		s.notify(link.UserID, models.NotificationKindSMSReview,
			"SMS needs review",
			fmt.Sprintf("A message from %s could not be read automatically.", phoneNumber))

		return &IngestResult{Message: message}, nil
	}

	var transaction *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		transaction, txErr = s.transactions.CreateFromParse(tx, link.UserID, parsed)
		if txErr != nil {
			return txErr
		}

		now := time.Now()
		message.Status = models.SMSStatusParsed
		message.MatchedRule = parsed.Source.Rule
		message.ParsedAt = &now
		message.TransactionID = &transaction.ID
		return tx.Create(message).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.recordActivity(phoneNumber)
	s.maybeNotifyBreach(link.UserID, transaction)

	return &IngestResult{Message: message, Transaction: transaction}, nil
}

// GetReviewQueue retrieves the user's unparsed messages awaiting manual
// classification, newest first.
func (s *smsService) GetReviewQueue(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.SMSMessage], error) {
	page.Defaults()

	base := s.db.Model(&models.SMSMessage{}).
		Where("user_id = ? AND status = ?", userID, models.SMSStatusReview)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var messages []models.SMSMessage
	if err := base.Scopes(pagination.Paginate(page)).
		Order("received_at DESC").
		Find(&messages).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(messages, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetMessageByID retrieves a stored SMS message by ID for a specific user
func (s *smsService) GetMessageByID(userID, messageID uint) (*models.SMSMessage, error) {
	var message models.SMSMessage
	if err := s.db.Where("id = ? AND user_id = ?", messageID, userID).First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSMSNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &message, nil
}

// Classify turns a queued message into a transaction using operator-supplied
// fields. Only messages in review status can be classified.
func (s *smsService) Classify(
	userID, messageID uint,
	categoryID int,
	transactionType models.TransactionType,
	amount int64,
	merchant, description string,
	date time.Time,
) (*models.Transaction, error) {
	message, err := s.GetMessageByID(userID, messageID)
	if err != nil {
		return nil, err
	}
	if message.Status != models.SMSStatusReview {
		return nil, apperrors.ErrSMSNotReviewable
	}

	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !models.ValidCategoryID(categoryID) {
		return nil, apperrors.ErrCategoryNotFound
	}
	if date.IsZero() {
		date = message.ReceivedAt
	}

	direction := smsparser.DirectionExpense
	if transactionType == models.TransactionTypeIncome {
		direction = smsparser.DirectionIncome
	}

	var transaction *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		parsed := &smsparser.ParsedTransaction{
			Amount:      amount,
			Direction:   direction,
			Merchant:    merchant,
			Description: description,
			OccurredAt:  date,
			CategoryID:  categoryID,
			Source: smsparser.SourceInfo{
				Text:        message.Body,
				PhoneNumber: message.PhoneNumber,
				ParsedAt:    time.Now(),
			},
		}

		var txErr error
		transaction, txErr = s.transactions.CreateFromParse(tx, userID, parsed)
		if txErr != nil {
			return txErr
		}

		return tx.Model(message).Updates(map[string]interface{}{
			"status":         models.SMSStatusClassified,
			"transaction_id": transaction.ID,
		}).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.maybeNotifyBreach(userID, transaction)

	return transaction, nil
}

// Ignore dismisses a queued message without creating a transaction.
func (s *smsService) Ignore(userID, messageID uint) error {
	message, err := s.GetMessageByID(userID, messageID)
	if err != nil {
		return err
	}
	if message.Status != models.SMSStatusReview {
		return apperrors.ErrSMSNotReviewable
	}

	if err := s.db.Model(message).Update("status", models.SMSStatusIgnored).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// recordActivity updates the phone link counters. Failures are logged, not
// propagated; ingest already succeeded.
func (s *smsService) recordActivity(phoneNumber string) {
	if err := s.phoneLinks.RecordActivity(phoneNumber); err != nil {
		logger.Get().Warnw("Failed to record phone link activity",
			"error", err,
			"phone_number", phoneNumber,
		)
	}
}

// maybeNotifyBreach raises a budget alert for each budget this expense pushed
// over its limit. Budgets that were already over before the transaction stay
// quiet.
func (s *smsService) maybeNotifyBreach(userID uint, transaction *models.Transaction) {
	if transaction.Type != models.TransactionTypeExpense {
		return
	}

	breaches, err := s.budgets.FindBreachedBudgets(userID, transaction.CategoryID, transaction.Date)
	if err != nil {
		logger.Get().Warnw("Failed to check budgets after transaction",
			"error", err,
			"user_id", userID,
		)
		return
	}

	for _, breach := range breaches {
		if breach.Spent-transaction.Amount > breach.Budgeted {
			continue
		}
		window := "month"
		if breach.Budget.Period == models.BudgetPeriodYearly {
			window = "year"
		}
		s.notify(userID, models.NotificationKindBudgetAlert,
			fmt.Sprintf("Budget %q exceeded", breach.Budget.Name),
			fmt.Sprintf("Spent ₹%.2f of ₹%.2f on %s this %s.",
				float64(breach.Spent)/100,
				float64(breach.Budgeted)/100,
				models.CategoryName(breach.Budget.CategoryID),
				window))
	}
}

func (s *smsService) notify(userID uint, kind models.NotificationKind, title, body string) {
	if _, err := s.notifications.Notify(userID, kind, title, body); err != nil {
		logger.Get().Warnw("Failed to create notification",
			"error", err,
			"user_id", userID,
			"kind", kind,
		)
	}
}
