package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/pagination"
	"paisabook/internal/services"
)

// SMSHandler handles SMS ingestion and the manual review queue.
type SMSHandler struct {
	smsService   services.SMSServicer
	auditService services.AuditServicer
}

// NewSMSHandler creates a new SMSHandler.
func NewSMSHandler(smsService services.SMSServicer, auditService services.AuditServicer) *SMSHandler {
	return &SMSHandler{smsService: smsService, auditService: auditService}
}

// IngestSMSRequest is the payload posted by the SMS forwarding gateway.
type IngestSMSRequest struct {
	PhoneNumber string  `json:"phone_number" binding:"required,msisdn"`
	Text        string  `json:"text" binding:"required"`
	ReceivedAt  *string `json:"received_at"`
}

// ClassifySMSRequest represents the manual classification of a queued message.
type ClassifySMSRequest struct {
	CategoryID  *int                   `json:"category_id" binding:"required,category_id"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      int64                  `json:"amount" binding:"required,gt=0"`
	Merchant    string                 `json:"merchant" binding:"max=255"`
	Description string                 `json:"description" binding:"max=500"`
	Date        *string                `json:"date"`
}

// Ingest accepts a forwarded bank SMS from the gateway
// @Summary     Ingest an SMS
// @Description Accept a forwarded bank SMS, attribute it to the user linked to the sender number, and parse it into a transaction. Messages no pattern matches are stored and queued for manual review.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Security    WebhookKey
// @Param       request body IngestSMSRequest true "Forwarded SMS"
// @Success     202 {object} services.IngestResult "Message stored; transaction present when parsing succeeded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Sender number not linked to any user"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /webhooks/sms [post]
func (h *SMSHandler) Ingest(c *gin.Context) {
	var req IngestSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var receivedAt time.Time
	if req.ReceivedAt != nil && *req.ReceivedAt != "" {
		parsed, parseErr := parseFlexibleTime(*req.ReceivedAt)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		receivedAt = parsed
	}

	result, err := h.smsService.Ingest(req.PhoneNumber, req.Text, receivedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, result)
}

// GetReviewQueue lists messages awaiting manual classification
// @Summary     Get review queue
// @Description Get the authenticated user's SMS messages that no parser pattern matched, newest first
// @Tags        sms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SMSMessage] "Paginated review queue"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sms/review [get]
func (h *SMSHandler) GetReviewQueue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.smsService.GetReviewQueue(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMessage retrieves one stored SMS message
// @Summary     Get SMS message
// @Description Get a stored SMS message by ID, including its parse outcome
// @Tags        sms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Message ID"
// @Success     200 {object} models.SMSMessage "SMS message"
// @Failure     400 {object} ErrorResponse "Invalid message ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Message not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sms/{id} [get]
func (h *SMSHandler) GetMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	messageID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	message, err := h.smsService.GetMessageByID(userID, messageID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Classify turns a queued message into a transaction
// @Summary     Classify SMS message
// @Description Manually classify a message from the review queue into a transaction
// @Tags        sms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Message ID"
// @Param       request body ClassifySMSRequest true "Classification details"
// @Success     201 {object} TransactionResponse "Transaction created from the message"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Message not found"
// @Failure     409 {object} ErrorResponse "Message is not awaiting review"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sms/{id}/classify [post]
func (h *SMSHandler) Classify(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	messageID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClassifySMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		date = parsed
	}

	transaction, err := h.smsService.Classify(
		userID, messageID, *req.CategoryID, req.Type, req.Amount, req.Merchant, req.Description, date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CLASSIFY_SMS", "sms_message", messageID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount, "category_id": *req.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// Ignore dismisses a queued message
// @Summary     Ignore SMS message
// @Description Dismiss a message from the review queue without creating a transaction
// @Tags        sms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Message ID"
// @Success     200 {object} MessageResponse "Message ignored"
// @Failure     400 {object} ErrorResponse "Invalid message ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Message not found"
// @Failure     409 {object} ErrorResponse "Message is not awaiting review"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sms/{id}/ignore [post]
func (h *SMSHandler) Ignore(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	messageID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.smsService.Ignore(userID, messageID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "IGNORE_SMS", "sms_message", messageID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Message ignored"})
}
