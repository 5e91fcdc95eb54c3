package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/pagination"
	"paisabook/internal/services"
)

// --- mock sms service ---

type mockSMSService struct {
	ingestFn         func(phoneNumber, body string, receivedAt time.Time) (*services.IngestResult, error)
	getReviewQueueFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.SMSMessage], error)
	getMessageByIDFn func(userID, messageID uint) (*models.SMSMessage, error)
	classifyFn       func(userID, messageID uint, categoryID int, transactionType models.TransactionType, amount int64, merchant, description string, date time.Time) (*models.Transaction, error)
	ignoreFn         func(userID, messageID uint) error
}

func (m *mockSMSService) Ingest(phoneNumber, body string, receivedAt time.Time) (*services.IngestResult, error) {
	if m.ingestFn != nil {
		return m.ingestFn(phoneNumber, body, receivedAt)
	}
	return &services.IngestResult{Message: &models.SMSMessage{}}, nil
}

func (m *mockSMSService) GetReviewQueue(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.SMSMessage], error) {
	if m.getReviewQueueFn != nil {
		return m.getReviewQueueFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.SMSMessage{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockSMSService) GetMessageByID(userID, messageID uint) (*models.SMSMessage, error) {
	if m.getMessageByIDFn != nil {
		return m.getMessageByIDFn(userID, messageID)
	}
	return &models.SMSMessage{}, nil
}

func (m *mockSMSService) Classify(userID, messageID uint, categoryID int, transactionType models.TransactionType, amount int64, merchant, description string, date time.Time) (*models.Transaction, error) {
	if m.classifyFn != nil {
		return m.classifyFn(userID, messageID, categoryID, transactionType, amount, merchant, description, date)
	}
	return &models.Transaction{}, nil
}

func (m *mockSMSService) Ignore(userID, messageID uint) error {
	if m.ignoreFn != nil {
		return m.ignoreFn(userID, messageID)
	}
	return nil
}

var _ services.SMSServicer = (*mockSMSService)(nil)

func setupSMSRouter(handler *SMSHandler) *gin.Engine {
	r := gin.New()
	r.POST("/webhooks/sms", handler.Ingest)
	auth := r.Group("", injectUserID(1))
	auth.GET("/sms/review", handler.GetReviewQueue)
	auth.GET("/sms/:id", handler.GetMessage)
	auth.POST("/sms/:id/classify", handler.Classify)
	auth.POST("/sms/:id/ignore", handler.Ignore)
	return r
}

func TestSMSHandler_Ingest(t *testing.T) {
	t.Run("returns 202 with parse outcome", func(t *testing.T) {
		svc := &mockSMSService{
			ingestFn: func(phoneNumber, body string, _ time.Time) (*services.IngestResult, error) {
				return &services.IngestResult{
					Message: &models.SMSMessage{
						Base:        models.Base{ID: 1},
						PhoneNumber: phoneNumber,
						Body:        body,
						Status:      models.SMSStatusParsed,
						MatchedRule: "hdfc.upi_sent",
					},
					Transaction: &models.Transaction{
						Base:   models.Base{ID: 9},
						Amount: 54900,
						Source: models.TransactionSourceSMS,
					},
				}, nil
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/webhooks/sms",
			`{"phone_number":"+919876543210","text":"Sent Rs.549.00\nFrom HDFC Bank A/C x2953\nTo Blinkit\nOn 29/06/25"}`)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		message := result["message"].(map[string]interface{})
		if message["status"] != "parsed" {
			t.Errorf("expected parsed status, got %v", message["status"])
		}
		tx := result["transaction"].(map[string]interface{})
		if tx["amount"].(float64) != 54900 {
			t.Errorf("expected amount 54900, got %v", tx["amount"])
		}
	})

	t.Run("returns 202 without transaction when queued", func(t *testing.T) {
		svc := &mockSMSService{
			ingestFn: func(phoneNumber, body string, _ time.Time) (*services.IngestResult, error) {
				return &services.IngestResult{
					Message: &models.SMSMessage{
						Base:        models.Base{ID: 2},
						PhoneNumber: phoneNumber,
						Body:        body,
						Status:      models.SMSStatusReview,
					},
				}, nil
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/webhooks/sms",
			`{"phone_number":"+919876543210","text":"Hello, your OTP is 123456"}`)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if _, present := result["transaction"]; present {
			t.Error("expected no transaction for a queued message")
		}
	})

	t.Run("passes received_at to the service", func(t *testing.T) {
		var gotReceivedAt time.Time
		svc := &mockSMSService{
			ingestFn: func(_, _ string, receivedAt time.Time) (*services.IngestResult, error) {
				gotReceivedAt = receivedAt
				return &services.IngestResult{Message: &models.SMSMessage{}}, nil
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/webhooks/sms",
			`{"phone_number":"+919876543210","text":"hi","received_at":"2025-06-29T14:05:00Z"}`)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
		want := time.Date(2025, 6, 29, 14, 5, 0, 0, time.UTC)
		if !gotReceivedAt.Equal(want) {
			t.Errorf("expected received_at %v, got %v", want, gotReceivedAt)
		}
	})

	t.Run("returns 404 when phone not linked", func(t *testing.T) {
		svc := &mockSMSService{
			ingestFn: func(_, _ string, _ time.Time) (*services.IngestResult, error) {
				return nil, apperrors.ErrPhoneNotLinked
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/webhooks/sms",
			`{"phone_number":"+911111111111","text":"Sent Rs.100.00"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PHONE_NOT_LINKED")
	})

	t.Run("returns 400 on missing text", func(t *testing.T) {
		handler := NewSMSHandler(&mockSMSService{}, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/webhooks/sms", `{"phone_number":"+919876543210"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed phone", func(t *testing.T) {
		handler := NewSMSHandler(&mockSMSService{}, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/webhooks/sms", `{"phone_number":"bank","text":"hi"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSMSHandler_GetReviewQueue(t *testing.T) {
	t.Run("returns 200 with queue", func(t *testing.T) {
		svc := &mockSMSService{
			getReviewQueueFn: func(_ uint, page pagination.PageRequest) (*pagination.PageResponse[models.SMSMessage], error) {
				resp := pagination.NewPageResponse([]models.SMSMessage{
					{Base: models.Base{ID: 1}, Status: models.SMSStatusReview, Body: "unknown format"},
				}, page.Page, page.PageSize, 1)
				return &resp, nil
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "GET", "/sms/review", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 message, got %d", len(data))
		}
	})
}

func TestSMSHandler_GetMessage(t *testing.T) {
	t.Run("returns 200 with message", func(t *testing.T) {
		svc := &mockSMSService{
			getMessageByIDFn: func(_, messageID uint) (*models.SMSMessage, error) {
				return &models.SMSMessage{Base: models.Base{ID: messageID}, Body: "Sent Rs.549.00"}, nil
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "GET", "/sms/5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		message := result["message"].(map[string]interface{})
		if message["body"] != "Sent Rs.549.00" {
			t.Errorf("unexpected body: %v", message["body"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockSMSService{
			getMessageByIDFn: func(_, _ uint) (*models.SMSMessage, error) {
				return nil, apperrors.ErrSMSNotFound
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "GET", "/sms/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SMS_NOT_FOUND")
	})
}

func TestSMSHandler_Classify(t *testing.T) {
	t.Run("returns 201 with transaction", func(t *testing.T) {
		svc := &mockSMSService{
			classifyFn: func(_, messageID uint, categoryID int, transactionType models.TransactionType, amount int64, merchant, _ string, _ time.Time) (*models.Transaction, error) {
				return &models.Transaction{
					Base:       models.Base{ID: 11},
					CategoryID: categoryID,
					Type:       transactionType,
					Amount:     amount,
					Merchant:   merchant,
					Source:     models.TransactionSourceSMS,
				}, nil
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/sms/5/classify",
			`{"category_id":5,"type":"expense","amount":2000,"merchant":"Swiggy"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["merchant"] != "Swiggy" {
			t.Errorf("expected Swiggy, got %v", tx["merchant"])
		}
		if tx["source"] != "sms" {
			t.Errorf("expected sms source, got %v", tx["source"])
		}
	})

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		handler := NewSMSHandler(&mockSMSService{}, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/sms/5/classify",
			`{"category_id":99,"type":"expense","amount":2000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 when message is not reviewable", func(t *testing.T) {
		svc := &mockSMSService{
			classifyFn: func(_, _ uint, _ int, _ models.TransactionType, _ int64, _, _ string, _ time.Time) (*models.Transaction, error) {
				return nil, apperrors.ErrSMSNotReviewable
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/sms/5/classify",
			`{"category_id":5,"type":"expense","amount":2000}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SMS_NOT_REVIEWABLE")
	})

	t.Run("returns 404 when message not found", func(t *testing.T) {
		svc := &mockSMSService{
			classifyFn: func(_, _ uint, _ int, _ models.TransactionType, _ int64, _, _ string, _ time.Time) (*models.Transaction, error) {
				return nil, apperrors.ErrSMSNotFound
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/sms/999/classify",
			`{"category_id":5,"type":"expense","amount":2000}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSMSHandler_Ignore(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewSMSHandler(&mockSMSService{}, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/sms/5/ignore", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 409 when message is not reviewable", func(t *testing.T) {
		svc := &mockSMSService{
			ignoreFn: func(_, _ uint) error {
				return apperrors.ErrSMSNotReviewable
			},
		}
		handler := NewSMSHandler(svc, &mockAuditService{})
		r := setupSMSRouter(handler)

		rec := doRequest(r, "POST", "/sms/5/ignore", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}
