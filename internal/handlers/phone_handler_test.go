package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/services"
)

// --- mock phone link service ---

type mockPhoneLinkService struct {
	createLinkFn     func(userID uint, phoneNumber, label string) (*models.PhoneLink, error)
	getUserLinksFn   func(userID uint) ([]models.PhoneLink, error)
	getLinkByPhoneFn func(phoneNumber string) (*models.PhoneLink, error)
	setLinkActiveFn  func(userID, linkID uint, active bool) (*models.PhoneLink, error)
	deleteLinkFn     func(userID, linkID uint) error
	recordActivityFn func(phoneNumber string) error
}

func (m *mockPhoneLinkService) CreateLink(userID uint, phoneNumber, label string) (*models.PhoneLink, error) {
	if m.createLinkFn != nil {
		return m.createLinkFn(userID, phoneNumber, label)
	}
	return &models.PhoneLink{}, nil
}

func (m *mockPhoneLinkService) GetUserLinks(userID uint) ([]models.PhoneLink, error) {
	if m.getUserLinksFn != nil {
		return m.getUserLinksFn(userID)
	}
	return nil, nil
}

func (m *mockPhoneLinkService) GetLinkByPhone(phoneNumber string) (*models.PhoneLink, error) {
	if m.getLinkByPhoneFn != nil {
		return m.getLinkByPhoneFn(phoneNumber)
	}
	return &models.PhoneLink{}, nil
}

func (m *mockPhoneLinkService) SetLinkActive(userID, linkID uint, active bool) (*models.PhoneLink, error) {
	if m.setLinkActiveFn != nil {
		return m.setLinkActiveFn(userID, linkID, active)
	}
	return &models.PhoneLink{}, nil
}

func (m *mockPhoneLinkService) DeleteLink(userID, linkID uint) error {
	if m.deleteLinkFn != nil {
		return m.deleteLinkFn(userID, linkID)
	}
	return nil
}

func (m *mockPhoneLinkService) RecordActivity(phoneNumber string) error {
	if m.recordActivityFn != nil {
		return m.recordActivityFn(phoneNumber)
	}
	return nil
}

var _ services.PhoneLinkServicer = (*mockPhoneLinkService)(nil)

func setupPhoneLinkRouter(handler *PhoneLinkHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/phone-links", handler.CreateLink)
	auth.GET("/phone-links", handler.GetLinks)
	auth.POST("/phone-links/:id/activate", handler.ActivateLink)
	auth.POST("/phone-links/:id/deactivate", handler.DeactivateLink)
	auth.DELETE("/phone-links/:id", handler.DeleteLink)
	return r
}

func TestPhoneLinkHandler_CreateLink(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockPhoneLinkService{
			createLinkFn: func(userID uint, phoneNumber, label string) (*models.PhoneLink, error) {
				return &models.PhoneLink{
					Base:        models.Base{ID: 1},
					UserID:      userID,
					PhoneNumber: phoneNumber,
					Label:       label,
					IsActive:    true,
				}, nil
			},
		}
		handler := NewPhoneLinkHandler(svc, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "POST", "/phone-links",
			`{"phone_number":"+919876543210","label":"Personal"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		link := result["link"].(map[string]interface{})
		if link["phone_number"] != "+919876543210" {
			t.Errorf("expected +919876543210, got %v", link["phone_number"])
		}
		if link["is_active"] != true {
			t.Error("expected link to be active")
		}
	})

	t.Run("accepts number without plus", func(t *testing.T) {
		handler := NewPhoneLinkHandler(&mockPhoneLinkService{}, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "POST", "/phone-links", `{"phone_number":"919876543210"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on malformed number", func(t *testing.T) {
		handler := NewPhoneLinkHandler(&mockPhoneLinkService{}, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "POST", "/phone-links", `{"phone_number":"not-a-number"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing number", func(t *testing.T) {
		handler := NewPhoneLinkHandler(&mockPhoneLinkService{}, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "POST", "/phone-links", `{"label":"Personal"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate number", func(t *testing.T) {
		svc := &mockPhoneLinkService{
			createLinkFn: func(_ uint, _, _ string) (*models.PhoneLink, error) {
				return nil, apperrors.ErrDuplicatePhoneLink
			},
		}
		handler := NewPhoneLinkHandler(svc, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "POST", "/phone-links", `{"phone_number":"+919876543210"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_PHONE_LINK")
	})
}

func TestPhoneLinkHandler_GetLinks(t *testing.T) {
	t.Run("returns 200 with links", func(t *testing.T) {
		svc := &mockPhoneLinkService{
			getUserLinksFn: func(userID uint) ([]models.PhoneLink, error) {
				return []models.PhoneLink{
					{Base: models.Base{ID: 1}, UserID: userID, PhoneNumber: "+919876543210"},
					{Base: models.Base{ID: 2}, UserID: userID, PhoneNumber: "+919876543211"},
				}, nil
			},
		}
		handler := NewPhoneLinkHandler(svc, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "GET", "/phone-links", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		links := result["links"].([]interface{})
		if len(links) != 2 {
			t.Fatalf("expected 2 links, got %d", len(links))
		}
	})
}

func TestPhoneLinkHandler_SetActive(t *testing.T) {
	t.Run("activate passes true", func(t *testing.T) {
		var gotActive bool
		svc := &mockPhoneLinkService{
			setLinkActiveFn: func(_, linkID uint, active bool) (*models.PhoneLink, error) {
				gotActive = active
				return &models.PhoneLink{Base: models.Base{ID: linkID}, IsActive: active}, nil
			},
		}
		handler := NewPhoneLinkHandler(svc, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "POST", "/phone-links/1/activate", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotActive {
			t.Error("expected active=true")
		}
	})

	t.Run("deactivate passes false", func(t *testing.T) {
		gotActive := true
		svc := &mockPhoneLinkService{
			setLinkActiveFn: func(_, linkID uint, active bool) (*models.PhoneLink, error) {
				gotActive = active
				return &models.PhoneLink{Base: models.Base{ID: linkID}, IsActive: active}, nil
			},
		}
		handler := NewPhoneLinkHandler(svc, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "POST", "/phone-links/1/deactivate", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotActive {
			t.Error("expected active=false")
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockPhoneLinkService{
			setLinkActiveFn: func(_, _ uint, _ bool) (*models.PhoneLink, error) {
				return nil, apperrors.ErrPhoneLinkNotFound
			},
		}
		handler := NewPhoneLinkHandler(svc, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "POST", "/phone-links/999/activate", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PHONE_LINK_NOT_FOUND")
	})
}

func TestPhoneLinkHandler_DeleteLink(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewPhoneLinkHandler(&mockPhoneLinkService{}, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "DELETE", "/phone-links/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockPhoneLinkService{
			deleteLinkFn: func(_, _ uint) error {
				return apperrors.ErrPhoneLinkNotFound
			},
		}
		handler := NewPhoneLinkHandler(svc, &mockAuditService{})
		r := setupPhoneLinkRouter(handler)

		rec := doRequest(r, "DELETE", "/phone-links/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
