package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/pagination"
	"paisabook/internal/services"
)

// --- mock notification service ---

type mockNotificationService struct {
	notifyFn               func(userID uint, kind models.NotificationKind, title, body string) (*models.Notification, error)
	getUserNotificationsFn func(userID uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	markReadFn             func(userID, notificationID uint) error
	markAllReadFn          func(userID uint) (int64, error)
	unreadCountFn          func(userID uint) (int64, error)
}

func (m *mockNotificationService) Notify(userID uint, kind models.NotificationKind, title, body string) (*models.Notification, error) {
	if m.notifyFn != nil {
		return m.notifyFn(userID, kind, title, body)
	}
	return &models.Notification{}, nil
}

func (m *mockNotificationService) GetUserNotifications(userID uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	if m.getUserNotificationsFn != nil {
		return m.getUserNotificationsFn(userID, page, unreadOnly)
	}
	resp := pagination.NewPageResponse([]models.Notification{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockNotificationService) MarkRead(userID, notificationID uint) error {
	if m.markReadFn != nil {
		return m.markReadFn(userID, notificationID)
	}
	return nil
}

func (m *mockNotificationService) MarkAllRead(userID uint) (int64, error) {
	if m.markAllReadFn != nil {
		return m.markAllReadFn(userID)
	}
	return 0, nil
}

func (m *mockNotificationService) UnreadCount(userID uint) (int64, error) {
	if m.unreadCountFn != nil {
		return m.unreadCountFn(userID)
	}
	return 0, nil
}

var _ services.NotificationServicer = (*mockNotificationService)(nil)

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/notifications", handler.GetNotifications)
	auth.GET("/notifications/unread-count", handler.GetUnreadCount)
	auth.POST("/notifications/:id/read", handler.MarkRead)
	auth.POST("/notifications/read-all", handler.MarkAllRead)
	return r
}

func TestNotificationHandler_GetNotifications(t *testing.T) {
	t.Run("returns 200 with notifications", func(t *testing.T) {
		svc := &mockNotificationService{
			getUserNotificationsFn: func(_ uint, page pagination.PageRequest, _ bool) (*pagination.PageResponse[models.Notification], error) {
				resp := pagination.NewPageResponse([]models.Notification{
					{Base: models.Base{ID: 1}, Kind: models.NotificationKindBudgetAlert, Title: "Budget exceeded"},
					{Base: models.Base{ID: 2}, Kind: models.NotificationKindSMSReview, Title: "Message needs review"},
				}, page.Page, page.PageSize, 2)
				return &resp, nil
			},
		}
		handler := NewNotificationHandler(svc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "GET", "/notifications", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(data))
		}
	})

	t.Run("passes unread_only filter", func(t *testing.T) {
		var gotUnreadOnly bool
		svc := &mockNotificationService{
			getUserNotificationsFn: func(_ uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
				gotUnreadOnly = unreadOnly
				resp := pagination.NewPageResponse([]models.Notification{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewNotificationHandler(svc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "GET", "/notifications?unread_only=true", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotUnreadOnly {
			t.Error("expected unread_only to be passed through")
		}
	})

	t.Run("returns 400 on invalid unread_only", func(t *testing.T) {
		handler := NewNotificationHandler(&mockNotificationService{})
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "GET", "/notifications?unread_only=maybe", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestNotificationHandler_GetUnreadCount(t *testing.T) {
	t.Run("returns 200 with count", func(t *testing.T) {
		svc := &mockNotificationService{
			unreadCountFn: func(_ uint) (int64, error) {
				return 3, nil
			},
		}
		handler := NewNotificationHandler(svc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "GET", "/notifications/unread-count", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["count"].(float64) != 3 {
			t.Errorf("expected count 3, got %v", result["count"])
		}
	})
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotID uint
		svc := &mockNotificationService{
			markReadFn: func(_, notificationID uint) error {
				gotID = notificationID
				return nil
			},
		}
		handler := NewNotificationHandler(svc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/7/read", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != 7 {
			t.Errorf("expected notification ID 7, got %d", gotID)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockNotificationService{
			markReadFn: func(_, _ uint) error {
				return apperrors.ErrNotificationNotFound
			},
		}
		handler := NewNotificationHandler(svc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/999/read", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOTIFICATION_NOT_FOUND")
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	t.Run("returns 200 with updated count", func(t *testing.T) {
		svc := &mockNotificationService{
			markAllReadFn: func(_ uint) (int64, error) {
				return 5, nil
			},
		}
		handler := NewNotificationHandler(svc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/read-all", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["updated"].(float64) != 5 {
			t.Errorf("expected 5 updated, got %v", result["updated"])
		}
	})
}
