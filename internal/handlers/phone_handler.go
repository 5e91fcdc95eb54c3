package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/services"
)

// PhoneLinkHandler handles phone link management requests.
type PhoneLinkHandler struct {
	phoneLinkService services.PhoneLinkServicer
	auditService     services.AuditServicer
}

// NewPhoneLinkHandler creates a new PhoneLinkHandler.
func NewPhoneLinkHandler(phoneLinkService services.PhoneLinkServicer, auditService services.AuditServicer) *PhoneLinkHandler {
	return &PhoneLinkHandler{phoneLinkService: phoneLinkService, auditService: auditService}
}

// CreatePhoneLinkRequest represents the request payload for linking a phone number.
type CreatePhoneLinkRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,msisdn"`
	Label       string `json:"label" binding:"max=100"`
}

// CreateLink links a phone number to the authenticated user
// @Summary     Link a phone number
// @Description Link a sender phone number so its forwarded bank SMS are attributed to this user
// @Tags        phone-links
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePhoneLinkRequest true "Phone link details"
// @Success     201 {object} models.PhoneLink "Phone link created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Phone number already linked"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phone-links [post]
func (h *PhoneLinkHandler) CreateLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePhoneLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	link, err := h.phoneLinkService.CreateLink(userID, req.PhoneNumber, req.Label)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "LINK_PHONE", "phone_link", link.ID, c.ClientIP(),
		map[string]interface{}{"phone_number": req.PhoneNumber})

	c.JSON(http.StatusCreated, gin.H{"link": link})
}

// GetLinks lists the authenticated user's phone links
// @Summary     Get phone links
// @Description Get all phone numbers linked to the authenticated user
// @Tags        phone-links
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} object "Phone links"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phone-links [get]
func (h *PhoneLinkHandler) GetLinks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	links, err := h.phoneLinkService.GetUserLinks(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

// ActivateLink resumes SMS ingestion for a paused phone link
// @Summary     Activate phone link
// @Description Resume ingesting SMS from a paused phone link
// @Tags        phone-links
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Phone link ID"
// @Success     200 {object} models.PhoneLink "Updated phone link"
// @Failure     400 {object} ErrorResponse "Invalid link ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phone link not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phone-links/{id}/activate [post]
func (h *PhoneLinkHandler) ActivateLink(c *gin.Context) {
	h.setActive(c, true, "ACTIVATE_PHONE_LINK")
}

// DeactivateLink pauses SMS ingestion for a phone link
// @Summary     Deactivate phone link
// @Description Pause ingesting SMS from a phone link without deleting it
// @Tags        phone-links
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Phone link ID"
// @Success     200 {object} models.PhoneLink "Updated phone link"
// @Failure     400 {object} ErrorResponse "Invalid link ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phone link not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phone-links/{id}/deactivate [post]
func (h *PhoneLinkHandler) DeactivateLink(c *gin.Context) {
	h.setActive(c, false, "DEACTIVATE_PHONE_LINK")
}

func (h *PhoneLinkHandler) setActive(c *gin.Context, active bool, action string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	linkID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	link, err := h.phoneLinkService.SetLinkActive(userID, linkID, active)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, "phone_link", linkID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// DeleteLink removes a phone link
// @Summary     Delete phone link
// @Description Unlink a phone number. Transactions already created from its messages are kept.
// @Tags        phone-links
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Phone link ID"
// @Success     200 {object} MessageResponse "Phone link deleted"
// @Failure     400 {object} ErrorResponse "Invalid link ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phone link not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phone-links/{id} [delete]
func (h *PhoneLinkHandler) DeleteLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	linkID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.phoneLinkService.DeleteLink(userID, linkID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNLINK_PHONE", "phone_link", linkID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Phone link deleted successfully"})
}
