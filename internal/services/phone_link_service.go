package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
)

// phoneLinkService manages the phone number to user mapping used to
// attribute inbound SMS.
type phoneLinkService struct {
	db *gorm.DB
}

// NewPhoneLinkService creates a new PhoneLinkServicer.
func NewPhoneLinkService(db *gorm.DB) PhoneLinkServicer {
	return &phoneLinkService{db: db}
}

// CreateLink links a sender phone number to a user. A phone number can be
// linked to at most one user, active or not.
func (s *phoneLinkService) CreateLink(userID uint, phoneNumber, label string) (*models.PhoneLink, error) {
	var existing models.PhoneLink
	if err := s.db.Where("phone_number = ?", phoneNumber).First(&existing).Error; err == nil {
		return nil, apperrors.ErrDuplicatePhoneLink
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	link := &models.PhoneLink{
		UserID:      userID,
		PhoneNumber: phoneNumber,
		Label:       label,
		IsActive:    true,
	}

	if err := s.db.Create(link).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return link, nil
}

// GetUserLinks retrieves all phone links for a user.
func (s *phoneLinkService) GetUserLinks(userID uint) ([]models.PhoneLink, error) {
	var links []models.PhoneLink
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&links).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return links, nil
}

// GetLinkByPhone retrieves the active link for a phone number.
func (s *phoneLinkService) GetLinkByPhone(phoneNumber string) (*models.PhoneLink, error) {
	var link models.PhoneLink
	if err := s.db.Where("phone_number = ? AND is_active = ?", phoneNumber, true).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPhoneLinkNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}

// SetLinkActive pauses or resumes ingestion for a link.
func (s *phoneLinkService) SetLinkActive(userID, linkID uint, active bool) (*models.PhoneLink, error) {
	link, err := s.getLinkByID(userID, linkID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(link).Update("is_active", active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return link, nil
}

// DeleteLink removes a phone link. The delete is hard, not soft: the unique
// index on phone_number would otherwise block relinking the number later.
// Transactions already created from its messages are kept.
func (s *phoneLinkService) DeleteLink(userID, linkID uint) error {
	link, err := s.getLinkByID(userID, linkID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(link).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RecordActivity bumps the message counter and last-seen time for a phone
// number after a message from it is ingested.
func (s *phoneLinkService) RecordActivity(phoneNumber string) error {
	err := s.db.Model(&models.PhoneLink{}).
		Where("phone_number = ?", phoneNumber).
		Updates(map[string]interface{}{
			"last_message_at": time.Now(),
			"message_count":   gorm.Expr("message_count + 1"),
		}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *phoneLinkService) getLinkByID(userID, linkID uint) (*models.PhoneLink, error) {
	var link models.PhoneLink
	if err := s.db.Where("id = ? AND user_id = ?", linkID, userID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPhoneLinkNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}
