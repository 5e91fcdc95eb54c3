package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"paisabook/internal/logger"
	"paisabook/internal/models"
)

// auditService handles audit logging
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log writes an audit log entry. Failures are logged but never propagated;
// audit logging must not break the operation being audited.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("Failed to marshal audit changes",
				"error", err,
				"action", action,
			)
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("Failed to write audit log",
			"error", err,
			"user_id", userID,
			"action", action,
		)
	}
}
