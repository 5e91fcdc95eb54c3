package models

// AuditLog is one row of the sensitive-operation trail. Handlers record
// auth events (REGISTER, LOGIN), phone link changes (LINK_PHONE,
// UNLINK_PHONE, ACTIVATE_PHONE_LINK, DEACTIVATE_PHONE_LINK), manual data
// edits on transactions and budgets, and review-queue actions
// (CLASSIFY_SMS, IGNORE_SMS).
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `gorm:"type:text" json:"changes,omitempty"`
}
