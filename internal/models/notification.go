package models

import "time"

// NotificationKind distinguishes the events that raise in-app notifications.
type NotificationKind string

const (
	NotificationKindBudgetAlert NotificationKind = "budget_alert"
	NotificationKindSMSReview   NotificationKind = "sms_review"
)

// Notification is an in-app notification for a user. Delivery channels
// (email, messaging) are outside this service; rows here back the
// notifications API.
type Notification struct {
	Base
	UserID uint             `gorm:"not null;index" json:"user_id"`
	Kind   NotificationKind `gorm:"not null" json:"kind"`
	Title  string           `gorm:"not null" json:"title"`
	Body   string           `gorm:"size:500" json:"body"`
	ReadAt *time.Time       `json:"read_at,omitempty"`
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
