package models

import "time"

// PhoneLink maps a sender phone number to a paisabook user. Inbound bank SMS
// forwarded from that number are attributed to the linked user. A phone number
// can be linked to at most one user at a time.
type PhoneLink struct {
	Base
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	PhoneNumber   string     `gorm:"uniqueIndex;size:20;not null" json:"phone_number"`
	Label         string     `gorm:"size:100" json:"label,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	MessageCount  int64      `gorm:"default:0" json:"message_count"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
