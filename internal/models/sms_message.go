package models

import "time"

// SMSStatus tracks an inbound message through the ingest pipeline.
type SMSStatus string

const (
	// SMSStatusParsed means the parser produced a transaction automatically.
	SMSStatusParsed SMSStatus = "parsed"
	// SMSStatusReview means no pattern matched; the message waits in the
	// manual classification queue.
	SMSStatusReview SMSStatus = "review"
	// SMSStatusClassified means a human turned the queued message into a
	// transaction.
	SMSStatusClassified SMSStatus = "classified"
	// SMSStatusIgnored means a human dismissed the queued message.
	SMSStatusIgnored SMSStatus = "ignored"
)

// SMSMessage is the audit record for one inbound bank SMS. The raw body,
// sender number, and matched rule are retained verbatim so parses can be
// debugged and unmatched messages can be classified by hand later.
type SMSMessage struct {
	Base
	UID         string     `gorm:"uniqueIndex;size:36;not null" json:"uid"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	PhoneNumber string     `gorm:"size:20;not null" json:"phone_number"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Status      SMSStatus  `gorm:"not null;index" json:"status"`
	MatchedRule string     `gorm:"size:64" json:"matched_rule,omitempty"`
	ReceivedAt  time.Time  `gorm:"not null" json:"received_at"`
	ParsedAt    *time.Time `json:"parsed_at,omitempty"`

	TransactionID *uint        `json:"transaction_id,omitempty"`
	Transaction   *Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
}
