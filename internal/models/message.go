package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is an in-app direct message. Decision notifications are composed
// from the configured system account to the applicant.
type Message struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SenderID    uuid.UUID `json:"sender_id" db:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id" db:"recipient_id"`
	Body        string    `json:"body" db:"body"`
	SentAt      time.Time `json:"sent_at" db:"sent_at"`
}
