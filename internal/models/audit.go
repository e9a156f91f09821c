package models

import (
	"time"

	"github.com/google/uuid"
)

// SubjectAuthor is the subject type recorded for audit entries that
// reference an author.
const SubjectAuthor = "author"

// AuditRecord is an append-only log entry for an administrative action.
// Records are created once and never mutated or deleted.
type AuditRecord struct {
	ID          int64     `json:"id" db:"id"`
	ActorID     uuid.UUID `json:"actor_id" db:"actor_id"`
	SubjectType string    `json:"subject_type" db:"subject_type"`
	SubjectID   uuid.UUID `json:"subject_id" db:"subject_id"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
