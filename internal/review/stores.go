// Package review implements the novice application moderation workflow:
// queue ranking, review-window validation, and the accept/decline decision
// transition with its notification and audit side effects.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/moderation/internal/models"
)

// AuthorStore is the author persistence the workflow depends on.
type AuthorStore interface {
	GetByUsername(ctx context.Context, username string) (*models.Author, error)
	ListEligible(ctx context.Context) ([]models.Author, error)
	NextPending(ctx context.Context, recent bool, threshold, after time.Time) (*models.Author, error)
	SetAccepted(ctx context.Context, id uuid.UUID) error
	SetOnHold(ctx context.Context, id uuid.UUID) error
}

// EntryStore is the entry persistence the workflow depends on.
type EntryStore interface {
	ListPublishedByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Entry, error)
	PurgePublishedByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
}

// MessageStore composes in-app direct messages.
type MessageStore interface {
	Compose(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*models.Message, error)
}

// AuditStore appends audit records.
type AuditStore interface {
	Record(ctx context.Context, rec *models.AuditRecord) error
}

// Mailer sends applicant-facing email. A send failure fails the decision.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
