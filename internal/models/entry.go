package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a piece of content written by an author. Only published entries
// are visible to reviewers and only published entries are purged when an
// application is declined.
type Entry struct {
	ID          int64     `json:"id" db:"id"`
	AuthorID    uuid.UUID `json:"author_id" db:"author_id"`
	Content     string    `json:"content" db:"content"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
