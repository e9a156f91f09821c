package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/moderation/internal/models"
)

// MessageRepository manages direct messages in PostgreSQL.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Compose stores a direct message from sender to recipient and returns it.
func (r *MessageRepository) Compose(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*models.Message, error) {
	msg := models.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		SentAt:      time.Now(),
	}

	query := `
		INSERT INTO messages (id, sender_id, recipient_id, body, sent_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.SenderID, msg.RecipientID, msg.Body, msg.SentAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}
