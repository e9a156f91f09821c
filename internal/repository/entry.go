package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonesrussell/moderation/internal/models"
)

// EntryRepository manages entry rows in PostgreSQL.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new repository.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// ListPublishedByAuthor returns the author's published entries in creation
// order (id ascending), up to limit.
func (r *EntryRepository) ListPublishedByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Entry, error) {
	query := `
		SELECT id, author_id, content, is_published, created_at
		FROM entries
		WHERE author_id = $1
		  AND is_published = TRUE
		ORDER BY id ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list published entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.Entry, 0)
	for rows.Next() {
		var entry models.Entry
		scanErr := rows.Scan(
			&entry.ID,
			&entry.AuthorID,
			&entry.Content,
			&entry.IsPublished,
			&entry.CreatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("scan entry: %w", scanErr)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// PurgePublishedByAuthor is a force bulk purge: it deletes all of the
// author's published entries in a single DELETE. Per-entry removal side
// effects (vote cleanup, notification fan-out) that individual deletion
// paths trigger do not run here. Returns the number of rows deleted.
func (r *EntryRepository) PurgePublishedByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM entries
		WHERE author_id = $1
		  AND is_published = TRUE`

	result, err := r.db.ExecContext(ctx, query, authorID)
	if err != nil {
		return 0, fmt.Errorf("purge published entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get affected rows: %w", err)
	}
	return deleted, nil
}
