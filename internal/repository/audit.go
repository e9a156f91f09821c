package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonesrussell/moderation/internal/models"
)

// AuditRepository appends records to the audit log. The log is append-only;
// no update or delete methods exist.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record appends an audit record. The record's ID and CreatedAt are set on
// success.
func (r *AuditRepository) Record(ctx context.Context, rec *models.AuditRecord) error {
	rec.CreatedAt = time.Now()

	query := `
		INSERT INTO audit_log (actor_id, subject_type, subject_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		rec.ActorID, rec.SubjectType, rec.SubjectID, rec.Description, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}
