// Package repository provides PostgreSQL persistence for authors, entries,
// messages, and the audit log.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/moderation/internal/models"
)

// authorSelectList is the column list for SELECT on authors (single source
// for schema changes).
const authorSelectList = `id, username, email, is_novice, application_status,
		application_date, last_activity, created_at, updated_at`

// AuthorRepository manages author rows in PostgreSQL.
type AuthorRepository struct {
	db *sql.DB
}

// NewAuthorRepository creates a new repository.
func NewAuthorRepository(db *sql.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// GetByUsername returns the author with the given username, or models.ErrNotFound.
func (r *AuthorRepository) GetByUsername(ctx context.Context, username string) (*models.Author, error) {
	query := `SELECT ` + authorSelectList + ` FROM authors WHERE username = $1`

	author, err := scanAuthor(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get author by username: %w", err)
	}
	return author, nil
}

// ListEligible returns every author eligible for the review queue: novice
// flag set, application pending, and a recorded last activity. Rows come
// back ordered by application date ascending; activity-tier ranking is
// applied by the review package.
func (r *AuthorRepository) ListEligible(ctx context.Context) ([]models.Author, error) {
	query := `
		SELECT ` + authorSelectList + `
		FROM authors
		WHERE is_novice = TRUE
		  AND application_status = $1
		  AND last_activity IS NOT NULL
		ORDER BY application_date ASC`

	rows, err := r.db.QueryContext(ctx, query, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list eligible authors: %w", err)
	}
	defer rows.Close()

	return scanAuthorRows(rows)
}

// NextPending returns the earliest pending novice (by application date)
// whose application date is strictly after the given one. With recent true
// the search is restricted to authors whose last activity is strictly above
// the threshold, otherwise strictly below it. Returns nil when no such
// author exists.
func (r *AuthorRepository) NextPending(ctx context.Context, recent bool, threshold, after time.Time) (*models.Author, error) {
	cmp := "<"
	if recent {
		cmp = ">"
	}

	// cmp is one of two literals, never user input
	query := `
		SELECT ` + authorSelectList + `
		FROM authors
		WHERE is_novice = TRUE
		  AND application_status = $1
		  AND last_activity ` + cmp + ` $2
		  AND application_date > $3
		ORDER BY application_date ASC
		LIMIT 1`

	author, err := scanAuthor(r.db.QueryRowContext(ctx, query, models.StatusPending, threshold, after))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("next pending author: %w", err)
	}
	return author, nil
}

// SetAccepted marks the author's application accepted and clears the novice
// flag. Returns models.ErrNotFound when the author does not exist.
func (r *AuthorRepository) SetAccepted(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE authors
		SET application_status = $2,
		    is_novice = FALSE,
		    updated_at = NOW()
		WHERE id = $1`

	if err := r.execExpectOneRow(ctx, query, id, models.StatusAccepted); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("set accepted: %w", err)
	}
	return nil
}

// SetOnHold marks the author's application on hold and clears the
// application date, taking the author out of the queue until they re-apply.
// Returns models.ErrNotFound when the author does not exist.
func (r *AuthorRepository) SetOnHold(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE authors
		SET application_status = $2,
		    application_date = NULL,
		    updated_at = NOW()
		WHERE id = $1`

	if err := r.execExpectOneRow(ctx, query, id, models.StatusOnHold); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("set on hold: %w", err)
	}
	return nil
}

// execExpectOneRow runs an exec and returns models.ErrNotFound when no row was
// affected.
func (r *AuthorRepository) execExpectOneRow(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return fmt.Errorf("get affected rows: %w", rowsErr)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan code.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row rowScanner) (*models.Author, error) {
	var author models.Author
	err := row.Scan(
		&author.ID,
		&author.Username,
		&author.Email,
		&author.IsNovice,
		&author.ApplicationStatus,
		&author.ApplicationDate,
		&author.LastActivity,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func scanAuthorRows(rows *sql.Rows) ([]models.Author, error) {
	authors := make([]models.Author, 0)
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, *author)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors: %w", err)
	}
	return authors, nil
}
