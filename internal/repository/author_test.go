package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/moderation/internal/models"
	"github.com/jonesrussell/moderation/internal/repository"
)

var authorColumns = []string{
	"id", "username", "email", "is_novice", "application_status",
	"application_date", "last_activity", "created_at", "updated_at",
}

func authorRow(id uuid.UUID, username string, appDate, lastActivity any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(authorColumns).AddRow(
		id, username, username+"@example.com", true, models.StatusPending,
		appDate, lastActivity, now, now,
	)
}

func TestAuthorRepository_GetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewAuthorRepository(db)
	id := uuid.New()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM authors WHERE username = \\$1").
			WithArgs("seyfert").
			WillReturnRows(authorRow(id, "seyfert", now.Add(-72*time.Hour), now.Add(-time.Hour)))

		author, err := repo.GetByUsername(context.Background(), "seyfert")
		require.NoError(t, err)
		assert.Equal(t, id, author.ID)
		assert.Equal(t, "seyfert", author.Username)
		assert.True(t, author.IsNovice)
		require.NotNil(t, author.ApplicationDate)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM authors WHERE username = \\$1").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(authorColumns))

		_, err := repo.GetByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorRepository_ListEligible(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewAuthorRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(authorColumns)
	for i, username := range []string{"first", "second"} {
		id := uuid.New()
		rows.AddRow(
			id, username, username+"@example.com", true, models.StatusPending,
			now.Add(-time.Duration(72-i)*time.Hour), now.Add(-time.Hour), now, now,
		)
	}

	mock.ExpectQuery("SELECT (.+) FROM authors WHERE is_novice = TRUE").
		WithArgs(models.StatusPending).
		WillReturnRows(rows)

	eligible, err := repo.ListEligible(context.Background())
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	assert.Equal(t, "first", eligible[0].Username)
	assert.Equal(t, "second", eligible[1].Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorRepository_NextPending(t *testing.T) {
	now := time.Now()
	threshold := now.Add(-24 * time.Hour)
	after := now.Add(-100 * time.Hour)

	tests := []struct {
		name     string
		recent   bool
		cmp      string
		rows     *sqlmock.Rows
		wantName string
	}{
		{
			name:     "recent tier uses strictly-above comparison",
			recent:   true,
			cmp:      "last_activity > \\$2",
			rows:     authorRow(uuid.New(), "next_active", now.Add(-90*time.Hour), now.Add(-time.Hour)),
			wantName: "next_active",
		},
		{
			name:     "stale tier uses strictly-below comparison",
			recent:   false,
			cmp:      "last_activity < \\$2",
			rows:     authorRow(uuid.New(), "next_stale", now.Add(-90*time.Hour), now.Add(-48*time.Hour)),
			wantName: "next_stale",
		},
		{
			name:   "no successor yields nil without error",
			recent: true,
			cmp:    "last_activity > \\$2",
			rows:   sqlmock.NewRows(authorColumns),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := repository.NewAuthorRepository(db)

			mock.ExpectQuery("SELECT (.+) FROM authors WHERE is_novice = TRUE (.+)" + tt.cmp + " (.+)application_date > \\$3").
				WithArgs(models.StatusPending, threshold, after).
				WillReturnRows(tt.rows)

			next, err := repo.NextPending(context.Background(), tt.recent, threshold, after)
			require.NoError(t, err)
			if tt.wantName == "" {
				assert.Nil(t, next)
			} else {
				require.NotNil(t, next)
				assert.Equal(t, tt.wantName, next.Username)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAuthorRepository_SetAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewAuthorRepository(db)
	id := uuid.New()

	t.Run("updates one row", func(t *testing.T) {
		mock.ExpectExec("UPDATE authors SET application_status = \\$2, is_novice = FALSE").
			WithArgs(id, models.StatusAccepted).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetAccepted(context.Background(), id))
	})

	t.Run("missing author", func(t *testing.T) {
		mock.ExpectExec("UPDATE authors SET application_status = \\$2, is_novice = FALSE").
			WithArgs(id, models.StatusAccepted).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetAccepted(context.Background(), id), models.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorRepository_SetOnHold(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewAuthorRepository(db)
	id := uuid.New()

	mock.ExpectExec("UPDATE authors SET application_status = \\$2, application_date = NULL").
		WithArgs(id, models.StatusOnHold).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetOnHold(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
