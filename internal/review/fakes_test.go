package review_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/moderation/internal/models"
)

// fakeAuthorStore is an in-memory AuthorStore. Eligible holds queue
// candidates; Others holds authors that exist but are not queue-eligible.
type fakeAuthorStore struct {
	eligible []*models.Author
	others   []*models.Author

	acceptedIDs []uuid.UUID
	onHoldIDs   []uuid.UUID
}

func (f *fakeAuthorStore) all() []*models.Author {
	return append(append([]*models.Author{}, f.eligible...), f.others...)
}

func (f *fakeAuthorStore) GetByUsername(_ context.Context, username string) (*models.Author, error) {
	for _, a := range f.all() {
		if a.Username == username {
			copied := *a
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeAuthorStore) ListEligible(context.Context) ([]models.Author, error) {
	out := make([]models.Author, 0, len(f.eligible))
	for _, a := range f.eligible {
		out = append(out, *a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].ApplicationDate, out[j].ApplicationDate
		if di == nil || dj == nil {
			return dj == nil
		}
		return di.Before(*dj)
	})
	return out, nil
}

func (f *fakeAuthorStore) NextPending(_ context.Context, recent bool, threshold, after time.Time) (*models.Author, error) {
	var best *models.Author
	for _, a := range f.eligible {
		if a.LastActivity == nil || a.ApplicationDate == nil {
			continue
		}
		if recent && !a.LastActivity.After(threshold) {
			continue
		}
		if !recent && !a.LastActivity.Before(threshold) {
			continue
		}
		if !a.ApplicationDate.After(after) {
			continue
		}
		if best == nil || a.ApplicationDate.Before(*best.ApplicationDate) {
			best = a
		}
	}
	if best == nil {
		return nil, nil
	}
	copied := *best
	return &copied, nil
}

func (f *fakeAuthorStore) SetAccepted(_ context.Context, id uuid.UUID) error {
	for _, a := range f.all() {
		if a.ID == id {
			a.ApplicationStatus = models.StatusAccepted
			a.IsNovice = false
			f.acceptedIDs = append(f.acceptedIDs, id)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeAuthorStore) SetOnHold(_ context.Context, id uuid.UUID) error {
	for _, a := range f.all() {
		if a.ID == id {
			a.ApplicationStatus = models.StatusOnHold
			a.ApplicationDate = nil
			f.onHoldIDs = append(f.onHoldIDs, id)
			return nil
		}
	}
	return models.ErrNotFound
}

// fakeEntryStore is an in-memory EntryStore.
type fakeEntryStore struct {
	entries    []models.Entry
	purgeCalls int
}

func (f *fakeEntryStore) ListPublishedByAuthor(_ context.Context, authorID uuid.UUID, limit int) ([]models.Entry, error) {
	out := make([]models.Entry, 0)
	for _, e := range f.entries {
		if e.AuthorID == authorID && e.IsPublished {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEntryStore) PurgePublishedByAuthor(_ context.Context, authorID uuid.UUID) (int64, error) {
	f.purgeCalls++
	kept := f.entries[:0]
	var deleted int64
	for _, e := range f.entries {
		if e.AuthorID == authorID && e.IsPublished {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return deleted, nil
}

// fakeMessageStore records composed messages.
type fakeMessageStore struct {
	composed []models.Message
}

func (f *fakeMessageStore) Compose(_ context.Context, senderID, recipientID uuid.UUID, body string) (*models.Message, error) {
	msg := models.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		SentAt:      time.Now(),
	}
	f.composed = append(f.composed, msg)
	return &msg, nil
}

// fakeAuditStore records appended audit records.
type fakeAuditStore struct {
	records []models.AuditRecord
}

func (f *fakeAuditStore) Record(_ context.Context, rec *models.AuditRecord) error {
	rec.ID = int64(len(f.records) + 1)
	rec.CreatedAt = time.Now()
	f.records = append(f.records, *rec)
	return nil
}

// fakeMailer records sent mail and can be forced to fail.
type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent    []sentMail
	failErr error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// newNovice builds a pending novice applicant.
func newNovice(username string, lastActivity, applicationDate time.Time) *models.Author {
	la := lastActivity
	ad := applicationDate
	return &models.Author{
		ID:                uuid.New(),
		Username:          username,
		Email:             username + "@example.com",
		IsNovice:          true,
		ApplicationStatus: models.StatusPending,
		ApplicationDate:   &ad,
		LastActivity:      &la,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
}
