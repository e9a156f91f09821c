package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonesrussell/moderation/internal/logger"
	"github.com/jonesrussell/moderation/internal/models"
)

const (
	// ReviewWindow is how many positions from the front of the queue are
	// open for individual review. Applicants ranked beyond it cannot be
	// opened, which stops reviewers from cherry-picking far-down
	// applications.
	ReviewWindow = 10

	// EntryPreview is how many of the applicant's published entries a
	// reviewer sees on the detail view.
	EntryPreview = 10
)

// Actor identifies the admin performing a decision; audit records are
// attributed to it.
type Actor struct {
	ID       uuid.UUID
	Username string
}

// QueuePage is the queue overview: the reviewable front of the queue plus
// the total eligible count.
type QueuePage struct {
	Novices []models.Author `json:"novices"`
	Total   int             `json:"total"`
}

// Detail is the single-applicant review view.
type Detail struct {
	Novice  models.Author  `json:"novice"`
	Entries []models.Entry `json:"entries"`
	// Next is the username of the applicant to review after this one, or
	// empty when the queue holds no successor.
	Next string `json:"next,omitempty"`
}

// Decision is the outcome of an accept or decline transition.
type Decision struct {
	Operation string `json:"operation"`
	Username  string `json:"username"`
	Summary   string `json:"summary"`
}

// Service orchestrates the review workflow. The decision transition is not
// wrapped in a single transaction: a failure mid-sequence (say the mail
// server rejects the send after the status update committed) leaves the
// earlier writes in place and surfaces the error.
type Service struct {
	queue         *QueueBuilder
	authors       AuthorStore
	entries       EntryStore
	messages      MessageStore
	audit         AuditStore
	mailer        Mailer
	systemAccount uuid.UUID
	log           logger.Logger
}

// NewService creates a review Service. systemAccount is the author the
// decision messages are composed from.
func NewService(
	queue *QueueBuilder,
	authors AuthorStore,
	entries EntryStore,
	messages MessageStore,
	audit AuditStore,
	mailer Mailer,
	systemAccount uuid.UUID,
	log logger.Logger,
) *Service {
	return &Service{
		queue:         queue,
		authors:       authors,
		entries:       entries,
		messages:      messages,
		audit:         audit,
		mailer:        mailer,
		systemAccount: systemAccount,
		log:           log,
	}
}

// QueuePage returns the first ReviewWindow applicants plus the total
// eligible count.
func (s *Service) QueuePage(ctx context.Context) (*QueuePage, error) {
	ranked, err := s.queue.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	top := ranked
	if len(top) > ReviewWindow {
		top = top[:ReviewWindow]
	}

	return &QueuePage{Novices: top, Total: len(ranked)}, nil
}

// Lookup validates that the applicant is currently reviewable and returns
// the detail view: the first EntryPreview published entries and the next
// applicant's username.
func (s *Service) Lookup(ctx context.Context, username string) (*Detail, error) {
	novice, err := s.eligibleForReview(ctx, username)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListPublishedByAuthor(ctx, novice.ID, EntryPreview)
	if err != nil {
		return nil, fmt.Errorf("list applicant entries: %w", err)
	}

	next, err := s.nextUsername(ctx, novice)
	if err != nil {
		return nil, err
	}

	return &Detail{Novice: *novice, Entries: entries, Next: next}, nil
}

// Decide executes an accept or decline transition for the applicant. Any
// other operation token returns ErrInvalidOperation without touching state.
// Eligibility is re-checked against the live queue; two admins racing on
// the same applicant may both pass the check, which is an accepted
// inconsistency window rather than a guaranteed mutual exclusion.
func (s *Service) Decide(ctx context.Context, actor Actor, username, operation string) (*Decision, error) {
	novice, err := s.eligibleForReview(ctx, username)
	if err != nil {
		return nil, err
	}

	switch operation {
	case OpAccept:
		return s.accept(ctx, actor, novice)
	case OpDecline:
		return s.decline(ctx, actor, novice)
	default:
		return nil, ErrInvalidOperation
	}
}

// eligibleForReview resolves the applicant and enforces the review-window
// policy: the applicant must be in the queue and within its first
// ReviewWindow positions.
func (s *Service) eligibleForReview(ctx context.Context, username string) (*models.Author, error) {
	novice, err := s.authors.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	ranked, err := s.queue.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	pos := -1
	for i := range ranked {
		if ranked[i].ID == novice.ID {
			pos = i
			break
		}
	}

	if pos < 0 {
		return nil, ErrNotInQueue
	}
	if pos >= ReviewWindow {
		return nil, ErrNotAtFront
	}
	return novice, nil
}

// nextUsername computes the applicant to review after the current one. A
// recent applicant's successor is searched in the recent tier first (strict
// comparisons on both last activity and application date), falling back to
// the stale tier.
func (s *Service) nextUsername(ctx context.Context, current *models.Author) (string, error) {
	if current.ApplicationDate == nil {
		return "", nil
	}
	threshold := s.queue.Threshold()

	if activityTier(current, threshold) == tierRecent {
		next, err := s.authors.NextPending(ctx, true, threshold, *current.ApplicationDate)
		if err != nil {
			return "", fmt.Errorf("next applicant: %w", err)
		}
		if next != nil {
			return next.Username, nil
		}
	}

	next, err := s.authors.NextPending(ctx, false, threshold, *current.ApplicationDate)
	if err != nil {
		return "", fmt.Errorf("next applicant: %w", err)
	}
	if next == nil {
		return "", nil
	}
	return next.Username, nil
}

// accept transitions a pending application to accepted and emits the
// notification and audit side effects.
func (s *Service) accept(ctx context.Context, actor Actor, novice *models.Author) (*Decision, error) {
	if err := s.authors.SetAccepted(ctx, novice.ID); err != nil {
		return nil, fmt.Errorf("accept application: %w", err)
	}

	summary := fmt.Sprintf("authorship application of %s accepted", novice.Username)
	if err := s.notify(ctx, actor, novice, summary, acceptMailSubject, acceptMessageTemplate); err != nil {
		return nil, err
	}

	s.log.Info("Novice application accepted",
		logger.String("username", novice.Username),
		logger.String("actor", actor.Username),
	)

	return &Decision{Operation: OpAccept, Username: novice.Username, Summary: summary}, nil
}

// decline purges the applicant's published entries, puts the application on
// hold, and emits the notification and audit side effects.
func (s *Service) decline(ctx context.Context, actor Actor, novice *models.Author) (*Decision, error) {
	deleted, err := s.entries.PurgePublishedByAuthor(ctx, novice.ID)
	if err != nil {
		return nil, fmt.Errorf("purge applicant entries: %w", err)
	}

	if err := s.authors.SetOnHold(ctx, novice.ID); err != nil {
		return nil, fmt.Errorf("decline application: %w", err)
	}

	summary := fmt.Sprintf("authorship application of %s declined", novice.Username)
	if err := s.notify(ctx, actor, novice, summary, declineMailSubject, declineMessageTemplate); err != nil {
		return nil, err
	}

	s.log.Info("Novice application declined",
		logger.String("username", novice.Username),
		logger.String("actor", actor.Username),
		logger.Int64("entries_purged", deleted),
	)

	return &Decision{Operation: OpDecline, Username: novice.Username, Summary: summary}, nil
}

// notify appends the audit record, composes the in-app message from the
// system account, and sends the email. The mail send blocks and its failure
// fails the decision; writes already made are not rolled back.
func (s *Service) notify(ctx context.Context, actor Actor, novice *models.Author, summary, subject, template string) error {
	rec := models.AuditRecord{
		ActorID:     actor.ID,
		SubjectType: models.SubjectAuthor,
		SubjectID:   novice.ID,
		Description: summary,
	}
	if err := s.audit.Record(ctx, &rec); err != nil {
		return fmt.Errorf("record decision: %w", err)
	}

	body := fmt.Sprintf(template, novice.Username)
	if _, err := s.messages.Compose(ctx, s.systemAccount, novice.ID, body); err != nil {
		return fmt.Errorf("compose decision message: %w", err)
	}

	if err := s.mailer.Send(ctx, novice.Email, subject, body); err != nil {
		return fmt.Errorf("send decision mail: %w", err)
	}
	return nil
}
