package review

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonesrussell/moderation/internal/models"
)

// Activity tiers. Applicants active within the recency window rank ahead of
// stale ones; within a tier, the oldest application comes first.
const (
	tierStale  = 1
	tierRecent = 2
)

// QueueBuilder computes the ordered list of pending novice applications.
// It is a pure read over the author store; ranking happens in memory so the
// ordering semantics are deterministic and testable without a database.
type QueueBuilder struct {
	authors AuthorStore
	window  time.Duration
}

// NewQueueBuilder creates a QueueBuilder. window is the last-activity
// recency threshold separating the two tiers.
func NewQueueBuilder(authors AuthorStore, window time.Duration) *QueueBuilder {
	return &QueueBuilder{
		authors: authors,
		window:  window,
	}
}

// Threshold returns the current tier boundary: last activity at or after
// this instant counts as recent.
func (b *QueueBuilder) Threshold() time.Time {
	return time.Now().Add(-b.window)
}

// List returns eligible applicants ranked by activity tier (recent first)
// and application date (oldest first) within each tier. A limit of zero or
// less returns the full queue.
func (b *QueueBuilder) List(ctx context.Context, limit int) ([]models.Author, error) {
	authors, err := b.authors.ListEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("build review queue: %w", err)
	}

	threshold := b.Threshold()
	sort.SliceStable(authors, func(i, j int) bool {
		ti, tj := activityTier(&authors[i], threshold), activityTier(&authors[j], threshold)
		if ti != tj {
			return ti > tj
		}
		return applicationDateBefore(&authors[i], &authors[j])
	})

	if limit > 0 && len(authors) > limit {
		authors = authors[:limit]
	}
	return authors, nil
}

// activityTier classifies an applicant against the threshold. Activity
// exactly at the threshold counts as recent.
func activityTier(a *models.Author, threshold time.Time) int {
	if a.LastActivity != nil && !a.LastActivity.Before(threshold) {
		return tierRecent
	}
	return tierStale
}

// applicationDateBefore orders by application date ascending; applicants
// without a date sort last.
func applicationDateBefore(a, b *models.Author) bool {
	switch {
	case a.ApplicationDate == nil:
		return false
	case b.ApplicationDate == nil:
		return true
	default:
		return a.ApplicationDate.Before(*b.ApplicationDate)
	}
}
