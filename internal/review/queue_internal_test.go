package review

import (
	"testing"
	"time"

	"github.com/jonesrussell/moderation/internal/models"
)

func authorWithActivity(at time.Time) *models.Author {
	return &models.Author{LastActivity: &at}
}

func TestActivityTier(t *testing.T) {
	threshold := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		author *models.Author
		want   int
	}{
		{"above threshold", authorWithActivity(threshold.Add(time.Minute)), tierRecent},
		{"exactly at threshold counts as recent", authorWithActivity(threshold), tierRecent},
		{"below threshold", authorWithActivity(threshold.Add(-time.Minute)), tierStale},
		{"no recorded activity", &models.Author{}, tierStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := activityTier(tt.author, threshold); got != tt.want {
				t.Errorf("activityTier() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplicationDateBefore(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	a := &models.Author{ApplicationDate: &early}
	b := &models.Author{ApplicationDate: &late}
	undated := &models.Author{}

	if !applicationDateBefore(a, b) {
		t.Error("expected earlier application date to sort first")
	}
	if applicationDateBefore(b, a) {
		t.Error("expected later application date to sort last")
	}
	if applicationDateBefore(undated, a) {
		t.Error("expected undated applicant to sort last")
	}
	if !applicationDateBefore(a, undated) {
		t.Error("expected dated applicant to sort before undated")
	}
}
