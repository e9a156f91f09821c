package review

import "errors"

// Workflow errors surfaced to the HTTP layer. None of them indicate a
// mutation took place.
var (
	// ErrNotInQueue means the applicant is not in the review queue at all.
	ErrNotInQueue = errors.New("applicant is not in the review queue")
	// ErrNotAtFront means the applicant is queued beyond the review window.
	ErrNotAtFront = errors.New("applicant is not at the front of the review queue")
	// ErrInvalidOperation means the decision operation token is not
	// recognized.
	ErrInvalidOperation = errors.New("invalid review operation")
)
