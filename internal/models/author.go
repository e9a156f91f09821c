// Package models defines the persistence-level entities of the moderation
// service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the state of an author's authorship application.
type ApplicationStatus string

const (
	// StatusPending marks an application awaiting review.
	StatusPending ApplicationStatus = "PN"
	// StatusAccepted marks an accepted application.
	StatusAccepted ApplicationStatus = "AP"
	// StatusOnHold marks a declined application. The author may re-apply
	// later, which sets a new application date and re-enters the queue.
	StatusOnHold ApplicationStatus = "OH"
)

// Author is a platform user. While IsNovice is true and the application is
// pending, the author is a review-queue candidate.
type Author struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	Username          string            `json:"username" db:"username"`
	Email             string            `json:"email" db:"email"`
	IsNovice          bool              `json:"is_novice" db:"is_novice"`
	ApplicationStatus ApplicationStatus `json:"application_status" db:"application_status"`
	ApplicationDate   *time.Time        `json:"application_date,omitempty" db:"application_date"`
	LastActivity      *time.Time        `json:"last_activity,omitempty" db:"last_activity"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}
