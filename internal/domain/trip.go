// Package domain contains the core data types for the hike planner.
// Apart from uuid, this package has no external dependencies and is imported
// by every other internal package (repo, service, consensus, handler).
// Wizard is the client-side preference form model; no endpoint drives it, the
// API ships it so frontends can reuse its step rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: one group planning one hiking weekend
// within a calendar month. Attendees belong to a trip.
//
// AccessToken is the only capability on a trip. Whoever holds it may read
// and write everything under the trip. It never changes after creation.
type Trip struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Month       time.Time `json:"month"` // first day of the month, UTC
	AccessToken string    `json:"access_token"`
	CreatedAt   time.Time `json:"created_at"`
}

// MonthStart truncates t to midnight UTC on the first day of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
