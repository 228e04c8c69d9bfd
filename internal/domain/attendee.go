package domain

import (
	"time"

	"github.com/google/uuid"
)

// Availability records whether an attendee can make the weekend identified
// by WeekendKey (the Saturday, "2006-01-02").
type Availability struct {
	WeekendKey  string `json:"date"`
	IsAvailable bool   `json:"is_available"`
}

// Attendee is a named participant in a trip. Name is the identity key within
// the trip: a second submission under the same name replaces the first.
// Location is free text, shown in tables and passed to the itinerary
// generator but never parsed.
type Attendee struct {
	ID               uuid.UUID
	TripID           uuid.UUID
	Name             string
	Location         string
	Availability     []Availability
	PreferredRegions []string // region ids, in the order they were submitted
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAvailable reports whether the attendee marked the weekend as available.
// A missing entry counts as unavailable.
func (a Attendee) IsAvailable(weekendKey string) bool {
	for _, av := range a.Availability {
		if av.WeekendKey == weekendKey {
			return av.IsAvailable
		}
	}
	return false
}

// AttendeePreferences is one submission from the preference form.
// It replaces, never merges with, whatever was stored under Name before.
type AttendeePreferences struct {
	Name            string
	Location        string
	SelectedRegions []string
	Availability    []Availability
}
