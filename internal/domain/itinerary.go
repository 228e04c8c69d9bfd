package domain

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary is generated prose for one (trip, weekend, region) combination.
// Regenerating overwrites the stored content.
type Itinerary struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	WeekendKey string
	RegionID   string
	Content    string
	CreatedAt  time.Time
}

// ItineraryAttendee is the slice of an attendee the generator needs.
type ItineraryAttendee struct {
	Name     string
	Location string // empty when not provided
}

// ItineraryRequest is what the text-generation collaborator receives.
// The window runs from the Friday before the chosen weekend to the Monday after it.
type ItineraryRequest struct {
	WeekendStart time.Time
	WeekendEnd   time.Time
	RegionID     string
	RegionName   string
	Attendees    []ItineraryAttendee
}
