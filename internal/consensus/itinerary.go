package consensus

import (
	"time"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// ItineraryParams is the concrete choice handed to itinerary generation.
type ItineraryParams struct {
	Weekend    domain.Weekend
	RegionID   string
	RegionName string
}

// Friday is the arrival day, the day before the chosen Saturday.
func (p ItineraryParams) Friday() time.Time {
	return p.Weekend.Saturday.AddDate(0, 0, -1)
}

// Monday is the departure day, two days after the chosen Saturday.
func (p ItineraryParams) Monday() time.Time {
	return p.Weekend.Saturday.AddDate(0, 0, 2)
}

// ItineraryParams picks the first best weekend and the first best region.
// Ties are not broken by any other criterion: list order wins.
// ok is false when CanGenerateItinerary is false.
func (r Result) ItineraryParams() (params ItineraryParams, ok bool) {
	if !r.CanGenerateItinerary() {
		return ItineraryParams{}, false
	}
	w, reg := r.BestWeekends[0], r.BestRegions[0]
	return ItineraryParams{
		Weekend:    w.Weekend,
		RegionID:   reg.RegionID,
		RegionName: reg.Name,
	}, true
}

// Request builds the generator request for these params.
func (p ItineraryParams) Request(attendees []domain.Attendee) domain.ItineraryRequest {
	people := make([]domain.ItineraryAttendee, len(attendees))
	for i, a := range attendees {
		people[i] = domain.ItineraryAttendee{Name: a.Name, Location: a.Location}
	}
	return domain.ItineraryRequest{
		WeekendStart: p.Friday(),
		WeekendEnd:   p.Monday(),
		RegionID:     p.RegionID,
		RegionName:   p.RegionName,
		Attendees:    people,
	}
}
