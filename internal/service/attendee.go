package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/repo"
)

// AttendeeService handles preference submissions and attendee listings.
// It holds the trips repo because every operation is addressed by access token.
type AttendeeService struct {
	trips     repo.TripRepo
	attendees repo.AttendeeRepo
}

// NewAttendeeService constructs an AttendeeService backed by the provided repos.
func NewAttendeeService(trips repo.TripRepo, attendees repo.AttendeeRepo) *AttendeeService {
	return &AttendeeService{trips: trips, attendees: attendees}
}

// Submit stores a preference submission for the trip behind token. A second
// submission under the same name replaces the first entirely.
// Returns domain.ErrNotFound if the token does not resolve and
// domain.ErrValidation if the submission is malformed.
func (s *AttendeeService) Submit(ctx context.Context, token string, prefs domain.AttendeePreferences) (uuid.UUID, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.AttendeeService.Submit: %w", err)
	}

	clean, err := normalizePreferences(prefs, tripWeekends(trip))
	if err != nil {
		return uuid.Nil, err
	}

	id, err := s.attendees.Upsert(ctx, trip.ID, clean)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.AttendeeService.Submit: %w", err)
	}
	return id, nil
}

// List returns every attendee of the trip behind token.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AttendeeService) List(ctx context.Context, token string) ([]domain.Attendee, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("service.AttendeeService.List: %w", err)
	}
	attendees, err := s.attendees.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("service.AttendeeService.List: %w", err)
	}
	if attendees == nil {
		return []domain.Attendee{}, nil
	}
	return attendees, nil
}

// normalizePreferences enforces the submission rules:
//   - Name must be non-blank. It is otherwise kept as typed: it is the
//     identity key and "Sam" and "sam " are different attendees.
//   - Location is trimmed.
//   - Region ids keep their first-seen order; repeats are dropped. Ids the
//     catalog does not know are kept and shown by id.
//   - Every availability key must be one of the trip's weekends. When a key
//     is repeated the last entry wins.
func normalizePreferences(prefs domain.AttendeePreferences, weekends []domain.Weekend) (domain.AttendeePreferences, error) {
	if strings.TrimSpace(prefs.Name) == "" {
		return domain.AttendeePreferences{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	out := domain.AttendeePreferences{
		Name:            prefs.Name,
		Location:        strings.TrimSpace(prefs.Location),
		SelectedRegions: []string{},
		Availability:    []domain.Availability{},
	}

	seenRegion := map[string]bool{}
	for _, id := range prefs.SelectedRegions {
		id = strings.TrimSpace(id)
		if id == "" || seenRegion[id] {
			continue
		}
		seenRegion[id] = true
		out.SelectedRegions = append(out.SelectedRegions, id)
	}

	valid := weekendSet(weekends)
	position := map[string]int{}
	for _, av := range prefs.Availability {
		if _, ok := valid[av.WeekendKey]; !ok {
			return domain.AttendeePreferences{}, fmt.Errorf("%w: %q is not a weekend of this trip", domain.ErrValidation, av.WeekendKey)
		}
		if i, ok := position[av.WeekendKey]; ok {
			out.Availability[i] = av
			continue
		}
		position[av.WeekendKey] = len(out.Availability)
		out.Availability = append(out.Availability, av)
	}
	return out, nil
}
