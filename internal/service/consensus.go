package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/hike-planner/backend/internal/consensus"
	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/repo"
)

// Recorder receives business events worth counting. *metrics.Metrics
// satisfies it; a nil Recorder disables recording.
type Recorder interface {
	ConsensusComputed(hasConsensus, canGenerate bool)
	ItineraryGenerated(outcome string, elapsed time.Duration)
}

// Itinerary generation outcomes passed to Recorder.ItineraryGenerated.
const (
	GenerationOK          = "ok"
	GenerationConflict    = "conflict"
	GenerationUnavailable = "unavailable"
	GenerationError       = "error"
)

type nopRecorder struct{}

func (nopRecorder) ConsensusComputed(bool, bool)             {}
func (nopRecorder) ItineraryGenerated(string, time.Duration) {}

func orNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// ConsensusReport is everything the results page shows.
type ConsensusReport struct {
	Trip          domain.Trip
	Weekends      []domain.Weekend
	AttendeeCount int
	Result        consensus.Result
	// Tally is the per-weekend count for every weekend, winners or not.
	Tally []consensus.WeekendScore
	// Params is only meaningful when Result.CanGenerateItinerary() is true.
	Params consensus.ItineraryParams
}

// ConsensusService computes the group decision for a trip on every call.
// Nothing is cached: two reads with no submission in between always agree.
type ConsensusService struct {
	trips     repo.TripRepo
	attendees repo.AttendeeRepo
	recorder  Recorder
}

// NewConsensusService constructs a ConsensusService. rec may be nil.
func NewConsensusService(trips repo.TripRepo, attendees repo.AttendeeRepo, rec Recorder) *ConsensusService {
	return &ConsensusService{trips: trips, attendees: attendees, recorder: orNop(rec)}
}

// Results loads a snapshot of the trip's attendees and scores it.
// Returns domain.ErrNotFound if the token does not resolve.
func (s *ConsensusService) Results(ctx context.Context, token string) (ConsensusReport, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return ConsensusReport{}, fmt.Errorf("service.ConsensusService.Results: %w", err)
	}
	attendees, err := s.attendees.ListByTrip(ctx, trip.ID)
	if err != nil {
		return ConsensusReport{}, fmt.Errorf("service.ConsensusService.Results: %w", err)
	}

	report := scoreTrip(trip, attendees)
	s.recorder.ConsensusComputed(report.Result.HasConsensus(), report.Result.CanGenerateItinerary())
	return report, nil
}

// scoreTrip is shared with ItineraryService so both see the same decision
// for the same snapshot.
func scoreTrip(trip domain.Trip, attendees []domain.Attendee) ConsensusReport {
	weekends := tripWeekends(trip)
	result := consensus.Compute(attendees, weekends)
	params, _ := result.ItineraryParams()
	return ConsensusReport{
		Trip:          trip,
		Weekends:      weekends,
		AttendeeCount: len(attendees),
		Result:        result,
		Tally:         consensus.ScoreWeekends(attendees, weekends),
		Params:        params,
	}
}
