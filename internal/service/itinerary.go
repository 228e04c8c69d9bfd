package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/hike-planner/backend/internal/consensus"
	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/genlock"
	"github.com/pkordes/hike-planner/backend/internal/repo"
)

// Generator turns an itinerary request into prose. *textgen.Client
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, req domain.ItineraryRequest) (string, error)
}

// ItineraryChoice selects the weekend and region to plan for. Empty fields
// are filled from the trip's consensus.
type ItineraryChoice struct {
	WeekendKey string
	RegionID   string
}

// ItineraryResult is a stored itinerary together with the window it covers.
type ItineraryResult struct {
	Itinerary domain.Itinerary
	Params    consensus.ItineraryParams
	// Stored is false when generation succeeded but saving did not.
	Stored bool
}

// ItineraryService generates and retrieves itineraries.
type ItineraryService struct {
	trips       repo.TripRepo
	attendees   repo.AttendeeRepo
	itineraries repo.ItineraryRepo
	gen         Generator
	locker      genlock.Locker
	recorder    Recorder
	timeout     time.Duration
}

// ItineraryServiceConfig carries the optional collaborators.
type ItineraryServiceConfig struct {
	// Generator may be nil; Generate then fails with domain.ErrUnavailable.
	Generator Generator
	// Locker defaults to genlock.Noop.
	Locker genlock.Locker
	// Recorder may be nil.
	Recorder Recorder
	// Timeout bounds one generator call. Zero means no extra bound.
	Timeout time.Duration
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(trips repo.TripRepo, attendees repo.AttendeeRepo, itineraries repo.ItineraryRepo, cfg ItineraryServiceConfig) *ItineraryService {
	locker := cfg.Locker
	if locker == nil {
		locker = genlock.Noop{}
	}
	return &ItineraryService{
		trips:       trips,
		attendees:   attendees,
		itineraries: itineraries,
		gen:         cfg.Generator,
		locker:      locker,
		recorder:    orNop(cfg.Recorder),
		timeout:     cfg.Timeout,
	}
}

// Generate produces an itinerary for the trip behind token and stores it,
// replacing any earlier one for the same weekend and region.
//
// Returns domain.ErrNotFound for an unknown token, domain.ErrValidation when
// the choice is not a weekend of the trip or not a catalog region, or when
// there is no consensus to fall back on, domain.ErrConflict when the same
// combination is already being generated, and domain.ErrUnavailable when
// the generator is missing or fails.
func (s *ItineraryService) Generate(ctx context.Context, token string, choice ItineraryChoice) (ItineraryResult, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.Generate: %w", err)
	}
	attendees, err := s.attendees.ListByTrip(ctx, trip.ID)
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.Generate: %w", err)
	}

	params, err := resolveChoice(trip, attendees, choice)
	if err != nil {
		return ItineraryResult{}, err
	}
	if _, ok := domain.RegionByID(params.RegionID); !ok {
		return ItineraryResult{}, fmt.Errorf("%w: region %q is not in the catalog", domain.ErrValidation, params.RegionID)
	}
	if s.gen == nil {
		s.recorder.ItineraryGenerated(GenerationUnavailable, 0)
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.Generate: generator not configured: %w", domain.ErrUnavailable)
	}

	release, err := s.locker.Acquire(ctx, genlock.Key(trip.ID, params.Weekend.Formatted, params.RegionID))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.recorder.ItineraryGenerated(GenerationConflict, 0)
		}
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.Generate: %w", err)
	}
	defer release()

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := s.gen.Generate(genCtx, params.Request(attendees))
	elapsed := time.Since(start)
	if err != nil {
		s.recorder.ItineraryGenerated(GenerationError, elapsed)
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.Generate: %w: %w", domain.ErrUnavailable, err)
	}
	s.recorder.ItineraryGenerated(GenerationOK, elapsed)

	it := domain.Itinerary{
		TripID:     trip.ID,
		WeekendKey: params.Weekend.Formatted,
		RegionID:   params.RegionID,
		Content:    content,
	}
	saved, err := s.itineraries.Upsert(ctx, it)
	if err != nil {
		// Generation succeeded; the caller still gets the text.
		slog.WarnContext(ctx, "itinerary not stored", "trip_id", trip.ID, "weekend", it.WeekendKey, "region", it.RegionID, "error", err)
		it.CreatedAt = time.Now().UTC()
		return ItineraryResult{Itinerary: it, Params: params, Stored: false}, nil
	}
	return ItineraryResult{Itinerary: saved, Params: params, Stored: true}, nil
}

// Stored returns the last itinerary generated for the choice.
// Returns domain.ErrNotFound if the token does not resolve or nothing has
// been generated for that combination yet.
func (s *ItineraryService) Stored(ctx context.Context, token string, choice ItineraryChoice) (ItineraryResult, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.Stored: %w", err)
	}

	var attendees []domain.Attendee
	if choice.WeekendKey == "" || choice.RegionID == "" {
		attendees, err = s.attendees.ListByTrip(ctx, trip.ID)
		if err != nil {
			return ItineraryResult{}, fmt.Errorf("service.ItineraryService.Stored: %w", err)
		}
	}
	params, err := resolveChoice(trip, attendees, choice)
	if err != nil {
		return ItineraryResult{}, err
	}

	it, err := s.itineraries.Get(ctx, trip.ID, params.Weekend.Formatted, params.RegionID)
	if err != nil {
		return ItineraryResult{}, fmt.Errorf("service.ItineraryService.Stored: %w", err)
	}
	return ItineraryResult{Itinerary: it, Params: params, Stored: true}, nil
}

// resolveChoice turns an explicit or partial choice into concrete params,
// filling gaps from the consensus of attendees.
func resolveChoice(trip domain.Trip, attendees []domain.Attendee, choice ItineraryChoice) (consensus.ItineraryParams, error) {
	var fallback consensus.ItineraryParams
	if choice.WeekendKey == "" || choice.RegionID == "" {
		report := scoreTrip(trip, attendees)
		if !report.Result.CanGenerateItinerary() {
			return consensus.ItineraryParams{}, fmt.Errorf("%w: no consensus on weekend and region yet", domain.ErrValidation)
		}
		fallback = report.Params
	}

	params := fallback
	if choice.WeekendKey != "" {
		w, ok := weekendSet(tripWeekends(trip))[choice.WeekendKey]
		if !ok {
			return consensus.ItineraryParams{}, fmt.Errorf("%w: %q is not a weekend of this trip", domain.ErrValidation, choice.WeekendKey)
		}
		params.Weekend = w
	}
	if choice.RegionID != "" {
		params.RegionID = choice.RegionID
		params.RegionName = domain.RegionName(choice.RegionID)
	}
	return params, nil
}
