// Package handler implements the HTTP handlers for the hike planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but share the same Server struct so they
// can access its dependencies. Routes registers them on a chi router.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, name string, month time.Time) (domain.Trip, error)
	GetByToken(ctx context.Context, token string) (domain.Trip, error)
	Weekends(trip domain.Trip) []domain.Weekend
}

// AttendeeServicer defines the attendee operations the handlers depend on.
type AttendeeServicer interface {
	Submit(ctx context.Context, token string, prefs domain.AttendeePreferences) (uuid.UUID, error)
	List(ctx context.Context, token string) ([]domain.Attendee, error)
}

// ConsensusServicer computes the results page.
type ConsensusServicer interface {
	Results(ctx context.Context, token string) (service.ConsensusReport, error)
}

// ExportServicer builds the availability table.
type ExportServicer interface {
	Export(ctx context.Context, token string) (domain.ExportTable, error)
}

// ItineraryServicer generates and fetches itineraries.
type ItineraryServicer interface {
	Generate(ctx context.Context, token string, choice service.ItineraryChoice) (service.ItineraryResult, error)
	Stored(ctx context.Context, token string, choice service.ItineraryChoice) (service.ItineraryResult, error)
}

// Options holds the handler settings that are not services.
type Options struct {
	// PublicBaseURL is the frontend origin share links point at.
	PublicBaseURL string
	// GenerateLimiter wraps POST /trips/{token}/itinerary. Optional.
	GenerateLimiter func(http.Handler) http.Handler
	// Metrics serves GET /metrics. Optional.
	Metrics http.Handler
}

// Server holds every dependency of the HTTP layer.
type Server struct {
	trips       TripServicer
	attendees   AttendeeServicer
	consensus   ConsensusServicer
	export      ExportServicer
	itineraries ItineraryServicer
	opts        Options
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, attendees AttendeeServicer, consensus ConsensusServicer, export ExportServicer, itineraries ItineraryServicer, opts Options) *Server {
	return &Server{
		trips:       trips,
		attendees:   attendees,
		consensus:   consensus,
		export:      export,
		itineraries: itineraries,
		opts:        opts,
	}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	r.Get("/regions", s.ListRegions)

	r.Post("/trips", s.CreateTrip)
	r.Route("/trips/{token}", func(r chi.Router) {
		r.Get("/", s.GetTrip)
		r.Get("/weekends", s.ListWeekends)
		r.Get("/share.png", s.GetShareQR)
		r.Get("/attendees", s.ListAttendees)
		r.Post("/preferences", s.SubmitPreferences)
		r.Get("/consensus", s.GetConsensus)
		r.Get("/export", s.GetExport)
		r.Get("/itinerary", s.GetItinerary)

		generate := http.Handler(http.HandlerFunc(s.GenerateItinerary))
		if s.opts.GenerateLimiter != nil {
			generate = s.opts.GenerateLimiter(generate)
		}
		r.Method(http.MethodPost, "/itinerary", generate)
	})
}

// Handler returns a router with every endpoint registered and no middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

func tokenParam(r *http.Request) string {
	return chi.URLParam(r, "token")
}
