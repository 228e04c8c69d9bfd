package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hike-planner/backend/internal/service"
)

// GenerateItineraryRequest is the optional body of POST
// /trips/{token}/itinerary. Omitted fields fall back to the consensus.
type GenerateItineraryRequest struct {
	Weekend string `json:"weekend"`
	Region  string `json:"region"`
}

// Itinerary is the JSON representation of a generated itinerary.
type Itinerary struct {
	Content   string          `json:"content"`
	Weekend   ItineraryWindow `json:"weekend"`
	Region    Region          `json:"region"`
	CreatedAt time.Time       `json:"created_at"`
	Stored    bool            `json:"stored"`
}

// ItineraryWindow spans the Friday arrival to the Monday departure.
type ItineraryWindow struct {
	Friday   openapi_types.Date `json:"friday"`
	Saturday openapi_types.Date `json:"saturday"`
	Sunday   openapi_types.Date `json:"sunday"`
	Monday   openapi_types.Date `json:"monday"`
}

// GenerateItinerary handles POST /trips/{token}/itinerary.
// This waits on the text generator and can take tens of seconds.
func (s *Server) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var body GenerateItineraryRequest
	if !decodeJSON(w, r, &body, true) {
		return
	}

	res, err := s.itineraries.Generate(r.Context(), tokenParam(r), service.ItineraryChoice{
		WeekendKey: body.Weekend,
		RegionID:   body.Region,
	})
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, itineraryToResponse(res))
}

// GetItinerary handles GET /trips/{token}/itinerary?weekend=&region=.
// Without parameters it looks up the itinerary for the current consensus.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.itineraries.Stored(r.Context(), tokenParam(r), service.ItineraryChoice{
		WeekendKey: q.Get("weekend"),
		RegionID:   q.Get("region"),
	})
	if err != nil {
		serviceError(w, r, err, "itinerary not found")
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(res))
}

func itineraryToResponse(res service.ItineraryResult) Itinerary {
	p := res.Params
	return Itinerary{
		Content: res.Itinerary.Content,
		Weekend: ItineraryWindow{
			Friday:   openapi_types.Date{Time: p.Friday()},
			Saturday: openapi_types.Date{Time: p.Weekend.Saturday},
			Sunday:   openapi_types.Date{Time: p.Weekend.Sunday},
			Monday:   openapi_types.Date{Time: p.Monday()},
		},
		Region:    Region{ID: p.RegionID, Name: p.RegionName},
		CreatedAt: res.Itinerary.CreatedAt,
		Stored:    res.Stored,
	}
}
