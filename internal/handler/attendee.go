package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// PreferencesRequest is the body of POST /trips/{token}/preferences.
type PreferencesRequest struct {
	Name            string                `json:"name"`
	Location        string                `json:"location"`
	SelectedRegions []string              `json:"selected_regions"`
	Availability    []domain.Availability `json:"availability"`
}

// PreferencesResponse is returned after a submission is stored.
type PreferencesResponse struct {
	AttendeeID uuid.UUID `json:"attendee_id"`
}

// Attendee is the JSON representation of an attendee row.
type Attendee struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Location         string                `json:"location,omitempty"`
	Availability     []domain.Availability `json:"availability"`
	PreferredRegions []Region              `json:"preferred_regions"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// Region is a region id with its display name.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubmitPreferences handles POST /trips/{token}/preferences. Submitting
// again under the same name replaces the earlier submission.
func (s *Server) SubmitPreferences(w http.ResponseWriter, r *http.Request) {
	var body PreferencesRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}

	id, err := s.attendees.Submit(r.Context(), tokenParam(r), domain.AttendeePreferences{
		Name:            body.Name,
		Location:        body.Location,
		SelectedRegions: body.SelectedRegions,
		Availability:    body.Availability,
	})
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, PreferencesResponse{AttendeeID: id})
}

// ListAttendees handles GET /trips/{token}/attendees.
func (s *Server) ListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := s.attendees.List(r.Context(), tokenParam(r))
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}

	out := make([]Attendee, len(attendees))
	for i, a := range attendees {
		out[i] = attendeeToResponse(a)
	}
	writeJSON(w, http.StatusOK, out)
}

func attendeeToResponse(a domain.Attendee) Attendee {
	resp := Attendee{
		ID:               a.ID,
		Name:             a.Name,
		Location:         a.Location,
		Availability:     a.Availability,
		PreferredRegions: make([]Region, len(a.PreferredRegions)),
		UpdatedAt:        a.UpdatedAt,
	}
	if resp.Availability == nil {
		resp.Availability = []domain.Availability{}
	}
	for i, id := range a.PreferredRegions {
		resp.PreferredRegions[i] = Region{ID: id, Name: domain.RegionName(id)}
	}
	return resp
}
