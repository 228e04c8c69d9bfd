package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/skip2/go-qrcode"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// QR code size bounds for GET /trips/{token}/share.png, in pixels.
const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// CreateTripRequest is the body of POST /trips. Month accepts "2006-01" or
// any "2006-01-02" date within the month.
type CreateTripRequest struct {
	Name  string `json:"name"`
	Month string `json:"month"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Month       openapi_types.Date `json:"month"`
	AccessToken string             `json:"access_token"`
	ShareURL    string             `json:"share_url"`
	CreatedAt   time.Time          `json:"created_at"`
	Weekends    []Weekend          `json:"weekends,omitempty"`
}

// Weekend is the JSON representation of a derived weekend. Formatted is the
// key attendees submit availability against.
type Weekend struct {
	Formatted string             `json:"formatted"`
	Saturday  openapi_types.Date `json:"saturday"`
	Sunday    openapi_types.Date `json:"sunday"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}
	month, err := parseMonth(body.Month)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), body.Name, month)
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}

	resp := s.tripToResponse(created)
	resp.Weekends = weekendsToResponse(s.trips.Weekends(created))
	writeJSON(w, http.StatusCreated, resp)
}

// GetTrip handles GET /trips/{token}. The response includes the weekends
// attendees can vote on.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetByToken(r.Context(), tokenParam(r))
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}

	resp := s.tripToResponse(trip)
	resp.Weekends = weekendsToResponse(s.trips.Weekends(trip))
	writeJSON(w, http.StatusOK, resp)
}

// ListWeekends handles GET /trips/{token}/weekends.
func (s *Server) ListWeekends(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetByToken(r.Context(), tokenParam(r))
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, weekendsToResponse(s.trips.Weekends(trip)))
}

// GetShareQR handles GET /trips/{token}/share.png: a QR code of the link
// attendees open to submit their preferences. ?size= sets the edge length.
func (s *Server) GetShareQR(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			badRequest(w, "size must be an integer between 128 and 1024")
			return
		}
		size = n
	}

	trip, err := s.trips.GetByToken(r.Context(), tokenParam(r))
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}

	png, err := qrcode.Encode(s.shareURL(trip.AccessToken), qrcode.Medium, size)
	if err != nil {
		internalError(w, r, "encode share qr code", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(png)
}

// --- mapping helpers --------------------------------------------------------

// parseMonth accepts "2006-01" or "2006-01-02".
func parseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("month is required")
	}
	for _, layout := range []string{"2006-01", domain.WeekendKeyLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("month must look like 2006-01")
}

func (s *Server) shareURL(token string) string {
	return s.opts.PublicBaseURL + "/trip/" + token
}

func (s *Server) tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:          t.ID,
		Name:        t.Name,
		Month:       openapi_types.Date{Time: t.Month},
		AccessToken: t.AccessToken,
		ShareURL:    s.shareURL(t.AccessToken),
		CreatedAt:   t.CreatedAt,
	}
}

func weekendToResponse(w domain.Weekend) Weekend {
	return Weekend{
		Formatted: w.Formatted,
		Saturday:  openapi_types.Date{Time: w.Saturday},
		Sunday:    openapi_types.Date{Time: w.Sunday},
	}
}

func weekendsToResponse(weekends []domain.Weekend) []Weekend {
	out := make([]Weekend, len(weekends))
	for i, w := range weekends {
		out[i] = weekendToResponse(w)
	}
	return out
}
