package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/handler"
)

// mockAttendeeServicer is a test double for handler.AttendeeServicer.
type mockAttendeeServicer struct {
	submit func(ctx context.Context, token string, prefs domain.AttendeePreferences) (uuid.UUID, error)
	list   func(ctx context.Context, token string) ([]domain.Attendee, error)
}

func (m *mockAttendeeServicer) Submit(ctx context.Context, token string, prefs domain.AttendeePreferences) (uuid.UUID, error) {
	return m.submit(ctx, token, prefs)
}
func (m *mockAttendeeServicer) List(ctx context.Context, token string) ([]domain.Attendee, error) {
	return m.list(ctx, token)
}

var _ handler.AttendeeServicer = (*mockAttendeeServicer)(nil)

// ---- POST /trips/{token}/preferences ---------------------------------------

func TestSubmitPreferences_200(t *testing.T) {
	id := uuid.New()
	var gotToken string
	var got domain.AttendeePreferences
	svc := &mockAttendeeServicer{
		submit: func(_ context.Context, token string, p domain.AttendeePreferences) (uuid.UUID, error) {
			gotToken, got = token, p
			return id, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"name":             "Sam",
		"location":         "Bristol",
		"selected_regions": []string{"cornwall"},
		"availability": []map[string]any{
			{"date": "2023-07-01", "is_available": false},
			{"date": "2023-07-08", "is_available": true},
		},
	})
	rec := httptest.NewRecorder()
	newHTTPHandler(deps{attendees: svc}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trips/"+testToken+"/preferences", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.PreferencesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, id, resp.AttendeeID)

	assert.Equal(t, testToken, gotToken)
	assert.Equal(t, domain.AttendeePreferences{
		Name:            "Sam",
		Location:        "Bristol",
		SelectedRegions: []string{"cornwall"},
		Availability: []domain.Availability{
			{WeekendKey: "2023-07-01", IsAvailable: false},
			{WeekendKey: "2023-07-08", IsAvailable: true},
		},
	}, got)
}

func TestSubmitPreferences_422(t *testing.T) {
	svc := &mockAttendeeServicer{
		submit: func(context.Context, string, domain.AttendeePreferences) (uuid.UUID, error) {
			return uuid.Nil, fmt.Errorf("service.AttendeeService.Submit: %w: %q is not a weekend of this trip", domain.ErrValidation, "2023-08-05")
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{attendees: svc}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/trips/"+testToken+"/preferences", jsonBody(t, map[string]any{"name": "Sam"})))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, `"2023-08-05" is not a weekend of this trip`, decodeError(t, rec).Error.Message)
}

func TestSubmitPreferences_404(t *testing.T) {
	svc := &mockAttendeeServicer{
		submit: func(context.Context, string, domain.AttendeePreferences) (uuid.UUID, error) {
			return uuid.Nil, fmt.Errorf("service.AttendeeService.Submit: %w", domain.ErrNotFound)
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{attendees: svc}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/trips/unknown/preferences", jsonBody(t, map[string]any{"name": "Sam"})))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitPreferences_BodyRequired(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(deps{attendees: &mockAttendeeServicer{}}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/trips/"+testToken+"/preferences", bytes.NewReader(nil)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "request body is required", decodeError(t, rec).Error.Message)
}

// ---- GET /trips/{token}/attendees ------------------------------------------

func TestListAttendees_200(t *testing.T) {
	svc := &mockAttendeeServicer{
		list: func(context.Context, string) ([]domain.Attendee, error) {
			return []domain.Attendee{
				{
					ID:               uuid.New(),
					Name:             "Ana",
					Location:         "Bristol",
					Availability:     []domain.Availability{{WeekendKey: "2023-07-08", IsAvailable: true}},
					PreferredRegions: []string{"cornwall", "atlantis"},
					UpdatedAt:        time.Now(),
				},
				{ID: uuid.New(), Name: "Ben"},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{attendees: svc}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/"+testToken+"/attendees", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []handler.Attendee
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, []handler.Region{{ID: "cornwall", Name: "Cornwall"}, {ID: "atlantis", Name: "atlantis"}}, resp[0].PreferredRegions)
	assert.NotNil(t, resp[1].Availability, "empty availability is [] not null")
	assert.Empty(t, resp[1].PreferredRegions)
}

func TestListAttendees_EmptyIsArray(t *testing.T) {
	svc := &mockAttendeeServicer{
		list: func(context.Context, string) ([]domain.Attendee, error) { return []domain.Attendee{}, nil },
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{attendees: svc}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/"+testToken+"/attendees", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
