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

	"github.com/pkordes/hike-planner/backend/internal/consensus"
	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/handler"
	"github.com/pkordes/hike-planner/backend/internal/service"
)

// mockItineraryServicer is a test double for handler.ItineraryServicer.
type mockItineraryServicer struct {
	generate func(ctx context.Context, token string, choice service.ItineraryChoice) (service.ItineraryResult, error)
	stored   func(ctx context.Context, token string, choice service.ItineraryChoice) (service.ItineraryResult, error)
}

func (m *mockItineraryServicer) Generate(ctx context.Context, token string, choice service.ItineraryChoice) (service.ItineraryResult, error) {
	return m.generate(ctx, token, choice)
}
func (m *mockItineraryServicer) Stored(ctx context.Context, token string, choice service.ItineraryChoice) (service.ItineraryResult, error) {
	return m.stored(ctx, token, choice)
}

var _ handler.ItineraryServicer = (*mockItineraryServicer)(nil)

// itineraryResult is a stored Cornwall itinerary for the weekend of 8 July 2023.
func itineraryResult() service.ItineraryResult {
	weekend := domain.DeriveWeekends(2023, 7)[1]
	return service.ItineraryResult{
		Itinerary: domain.Itinerary{
			ID:         uuid.New(),
			WeekendKey: weekend.Formatted,
			RegionID:   "cornwall",
			Content:    "# Day 1\nArrive in Penzance.",
			CreatedAt:  time.Date(2023, 6, 20, 12, 0, 0, 0, time.UTC),
		},
		Params: consensus.ItineraryParams{Weekend: weekend, RegionID: "cornwall", RegionName: "Cornwall"},
		Stored: true,
	}
}

// ---- POST /trips/{token}/itinerary -----------------------------------------

func TestGenerateItinerary_201_EmptyBodyUsesConsensus(t *testing.T) {
	var got service.ItineraryChoice
	svc := &mockItineraryServicer{
		generate: func(_ context.Context, _ string, c service.ItineraryChoice) (service.ItineraryResult, error) {
			got = c
			return itineraryResult(), nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{itineraries: svc}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/trips/"+testToken+"/itinerary", bytes.NewReader(nil)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, service.ItineraryChoice{}, got)

	var resp handler.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "# Day 1\nArrive in Penzance.", resp.Content)
	assert.Equal(t, handler.Region{ID: "cornwall", Name: "Cornwall"}, resp.Region)
	assert.Equal(t, "2023-07-07", resp.Weekend.Friday.String())
	assert.Equal(t, "2023-07-08", resp.Weekend.Saturday.String())
	assert.Equal(t, "2023-07-09", resp.Weekend.Sunday.String())
	assert.Equal(t, "2023-07-10", resp.Weekend.Monday.String())
	assert.True(t, resp.Stored)
}

func TestGenerateItinerary_ExplicitChoice(t *testing.T) {
	var got service.ItineraryChoice
	svc := &mockItineraryServicer{
		generate: func(_ context.Context, _ string, c service.ItineraryChoice) (service.ItineraryResult, error) {
			got = c
			return itineraryResult(), nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{itineraries: svc}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/trips/"+testToken+"/itinerary", jsonBody(t, map[string]string{"weekend": "2023-07-08", "region": "cornwall"})))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, service.ItineraryChoice{WeekendKey: "2023-07-08", RegionID: "cornwall"}, got)
}

func TestGenerateItinerary_NotStored(t *testing.T) {
	res := itineraryResult()
	res.Stored = false
	svc := &mockItineraryServicer{
		generate: func(context.Context, string, service.ItineraryChoice) (service.ItineraryResult, error) { return res, nil },
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{itineraries: svc}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/trips/"+testToken+"/itinerary", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp handler.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Stored)
	assert.NotEmpty(t, resp.Content)
}

func TestGenerateItinerary_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"no consensus", fmt.Errorf("service.ItineraryService.Generate: %w: no consensus yet", domain.ErrValidation), http.StatusUnprocessableEntity, "validation_error"},
		{"unknown trip", fmt.Errorf("service.ItineraryService.Generate: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{"already running", fmt.Errorf("genlock.RedisLocker.Acquire: %w", domain.ErrConflict), http.StatusConflict, "conflict"},
		{"generator down", fmt.Errorf("service.ItineraryService.Generate: %w: %w", domain.ErrUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockItineraryServicer{
				generate: func(context.Context, string, service.ItineraryChoice) (service.ItineraryResult, error) {
					return service.ItineraryResult{}, tc.err
				},
			}

			rec := httptest.NewRecorder()
			newHTTPHandler(deps{itineraries: svc}).ServeHTTP(rec,
				httptest.NewRequest(http.MethodPost, "/trips/"+testToken+"/itinerary", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantErr, decodeError(t, rec).Error.Code)
		})
	}
}

func TestGenerateItinerary_UnknownField(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(deps{itineraries: &mockItineraryServicer{}}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/trips/"+testToken+"/itinerary", jsonBody(t, map[string]string{"month": "2023-07"})))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGenerateItinerary_LimiterWrapsOnlyGeneration(t *testing.T) {
	limited := 0
	limiter := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited++
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	svc := &mockItineraryServicer{
		stored: func(context.Context, string, service.ItineraryChoice) (service.ItineraryResult, error) {
			return itineraryResult(), nil
		},
	}
	h := newHTTPHandler(deps{itineraries: svc, opts: handler.Options{GenerateLimiter: limiter}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trips/"+testToken+"/itinerary", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/"+testToken+"/itinerary", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, limited)
}

// ---- GET /trips/{token}/itinerary ------------------------------------------

func TestGetItinerary_QueryParams(t *testing.T) {
	var gotToken string
	var got service.ItineraryChoice
	svc := &mockItineraryServicer{
		stored: func(_ context.Context, token string, c service.ItineraryChoice) (service.ItineraryResult, error) {
			gotToken, got = token, c
			return itineraryResult(), nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{itineraries: svc}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/trips/"+testToken+"/itinerary?weekend=2023-07-08&region=cornwall", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testToken, gotToken)
	assert.Equal(t, service.ItineraryChoice{WeekendKey: "2023-07-08", RegionID: "cornwall"}, got)

	var resp handler.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, time.Date(2023, 6, 20, 12, 0, 0, 0, time.UTC), resp.CreatedAt.UTC())
}

func TestGetItinerary_404(t *testing.T) {
	svc := &mockItineraryServicer{
		stored: func(context.Context, string, service.ItineraryChoice) (service.ItineraryResult, error) {
			return service.ItineraryResult{}, fmt.Errorf("repo.ItineraryRepo.Get: %w", domain.ErrNotFound)
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(deps{itineraries: svc}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/trips/"+testToken+"/itinerary", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "itinerary not found", decodeError(t, rec).Error.Message)
}
