package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/handler"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"}.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	// Arrange: health needs no services at all.
	h := newHTTPHandler(deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body.Status)
}

func TestGetOpenAPI_servesEmbeddedDocument(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(deps{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi: 3.")
	assert.Contains(t, rec.Body.String(), "/trips/{token}/consensus")
}

func TestMetrics_onlyMountedWhenConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(deps{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	rec = httptest.NewRecorder()
	newHTTPHandler(deps{opts: handler.Options{Metrics: metricsHandler}}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestListRegions_returnsCatalog(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(deps{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/regions", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var areas []domain.Area
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&areas))
	require.Len(t, areas, len(domain.Areas))
	assert.Equal(t, "wales", areas[0].ID)
	assert.Equal(t, domain.Areas[0].Regions, areas[0].Regions)
}
