package handler

import (
	"net/http"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// ListRegions handles GET /regions: the catalog of areas and their regions.
func (s *Server) ListRegions(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, domain.Areas)
}
