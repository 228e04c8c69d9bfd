package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hike-planner/backend/internal/consensus"
)

// ConsensusResponse is the body of GET /trips/{token}/consensus.
type ConsensusResponse struct {
	AttendeeCount        int            `json:"attendee_count"`
	HasConsensus         bool           `json:"has_consensus"`
	CanGenerateItinerary bool           `json:"can_generate_itinerary"`
	BestWeekends         []WeekendScore `json:"best_weekends"`
	BestRegions          []RegionScore  `json:"best_regions"`
	// Weekends is the full tally, one entry per weekend of the month.
	Weekends        []WeekendScore   `json:"weekends"`
	ItineraryParams *ItineraryParams `json:"itinerary_params,omitempty"`
}

// WeekendScore is one weekend's vote count.
type WeekendScore struct {
	Weekend
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// RegionScore is one region's vote count.
type RegionScore struct {
	RegionID   string `json:"region_id"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// ItineraryParams is the weekend and region itinerary generation defaults
// to, with the Friday-to-Monday window it covers.
type ItineraryParams struct {
	Weekend    string             `json:"weekend"`
	RegionID   string             `json:"region_id"`
	RegionName string             `json:"region_name"`
	Friday     openapi_types.Date `json:"friday"`
	Monday     openapi_types.Date `json:"monday"`
}

// GetConsensus handles GET /trips/{token}/consensus.
func (s *Server) GetConsensus(w http.ResponseWriter, r *http.Request) {
	report, err := s.consensus.Results(r.Context(), tokenParam(r))
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}

	resp := ConsensusResponse{
		AttendeeCount:        report.AttendeeCount,
		HasConsensus:         report.Result.HasConsensus(),
		CanGenerateItinerary: report.Result.CanGenerateItinerary(),
		BestWeekends:         weekendScoresToResponse(report.Result.BestWeekends),
		BestRegions:          make([]RegionScore, len(report.Result.BestRegions)),
		Weekends:             weekendScoresToResponse(report.Tally),
	}
	for i, rs := range report.Result.BestRegions {
		resp.BestRegions[i] = RegionScore{RegionID: rs.RegionID, Name: rs.Name, Count: rs.Count, Percentage: rs.Percentage}
	}
	if resp.CanGenerateItinerary {
		p := paramsToResponse(report.Params)
		resp.ItineraryParams = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

func weekendScoresToResponse(scores []consensus.WeekendScore) []WeekendScore {
	out := make([]WeekendScore, len(scores))
	for i, sc := range scores {
		out[i] = WeekendScore{Weekend: weekendToResponse(sc.Weekend), Count: sc.Count, Percentage: sc.Percentage}
	}
	return out
}

func paramsToResponse(p consensus.ItineraryParams) ItineraryParams {
	return ItineraryParams{
		Weekend:    p.Weekend.Formatted,
		RegionID:   p.RegionID,
		RegionName: p.RegionName,
		Friday:     openapi_types.Date{Time: p.Friday()},
		Monday:     openapi_types.Date{Time: p.Monday()},
	}
}
