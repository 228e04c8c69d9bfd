package service

import (
	"context"
	"fmt"

	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/repo"
)

// ExportService assembles the availability table of a trip: one row per
// attendee, one column per weekend.
type ExportService struct {
	trips     repo.TripRepo
	attendees repo.AttendeeRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, attendees repo.AttendeeRepo) *ExportService {
	return &ExportService{trips: trips, attendees: attendees}
}

// Export returns the table for the trip behind token. A trip with no
// attendees yields the weekend header and no rows.
func (s *ExportService) Export(ctx context.Context, token string) (domain.ExportTable, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return domain.ExportTable{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	attendees, err := s.attendees.ListByTrip(ctx, trip.ID)
	if err != nil {
		return domain.ExportTable{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	weekends := tripWeekends(trip)
	table := domain.ExportTable{
		Weekends: weekends,
		Rows:     make([]domain.ExportRow, 0, len(attendees)),
	}
	for _, a := range attendees {
		row := domain.ExportRow{
			AttendeeName: a.Name,
			Location:     a.Location,
			Regions:      make([]string, 0, len(a.PreferredRegions)),
			Available:    make([]bool, len(weekends)),
		}
		for _, id := range a.PreferredRegions {
			row.Regions = append(row.Regions, domain.RegionName(id))
		}
		for i, w := range weekends {
			row.Available[i] = a.IsAvailable(w.Formatted)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
