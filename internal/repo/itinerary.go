package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// ItineraryRepo defines the persistence operations for generated itineraries.
type ItineraryRepo interface {
	// Upsert stores content for (TripID, WeekendKey, RegionID), replacing any
	// earlier itinerary for the same combination.
	Upsert(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)

	// Get returns the stored itinerary for the combination.
	// Returns domain.ErrNotFound if none has been generated yet.
	Get(ctx context.Context, tripID uuid.UUID, weekendKey, regionID string) (domain.Itinerary, error)
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

// Upsert relies on the (trip_id, weekend_date, region_id) unique constraint.
// created_at is refreshed so it always reflects the latest generation.
func (r *pgItineraryRepo) Upsert(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	const q = `
		INSERT INTO trip_itineraries (trip_id, weekend_date, region_id, content)
		VALUES (@trip_id, @weekend_date, @region_id, @content)
		ON CONFLICT (trip_id, weekend_date, region_id) DO UPDATE
		SET content    = EXCLUDED.content,
		    created_at = now()
		RETURNING id, trip_id, weekend_date, region_id, content, created_at`

	date, err := domain.ParseWeekendKey(it.WeekendKey)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Upsert: weekend key %q: %w", it.WeekendKey, err)
	}

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":      it.TripID,
		"weekend_date": date,
		"region_id":    it.RegionID,
		"content":      it.Content,
	})
	result, err := scanItinerary(row)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Upsert: %w", err)
	}
	return result, nil
}

// Get retrieves the itinerary for one trip/weekend/region combination.
func (r *pgItineraryRepo) Get(ctx context.Context, tripID uuid.UUID, weekendKey, regionID string) (domain.Itinerary, error) {
	const q = `
		SELECT id, trip_id, weekend_date, region_id, content, created_at
		FROM trip_itineraries
		WHERE trip_id = @trip_id
		  AND weekend_date = @weekend_date
		  AND region_id = @region_id`

	date, err := domain.ParseWeekendKey(weekendKey)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Get: weekend key %q: %w", weekendKey, err)
	}

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":      tripID,
		"weekend_date": date,
		"region_id":    regionID,
	})
	result, err := scanItinerary(row)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Get: %w", err)
	}
	return result, nil
}

// scanItinerary maps a single database row into a domain.Itinerary.
func scanItinerary(s scanner) (domain.Itinerary, error) {
	var (
		it     domain.Itinerary
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)
	err := s.Scan(&id, &tripID, &date, &it.RegionID, &it.Content, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, domain.ErrNotFound
		}
		return domain.Itinerary{}, err
	}
	it.ID = uuid.UUID(id.Bytes)
	it.TripID = uuid.UUID(tripID.Bytes)
	it.WeekendKey = date.Time.Format(domain.WeekendKeyLayout)
	return it, nil
}
