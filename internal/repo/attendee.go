package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// foreignKeyViolation is the Postgres SQLSTATE for a missing parent row.
const foreignKeyViolation = "23503"

// AttendeeRepo defines the persistence operations for attendees and their
// availability and preferred-region rows.
type AttendeeRepo interface {
	// Upsert stores a submission under (tripID, prefs.Name). An existing
	// attendee with that exact name keeps its id; its location is overwritten
	// and its availability and preferred regions are replaced wholesale.
	// Returns the attendee id.
	Upsert(ctx context.Context, tripID uuid.UUID, prefs domain.AttendeePreferences) (uuid.UUID, error)

	// ListByTrip returns every attendee of a trip with availability ordered by
	// weekend and preferred regions in submitted order. Attendees are ordered
	// by first submission.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Attendee, error)
}

// pgAttendeeRepo is the Postgres implementation of AttendeeRepo.
type pgAttendeeRepo struct {
	db db
}

// NewAttendeeRepo constructs an AttendeeRepo backed by the provided db connection.
func NewAttendeeRepo(db db) AttendeeRepo {
	return &pgAttendeeRepo{db: db}
}

// Upsert runs in a single transaction so readers never see an attendee with
// half of a resubmission applied.
func (r *pgAttendeeRepo) Upsert(ctx context.Context, tripID uuid.UUID, prefs domain.AttendeePreferences) (uuid.UUID, error) {
	const upsertAttendee = `
		INSERT INTO attendees (trip_id, name, location)
		VALUES (@trip_id, @name, @location)
		ON CONFLICT (trip_id, name) DO UPDATE
		SET location   = EXCLUDED.location,
		    updated_at = now()
		RETURNING id`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.AttendeeRepo.Upsert: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after Commit

	var id pgtype.UUID
	err = tx.QueryRow(ctx, upsertAttendee, pgx.NamedArgs{
		"trip_id":  tripID,
		"name":     prefs.Name,
		"location": prefs.Location,
	}).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return uuid.Nil, fmt.Errorf("repo.AttendeeRepo.Upsert: trip: %w", domain.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("repo.AttendeeRepo.Upsert: attendee: %w", err)
	}
	attendeeID := uuid.UUID(id.Bytes)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM availability WHERE attendee_id = @attendee_id`,
		pgx.NamedArgs{"attendee_id": attendeeID})
	batch.Queue(`DELETE FROM preferred_regions WHERE attendee_id = @attendee_id`,
		pgx.NamedArgs{"attendee_id": attendeeID})

	for _, av := range prefs.Availability {
		date, err := domain.ParseWeekendKey(av.WeekendKey)
		if err != nil {
			return uuid.Nil, fmt.Errorf("repo.AttendeeRepo.Upsert: weekend key %q: %w", av.WeekendKey, err)
		}
		batch.Queue(`
			INSERT INTO availability (attendee_id, weekend_date, is_available)
			VALUES (@attendee_id, @weekend_date, @is_available)`,
			pgx.NamedArgs{"attendee_id": attendeeID, "weekend_date": date, "is_available": av.IsAvailable})
	}
	for i, region := range prefs.SelectedRegions {
		batch.Queue(`
			INSERT INTO preferred_regions (attendee_id, region, position)
			VALUES (@attendee_id, @region, @position)`,
			pgx.NamedArgs{"attendee_id": attendeeID, "region": region, "position": i})
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return uuid.Nil, fmt.Errorf("repo.AttendeeRepo.Upsert: replace preferences: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("repo.AttendeeRepo.Upsert: commit: %w", err)
	}
	return attendeeID, nil
}

// ListByTrip loads attendees, availability and regions with one query each
// and stitches them together in memory.
func (r *pgAttendeeRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Attendee, error) {
	const qAttendees = `
		SELECT id, trip_id, name, location, created_at, updated_at
		FROM attendees
		WHERE trip_id = @trip_id
		ORDER BY created_at, name`

	rows, err := r.db.Query(ctx, qAttendees, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.AttendeeRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	attendees := []domain.Attendee{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AttendeeRepo.ListByTrip: scan: %w", err)
		}
		index[a.ID] = len(attendees)
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AttendeeRepo.ListByTrip: rows: %w", err)
	}
	if len(attendees) == 0 {
		return attendees, nil
	}

	if err := r.loadAvailability(ctx, tripID, attendees, index); err != nil {
		return nil, fmt.Errorf("repo.AttendeeRepo.ListByTrip: %w", err)
	}
	if err := r.loadRegions(ctx, tripID, attendees, index); err != nil {
		return nil, fmt.Errorf("repo.AttendeeRepo.ListByTrip: %w", err)
	}
	return attendees, nil
}

func (r *pgAttendeeRepo) loadAvailability(ctx context.Context, tripID uuid.UUID, attendees []domain.Attendee, index map[uuid.UUID]int) error {
	const q = `
		SELECT av.attendee_id, av.weekend_date, av.is_available
		FROM availability av
		JOIN attendees a ON a.id = av.attendee_id
		WHERE a.trip_id = @trip_id
		ORDER BY av.weekend_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return fmt.Errorf("availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			attendeeID pgtype.UUID
			date       pgtype.Date
			available  bool
		)
		if err := rows.Scan(&attendeeID, &date, &available); err != nil {
			return fmt.Errorf("availability: scan: %w", err)
		}
		i := index[uuid.UUID(attendeeID.Bytes)]
		attendees[i].Availability = append(attendees[i].Availability, domain.Availability{
			WeekendKey:  date.Time.Format(domain.WeekendKeyLayout),
			IsAvailable: available,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("availability: rows: %w", err)
	}
	return nil
}

func (r *pgAttendeeRepo) loadRegions(ctx context.Context, tripID uuid.UUID, attendees []domain.Attendee, index map[uuid.UUID]int) error {
	const q = `
		SELECT pr.attendee_id, pr.region
		FROM preferred_regions pr
		JOIN attendees a ON a.id = pr.attendee_id
		WHERE a.trip_id = @trip_id
		ORDER BY pr.attendee_id, pr.position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return fmt.Errorf("regions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			attendeeID pgtype.UUID
			region     string
		)
		if err := rows.Scan(&attendeeID, &region); err != nil {
			return fmt.Errorf("regions: scan: %w", err)
		}
		i := index[uuid.UUID(attendeeID.Bytes)]
		attendees[i].PreferredRegions = append(attendees[i].PreferredRegions, region)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("regions: rows: %w", err)
	}
	return nil
}

// scanAttendee maps the attendee columns of a row; availability and regions
// are filled in separately.
func scanAttendee(s scanner) (domain.Attendee, error) {
	var (
		a      domain.Attendee
		id     pgtype.UUID
		tripID pgtype.UUID
	)
	if err := s.Scan(&id, &tripID, &a.Name, &a.Location, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Attendee{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(tripID.Bytes)
	return a, nil
}
