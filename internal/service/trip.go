// Package service contains the business logic for the hike planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/repo"
)

// tokenAttempts bounds how often Create draws a new token after a collision.
const tokenAttempts = 3

// TripService implements business logic for Trip operations.
type TripService struct {
	repo     repo.TripRepo
	newToken func() string
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r, newToken: uuid.NewString}
}

// Create validates and persists a new trip. month may be any instant within
// the month; it is stored as the first day of that month. A fresh access
// token is generated for every trip.
// Returns domain.ErrValidation if the name is blank or month is zero.
func (s *TripService) Create(ctx context.Context, name string, month time.Time) (domain.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if month.IsZero() {
		return domain.Trip{}, fmt.Errorf("%w: month is required", domain.ErrValidation)
	}

	trip := domain.Trip{Name: name, Month: domain.MonthStart(month)}
	var err error
	for i := 0; i < tokenAttempts; i++ {
		trip.AccessToken = s.newToken()
		var result domain.Trip
		result, err = s.repo.Create(ctx, trip)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
}

// GetByToken returns the trip behind an access token.
// Returns domain.ErrNotFound if the token does not resolve.
func (s *TripService) GetByToken(ctx context.Context, token string) (domain.Trip, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByToken: %w", domain.ErrNotFound)
	}
	result, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByToken: %w", err)
	}
	return result, nil
}

// Weekends returns the weekends attendees can vote on for the trip's month.
func (s *TripService) Weekends(trip domain.Trip) []domain.Weekend {
	return tripWeekends(trip)
}

func tripWeekends(trip domain.Trip) []domain.Weekend {
	return domain.DeriveWeekends(trip.Month.Year(), trip.Month.Month())
}

// weekendSet indexes weekends by key for membership checks.
func weekendSet(weekends []domain.Weekend) map[string]domain.Weekend {
	set := make(map[string]domain.Weekend, len(weekends))
	for _, w := range weekends {
		set[w.Formatted] = w
	}
	return set
}
