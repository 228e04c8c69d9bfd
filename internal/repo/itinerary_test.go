package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/repo"
	"github.com/pkordes/hike-planner/backend/testutil"
)

func newItineraryRepos(t *testing.T) (repo.ItineraryRepo, domain.Trip) {
	t.Helper()
	tx := testutil.NewTx(t)
	trip := createTrip(t, repo.NewTripRepo(tx))
	return repo.NewItineraryRepo(tx), trip
}

func TestItineraryRepo_UpsertAndGet(t *testing.T) {
	r, trip := newItineraryRepos(t)
	ctx := context.Background()

	saved, err := r.Upsert(ctx, domain.Itinerary{
		TripID:     trip.ID,
		WeekendKey: "2023-07-08",
		RegionID:   "cornwall",
		Content:    "# Day 1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, "2023-07-08", saved.WeekendKey)

	got, err := r.Get(ctx, trip.ID, "2023-07-08", "cornwall")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "# Day 1", got.Content)
}

func TestItineraryRepo_Upsert_Overwrites(t *testing.T) {
	r, trip := newItineraryRepos(t)
	ctx := context.Background()

	it := domain.Itinerary{TripID: trip.ID, WeekendKey: "2023-07-08", RegionID: "cornwall", Content: "first"}
	first, err := r.Upsert(ctx, it)
	require.NoError(t, err)

	it.Content = "second"
	second, err := r.Upsert(ctx, it)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	got, err := r.Get(ctx, trip.ID, "2023-07-08", "cornwall")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Content)
}

func TestItineraryRepo_Get_NotFound(t *testing.T) {
	r, trip := newItineraryRepos(t)

	_, err := r.Get(context.Background(), trip.ID, "2023-07-08", "devon")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryRepo_BadWeekendKey(t *testing.T) {
	r, trip := newItineraryRepos(t)

	_, err := r.Get(context.Background(), trip.ID, "July 8th", "devon")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
