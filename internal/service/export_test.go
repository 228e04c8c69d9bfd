package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hike-planner/backend/internal/domain"
	"github.com/pkordes/hike-planner/backend/internal/service"
)

func TestExportService_Export(t *testing.T) {
	ana := attendee("Ana", []string{"cornwall", "atlantis"}, "2023-07-08", "2023-07-29")
	ana.Location = "Bristol"
	svc := service.NewExportService(tripsWith(julyTrip()), attendeesReturning(
		ana,
		attendee("Ben", nil),
	))

	got, err := svc.Export(context.Background(), testToken)

	require.NoError(t, err)
	require.Len(t, got.Weekends, 5)
	require.Len(t, got.Rows, 2)

	assert.Equal(t, "Ana", got.Rows[0].AttendeeName)
	assert.Equal(t, "Bristol", got.Rows[0].Location)
	assert.Equal(t, []string{"Cornwall", "atlantis"}, got.Rows[0].Regions, "unknown ids fall back to the raw id")
	assert.Equal(t, []bool{false, true, false, false, true}, got.Rows[0].Available)

	assert.Equal(t, "Ben", got.Rows[1].AttendeeName)
	assert.Empty(t, got.Rows[1].Regions)
	assert.Equal(t, []bool{false, false, false, false, false}, got.Rows[1].Available)
}

func TestExportService_Export_NoAttendees(t *testing.T) {
	svc := service.NewExportService(tripsWith(julyTrip()), attendeesReturning())

	got, err := svc.Export(context.Background(), testToken)

	require.NoError(t, err)
	assert.Len(t, got.Weekends, 5)
	assert.NotNil(t, got.Rows)
	assert.Empty(t, got.Rows)
}

func TestExportService_Export_UnknownToken(t *testing.T) {
	svc := service.NewExportService(tripsWith(julyTrip()), attendeesReturning())

	_, err := svc.Export(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
