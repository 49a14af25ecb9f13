package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to RUNWAYSIM_TEST_DATABASE_URL or skips the test.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("RUNWAYSIM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("RUNWAYSIM_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	require.NoError(t, NewFlightRepository(pool).DeleteAll(ctx))
	require.NoError(t, NewRunRepository(pool).DeleteAll(ctx))
	return pool
}

func TestRunAndFlightRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	runs := NewRunRepository(pool)
	flights := NewFlightRepository(pool)

	run := &models.Run{
		ID:             "run-roundtrip",
		StartedAt:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Seed:           42,
		ArrivalRate:    10,
		ServiceRate:    12,
		Runways:        2,
		Horizon:        10 * time.Hour,
		TotalFlights:   2,
		FlightsPerHour: 0.2,
		HasData:        true,
		MeanWait:       1.5,
		MaxWait:        3,
		MeanSystemTime: 6,
		Utilization:    0.4,
		TheoreticalRho: 0.4167,
	}
	require.NoError(t, runs.Create(ctx, run))

	records := []models.FlightRecord{
		{ID: 1, Callsign: "KLM101", Airline: "KLM Royal Dutch Airlines", Runway: 1, ArrivalTime: 1, ServiceTime: 4, StartTime: 1, CompletionTime: 5},
		{ID: 2, Callsign: "BAW202", Airline: "British Airways", Runway: 1, ArrivalTime: 2, ServiceTime: 5, StartTime: 5, CompletionTime: 10},
	}
	require.NoError(t, flights.BulkCreate(ctx, run.ID, records))

	got, err := runs.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Horizon, got.Horizon)
	assert.InDelta(t, run.MeanWait, got.MeanWait, 1e-9)
	assert.True(t, got.StartedAt.Equal(run.StartedAt))

	stored, err := flights.GetByRunID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, records, stored)

	count, err := flights.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunWithoutFlightsStoresNullWaits(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	runs := NewRunRepository(pool)

	require.NoError(t, runs.Create(ctx, &models.Run{ID: "run-empty", StartedAt: time.Now().UTC(), Horizon: time.Hour}))
	require.NoError(t, NewFlightRepository(pool).BulkCreate(ctx, "run-empty", nil))

	var nullWaits bool
	err := pool.QueryRow(ctx, "SELECT mean_wait IS NULL FROM runs WHERE id = $1", "run-empty").Scan(&nullWaits)
	require.NoError(t, err)
	assert.True(t, nullWaits)
}

func TestGetByIDMissing(t *testing.T) {
	pool := testPool(t)
	_, err := NewRunRepository(pool).GetByID(context.Background(), "nope")
	assert.Error(t, err)
}
