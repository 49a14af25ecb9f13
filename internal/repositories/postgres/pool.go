package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id               TEXT PRIMARY KEY,
    started_at       TIMESTAMPTZ NOT NULL,
    seed             BIGINT NOT NULL,
    arrival_rate     DOUBLE PRECISION NOT NULL,
    service_rate     DOUBLE PRECISION NOT NULL,
    runways          INTEGER NOT NULL,
    horizon_minutes  DOUBLE PRECISION NOT NULL,
    total_flights    INTEGER NOT NULL,
    flights_per_hour DOUBLE PRECISION NOT NULL,
    has_data         BOOLEAN NOT NULL,
    mean_wait        DOUBLE PRECISION,
    max_wait         DOUBLE PRECISION,
    mean_system_time DOUBLE PRECISION,
    utilization      DOUBLE PRECISION NOT NULL,
    theoretical_rho  DOUBLE PRECISION NOT NULL,
    theoretical_p0   DOUBLE PRECISION NOT NULL,
    theoretical_lq   DOUBLE PRECISION NOT NULL,
    theoretical_wq   DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS flights (
    run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    flight_id       INTEGER NOT NULL,
    callsign        TEXT NOT NULL,
    airline         TEXT NOT NULL,
    runway          INTEGER NOT NULL,
    arrival_time    DOUBLE PRECISION NOT NULL,
    service_time    DOUBLE PRECISION NOT NULL,
    start_time      DOUBLE PRECISION NOT NULL,
    completion_time DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (run_id, flight_id)
);`

// NewPool connects to the configured database and checks it answers.
func NewPool(ctx context.Context, config models.DatabaseConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the runs and flights tables when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
