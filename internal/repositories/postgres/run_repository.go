package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func (r *RunRepository) Create(ctx context.Context, run *models.Run) error {
	query := `
        INSERT INTO runs (
            id, started_at, seed, arrival_rate, service_rate, runways,
            horizon_minutes, total_flights, flights_per_hour, has_data,
            mean_wait, max_wait, mean_system_time, utilization,
            theoretical_rho, theoretical_p0, theoretical_lq, theoretical_wq
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
            $11, $12, $13, $14, $15, $16, $17, $18
        )
    `
	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.StartedAt,
		run.Seed,
		run.ArrivalRate,
		run.ServiceRate,
		run.Runways,
		run.Horizon.Minutes(),
		run.TotalFlights,
		run.FlightsPerHour,
		run.HasData,
		nullWhenEmpty(run.HasData, run.MeanWait),
		nullWhenEmpty(run.HasData, run.MaxWait),
		nullWhenEmpty(run.HasData, run.MeanSystemTime),
		run.Utilization,
		run.TheoreticalRho,
		run.TheoreticalP0,
		run.TheoreticalLq,
		run.TheoreticalWq,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	query := `
        SELECT id, started_at, seed, arrival_rate, service_rate, runways,
               horizon_minutes, total_flights, flights_per_hour, has_data,
               COALESCE(mean_wait, 0), COALESCE(max_wait, 0), COALESCE(mean_system_time, 0),
               utilization, theoretical_rho, theoretical_p0, theoretical_lq, theoretical_wq
        FROM runs WHERE id = $1
    `
	var run models.Run
	var horizonMinutes float64
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.StartedAt,
		&run.Seed,
		&run.ArrivalRate,
		&run.ServiceRate,
		&run.Runways,
		&horizonMinutes,
		&run.TotalFlights,
		&run.FlightsPerHour,
		&run.HasData,
		&run.MeanWait,
		&run.MaxWait,
		&run.MeanSystemTime,
		&run.Utilization,
		&run.TheoreticalRho,
		&run.TheoreticalP0,
		&run.TheoreticalLq,
		&run.TheoreticalWq,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	run.Horizon = time.Duration(horizonMinutes * float64(time.Minute))
	return &run, nil
}

func (r *RunRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

func (r *RunRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM runs")
	return err
}

// nullWhenEmpty stores waiting statistics as NULL for runs without flights.
func nullWhenEmpty(hasData bool, v float64) *float64 {
	if !hasData {
		return nil
	}
	return &v
}
