package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var flightColumns = []string{
	"run_id", "flight_id", "callsign", "airline", "runway",
	"arrival_time", "service_time", "start_time", "completion_time",
}

type FlightRepository struct {
	pool *pgxpool.Pool
}

func NewFlightRepository(pool *pgxpool.Pool) *FlightRepository {
	return &FlightRepository{pool: pool}
}

// BulkCreate copies a run's flights in one COPY round trip.
func (r *FlightRepository) BulkCreate(ctx context.Context, runID string, flights []models.FlightRecord) error {
	if len(flights) == 0 {
		return nil
	}

	rows := pgx.CopyFromSlice(len(flights), func(i int) ([]any, error) {
		f := flights[i]
		return []any{
			runID,
			f.ID,
			f.Callsign,
			f.Airline,
			f.Runway,
			f.ArrivalTime,
			f.ServiceTime,
			f.StartTime,
			f.CompletionTime,
		}, nil
	})

	copied, err := r.pool.CopyFrom(ctx, pgx.Identifier{"flights"}, flightColumns, rows)
	if err != nil {
		return fmt.Errorf("failed to copy flights for run %s: %w", runID, err)
	}
	if int(copied) != len(flights) {
		return fmt.Errorf("copied %d of %d flights for run %s", copied, len(flights), runID)
	}
	return nil
}

func (r *FlightRepository) GetByRunID(ctx context.Context, runID string) ([]models.FlightRecord, error) {
	query := `
        SELECT flight_id, callsign, airline, runway,
               arrival_time, service_time, start_time, completion_time
        FROM flights WHERE run_id = $1 ORDER BY flight_id
    `
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []models.FlightRecord
	for rows.Next() {
		var f models.FlightRecord
		err := rows.Scan(
			&f.ID,
			&f.Callsign,
			&f.Airline,
			&f.Runway,
			&f.ArrivalTime,
			&f.ServiceTime,
			&f.StartTime,
			&f.CompletionTime,
		)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *FlightRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM flights").Scan(&count)
	return count, err
}

func (r *FlightRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM flights")
	return err
}
