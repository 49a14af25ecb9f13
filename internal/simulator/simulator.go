package simulator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/chrisdamba/runwaysim/internal/factories"
	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/chrisdamba/runwaysim/internal/repositories"
)

type Simulator struct {
	Config    *models.Config
	RunID     string
	StartedAt time.Time
	Rng       *rand.Rand

	labeler *factories.FlightFactory
	output  OutputDestination
	runs    repositories.RunRepository
	flights repositories.FlightRepository
}

// Result is everything a run produces. Flights are in arrival order.
type Result struct {
	RunID   string
	Config  models.Config
	Flights []models.FlightRecord
	Summary Summary
	Theory  TheoreticalMetrics
}

func NewSimulator(config *models.Config) *Simulator {
	return &Simulator{
		Config:    config,
		RunID:     factories.NewRunID(),
		StartedAt: time.Now().UTC(),
		Rng:       rand.New(rand.NewSource(config.Seed)),
		labeler:   factories.NewFlightFactory(config.Seed),
	}
}

// WithOutput makes the simulator publish to out instead of the destination
// named in its configuration.
func (s *Simulator) WithOutput(out OutputDestination) *Simulator {
	s.output = out
	return s
}

// Simulate generates the arrival and service samples and dispatches them to
// runways. It does not need a stable queue.
func (s *Simulator) Simulate() ([]models.FlightRecord, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}

	arrivals, err := GenerateArrivals(s.Rng, s.Config.ArrivalRatePerMinute(), s.Config.HorizonMinutes())
	if err != nil {
		return nil, err
	}
	services, err := GenerateServiceTimes(s.Rng, s.Config.ServiceRatePerMinute(), len(arrivals))
	if err != nil {
		return nil, err
	}

	flights, err := AssignRunways(arrivals, services, s.Config.Runways)
	if err != nil {
		return nil, err
	}
	for i := range flights {
		s.labeler.Label(&flights[i])
	}
	return flights, nil
}

// Run executes the whole pipeline: simulate, aggregate, evaluate the
// closed-form metrics and publish to the configured outputs. An unstable
// configuration fails the run.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Simulation %s starts: lambda=%.2f/h mu=%.2f/h runways=%d horizon=%s seed=%d",
		s.RunID, s.Config.ArrivalRate, s.Config.ServiceRate, s.Config.Runways, s.Config.Horizon, s.Config.Seed)

	flights, err := s.Simulate()
	if err != nil {
		return nil, err
	}

	theory, err := Theoretical(s.Config.ArrivalRate, s.Config.ServiceRate, s.Config.Runways)
	if err != nil {
		return nil, fmt.Errorf("theoretical metrics: %w", err)
	}

	result := &Result{
		RunID:   s.RunID,
		Config:  *s.Config,
		Flights: flights,
		Summary: Aggregate(flights, s.Config),
		Theory:  theory,
	}

	if err := s.publish(ctx, result); err != nil {
		return result, err
	}

	log.Printf("Simulation %s completed: %d flights", s.RunID, len(flights))
	return result, nil
}

// RunRecord condenses a result into the row stored for a run.
func (s *Simulator) RunRecord(result *Result) models.Run {
	return models.Run{
		ID:             result.RunID,
		StartedAt:      s.StartedAt,
		Seed:           result.Config.Seed,
		ArrivalRate:    result.Config.ArrivalRate,
		ServiceRate:    result.Config.ServiceRate,
		Runways:        result.Config.Runways,
		Horizon:        result.Config.Horizon,
		TotalFlights:   result.Summary.TotalFlights,
		FlightsPerHour: result.Summary.FlightsPerHour,
		HasData:        result.Summary.HasData,
		MeanWait:       result.Summary.MeanWait,
		MaxWait:        result.Summary.MaxWait,
		MeanSystemTime: result.Summary.MeanSystemTime,
		Utilization:    result.Summary.Utilization,
		TheoreticalRho: result.Theory.Rho,
		TheoreticalP0:  result.Theory.P0,
		TheoreticalLq:  result.Theory.Lq,
		TheoreticalWq:  result.Theory.Wq,
	}
}
