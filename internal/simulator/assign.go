package simulator

import (
	"fmt"
	"math"

	"github.com/chrisdamba/runwaysim/internal/models"
)

// AssignRunways dispatches flights first-come-first-served, in the order of
// arrivals, to the runway that frees up first (lowest index on ties).
func AssignRunways(arrivals, services []float64, runways int) ([]models.FlightRecord, error) {
	if runways < 1 {
		return nil, fmt.Errorf("%w: runways must be at least 1, got %d", models.ErrInvalidConfiguration, runways)
	}
	if len(arrivals) != len(services) {
		return nil, fmt.Errorf("got %d arrivals but %d service times", len(arrivals), len(services))
	}

	queue := models.NewRunwayQueue(runways)
	flights := make([]models.FlightRecord, len(arrivals))

	for i, arrival := range arrivals {
		runway := queue.Dequeue()

		startTime := math.Max(arrival, runway.FreeAt)
		completionTime := startTime + services[i]
		runway.FreeAt = completionTime
		queue.Enqueue(runway)

		flights[i] = models.FlightRecord{
			ID:             i + 1,
			ArrivalTime:    arrival,
			ServiceTime:    services[i],
			Runway:         runway.Index + 1,
			StartTime:      startTime,
			CompletionTime: completionTime,
		}
	}

	return flights, nil
}
