package simulator

import (
	"fmt"
	"math/rand"

	"github.com/chrisdamba/runwaysim/internal/models"
)

// exponential draws an exponentially distributed duration with the given rate
// (events per minute). The result is strictly positive.
func exponential(rng *rand.Rand, rate float64) float64 {
	return rng.ExpFloat64() / rate
}

// GenerateArrivals builds a Poisson arrival stream on [0, horizonMinutes) by
// accumulating exponential inter-arrival gaps. The first arrival that would
// reach the horizon is discarded and ends the stream.
func GenerateArrivals(rng *rand.Rand, ratePerMinute, horizonMinutes float64) ([]float64, error) {
	if !(ratePerMinute > 0) {
		return nil, fmt.Errorf("%w: arrival rate must be greater than 0, got %v", models.ErrInvalidConfiguration, ratePerMinute)
	}
	if !(horizonMinutes > 0) {
		return nil, fmt.Errorf("%w: horizon must be greater than 0, got %v", models.ErrInvalidConfiguration, horizonMinutes)
	}

	// expected count plus a little headroom
	arrivals := make([]float64, 0, int(ratePerMinute*horizonMinutes)+16)
	currentTime := 0.0
	for {
		next := currentTime + exponential(rng, ratePerMinute)
		if next >= horizonMinutes {
			break
		}
		if next <= currentTime {
			// gap too small to move the clock in float64
			continue
		}
		arrivals = append(arrivals, next)
		currentTime = next
	}
	return arrivals, nil
}

// GenerateServiceTimes draws n independent exponential service durations.
func GenerateServiceTimes(rng *rand.Rand, ratePerMinute float64, n int) ([]float64, error) {
	if !(ratePerMinute > 0) {
		return nil, fmt.Errorf("%w: service rate must be greater than 0, got %v", models.ErrInvalidConfiguration, ratePerMinute)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative sample size %d", models.ErrInvalidConfiguration, n)
	}

	services := make([]float64, n)
	for i := range services {
		services[i] = exponential(rng, ratePerMinute)
	}
	return services, nil
}
