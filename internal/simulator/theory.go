package simulator

import (
	"fmt"
	"math"

	"github.com/chrisdamba/runwaysim/internal/models"
)

// TheoreticalMetrics are the steady-state M/M/c (Erlang-C) quantities for a
// pair of hourly rates. Times are in minutes.
type TheoreticalMetrics struct {
	Rho         float64 // offered load per runway
	OfferedLoad float64 // lambda / mu, in Erlangs
	P0          float64 // probability all runways are idle
	ProbWait    float64 // Erlang-C probability an arrival has to wait
	Lq          float64 // expected number of flights waiting
	Wq          float64 // expected wait before landing
	L           float64 // expected number of flights in the system
	W           float64 // expected time in the system
}

// Theoretical evaluates the M/M/c formulas for arrival and service rates given
// per hour. It refuses rho >= 1 rather than returning diverging values.
func Theoretical(arrivalRate, serviceRate float64, runways int) (TheoreticalMetrics, error) {
	if !(arrivalRate > 0) || !(serviceRate > 0) || math.IsInf(arrivalRate, 0) || math.IsInf(serviceRate, 0) {
		return TheoreticalMetrics{}, fmt.Errorf("%w: rates must be positive and finite, got lambda=%v mu=%v",
			models.ErrInvalidConfiguration, arrivalRate, serviceRate)
	}
	if runways < 1 {
		return TheoreticalMetrics{}, fmt.Errorf("%w: runways must be at least 1, got %d", models.ErrInvalidConfiguration, runways)
	}

	c := float64(runways)
	rho := arrivalRate / (c * serviceRate)
	if rho >= 1 {
		return TheoreticalMetrics{}, fmt.Errorf("%w: rho=%.4f (lambda=%v, mu=%v, c=%d) must be below 1",
			models.ErrUnstableQueue, rho, arrivalRate, serviceRate, runways)
	}

	a := arrivalRate / serviceRate

	// term walks a^n/n! so factorials never overflow on their own
	sum, term := 0.0, 1.0
	for n := 0; n < runways; n++ {
		sum += term
		term *= a / float64(n+1)
	}
	tail := term / (1 - rho)

	p0 := 1 / (sum + tail)
	lq := p0 * term * rho / math.Pow(1-rho, 2)
	wq := lq / arrivalRate * models.MinutesPerHour

	return TheoreticalMetrics{
		Rho:         rho,
		OfferedLoad: a,
		P0:          p0,
		ProbWait:    tail * p0,
		Lq:          lq,
		Wq:          wq,
		L:           lq + a,
		W:           wq + models.MinutesPerHour/serviceRate,
	}, nil
}
