package simulator

import (
	"github.com/chrisdamba/runwaysim/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a run's flight records. When HasData is false the
// waiting and system time fields are meaningless and reported as "no data".
type Summary struct {
	TotalFlights   int
	FlightsPerHour float64
	HasData        bool
	MeanWait       float64
	MaxWait        float64
	MeanSystemTime float64
	TotalService   float64
	Utilization    float64
	Runways        []models.RunwayStats
	ArrivalsByHour []int
}

// Aggregate computes the run summary. It never divides by the flight count
// when there are no flights.
func Aggregate(flights []models.FlightRecord, cfg *models.Config) Summary {
	horizon := cfg.HorizonMinutes()
	summary := Summary{
		TotalFlights:   len(flights),
		FlightsPerHour: float64(len(flights)) / cfg.HorizonHours(),
		HasData:        len(flights) > 0,
		Runways:        make([]models.RunwayStats, cfg.Runways),
		ArrivalsByHour: make([]int, hourBuckets(cfg)),
	}
	for i := range summary.Runways {
		summary.Runways[i].Runway = i + 1
	}

	waits := make([]float64, len(flights))
	systemTimes := make([]float64, len(flights))
	for i, f := range flights {
		waits[i] = f.WaitingTime()
		systemTimes[i] = f.SystemTime()
		summary.TotalService += f.ServiceTime

		if f.Runway >= 1 && f.Runway <= len(summary.Runways) {
			stats := &summary.Runways[f.Runway-1]
			stats.Flights++
			stats.TotalServiceTime += f.ServiceTime
		}
		if h := f.Hour(); h >= 0 && h < len(summary.ArrivalsByHour) {
			summary.ArrivalsByHour[h]++
		}
	}

	for i := range summary.Runways {
		summary.Runways[i].Utilization = summary.Runways[i].TotalServiceTime / horizon
	}
	summary.Utilization = summary.TotalService / (float64(cfg.Runways) * horizon)

	if summary.HasData {
		summary.MeanWait = stat.Mean(waits, nil)
		summary.MaxWait = floats.Max(waits)
		summary.MeanSystemTime = stat.Mean(systemTimes, nil)
	}

	return summary
}

// WaitingTimes returns the waiting time of every flight, in arrival order.
func WaitingTimes(flights []models.FlightRecord) []float64 {
	waits := make([]float64, len(flights))
	for i, f := range flights {
		waits[i] = f.WaitingTime()
	}
	return waits
}

func hourBuckets(cfg *models.Config) int {
	hours := cfg.HorizonHours()
	n := int(hours)
	if float64(n) < hours {
		n++
	}
	return n
}
