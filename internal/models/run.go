package models

import "time"

// Run is the persisted outline of one simulation run: its parameters, the
// sample summary and the matching closed-form metrics.
type Run struct {
	ID             string
	StartedAt      time.Time
	Seed           int64
	ArrivalRate    float64
	ServiceRate    float64
	Runways        int
	Horizon        time.Duration
	TotalFlights   int
	FlightsPerHour float64
	HasData        bool
	MeanWait       float64
	MaxWait        float64
	MeanSystemTime float64
	Utilization    float64
	TheoreticalRho float64
	TheoreticalP0  float64
	TheoreticalLq  float64
	TheoreticalWq  float64
}
