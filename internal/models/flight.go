package models

// FlightRecord is the outcome of one arrival. Times are minutes since the
// start of the simulation.
type FlightRecord struct {
	ID             int // 1-based, in arrival order
	Callsign       string
	Airline        string
	ArrivalTime    float64
	ServiceTime    float64
	Runway         int // 1-based runway number
	StartTime      float64
	CompletionTime float64
}

func (f FlightRecord) WaitingTime() float64 {
	return f.StartTime - f.ArrivalTime
}

func (f FlightRecord) SystemTime() float64 {
	return f.CompletionTime - f.ArrivalTime
}

// Hour is the simulation hour the flight arrived in.
func (f FlightRecord) Hour() int {
	return int(f.ArrivalTime / MinutesPerHour)
}

type RunwayStats struct {
	Runway           int
	Flights          int
	TotalServiceTime float64
	Utilization      float64
}
