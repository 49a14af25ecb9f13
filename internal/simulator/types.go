package simulator

import (
	"fmt"
	"log"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/xitongsys/parquet-go/schema"
)

// FlightRecordEvent is one flight as published to the flight_records topic
type FlightRecordEvent struct {
	RunID          string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	FlightID       int64   `json:"flightId" parquet:"name=flightId,type=INT64"`
	Callsign       string  `json:"callsign" parquet:"name=callsign,type=BYTE_ARRAY,convertedtype=UTF8"`
	Airline        string  `json:"airline" parquet:"name=airline,type=BYTE_ARRAY,convertedtype=UTF8"`
	Runway         int64   `json:"runway" parquet:"name=runway,type=INT64"`
	ArrivalTime    float64 `json:"arrivalTime" parquet:"name=arrivalTime,type=DOUBLE"`
	ServiceTime    float64 `json:"serviceTime" parquet:"name=serviceTime,type=DOUBLE"`
	StartTime      float64 `json:"startTime" parquet:"name=startTime,type=DOUBLE"`
	CompletionTime float64 `json:"completionTime" parquet:"name=completionTime,type=DOUBLE"`
	WaitingTime    float64 `json:"waitingTime" parquet:"name=waitingTime,type=DOUBLE"`
	SystemTime     float64 `json:"systemTime" parquet:"name=systemTime,type=DOUBLE"`
}

// RunwayStatsEvent is one runway's share of a run
type RunwayStatsEvent struct {
	RunID            string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Runway           int64   `json:"runway" parquet:"name=runway,type=INT64"`
	Flights          int64   `json:"flights" parquet:"name=flights,type=INT64"`
	TotalServiceTime float64 `json:"totalServiceTime" parquet:"name=totalServiceTime,type=DOUBLE"`
	Utilization      float64 `json:"utilization" parquet:"name=utilization,type=DOUBLE"`
}

// RunSummaryEvent carries the run parameters, the sample summary and the
// closed-form metrics
type RunSummaryEvent struct {
	RunID          string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	StartedAt      int64   `json:"startedAt" parquet:"name=startedAt,type=INT64"`
	Seed           int64   `json:"seed" parquet:"name=seed,type=INT64"`
	ArrivalRate    float64 `json:"arrivalRate" parquet:"name=arrivalRate,type=DOUBLE"`
	ServiceRate    float64 `json:"serviceRate" parquet:"name=serviceRate,type=DOUBLE"`
	Runways        int64   `json:"runways" parquet:"name=runways,type=INT64"`
	HorizonHours   float64 `json:"horizonHours" parquet:"name=horizonHours,type=DOUBLE"`
	TotalFlights   int64   `json:"totalFlights" parquet:"name=totalFlights,type=INT64"`
	FlightsPerHour float64 `json:"flightsPerHour" parquet:"name=flightsPerHour,type=DOUBLE"`
	HasData        bool    `json:"hasData" parquet:"name=hasData,type=BOOLEAN"`
	MeanWait       float64 `json:"meanWait" parquet:"name=meanWait,type=DOUBLE"`
	MaxWait        float64 `json:"maxWait" parquet:"name=maxWait,type=DOUBLE"`
	MeanSystemTime float64 `json:"meanSystemTime" parquet:"name=meanSystemTime,type=DOUBLE"`
	Utilization    float64 `json:"utilization" parquet:"name=utilization,type=DOUBLE"`
	TheoreticalRho float64 `json:"theoreticalRho" parquet:"name=theoreticalRho,type=DOUBLE"`
	TheoreticalP0  float64 `json:"theoreticalP0" parquet:"name=theoreticalP0,type=DOUBLE"`
	TheoreticalLq  float64 `json:"theoreticalLq" parquet:"name=theoreticalLq,type=DOUBLE"`
	TheoreticalWq  float64 `json:"theoreticalWq" parquet:"name=theoreticalWq,type=DOUBLE"`
}

func NewFlightRecordEvent(runID string, f models.FlightRecord) FlightRecordEvent {
	return FlightRecordEvent{
		RunID:          runID,
		FlightID:       int64(f.ID),
		Callsign:       f.Callsign,
		Airline:        f.Airline,
		Runway:         int64(f.Runway),
		ArrivalTime:    f.ArrivalTime,
		ServiceTime:    f.ServiceTime,
		StartTime:      f.StartTime,
		CompletionTime: f.CompletionTime,
		WaitingTime:    f.WaitingTime(),
		SystemTime:     f.SystemTime(),
	}
}

func NewRunwayStatsEvent(runID string, r models.RunwayStats) RunwayStatsEvent {
	return RunwayStatsEvent{
		RunID:            runID,
		Runway:           int64(r.Runway),
		Flights:          int64(r.Flights),
		TotalServiceTime: r.TotalServiceTime,
		Utilization:      r.Utilization,
	}
}

func NewRunSummaryEvent(run models.Run) RunSummaryEvent {
	return RunSummaryEvent{
		RunID:          run.ID,
		StartedAt:      run.StartedAt.Unix(),
		Seed:           run.Seed,
		ArrivalRate:    run.ArrivalRate,
		ServiceRate:    run.ServiceRate,
		Runways:        int64(run.Runways),
		HorizonHours:   run.Horizon.Hours(),
		TotalFlights:   int64(run.TotalFlights),
		FlightsPerHour: run.FlightsPerHour,
		HasData:        run.HasData,
		MeanWait:       run.MeanWait,
		MaxWait:        run.MaxWait,
		MeanSystemTime: run.MeanSystemTime,
		Utilization:    run.Utilization,
		TheoreticalRho: run.TheoreticalRho,
		TheoreticalP0:  run.TheoreticalP0,
		TheoreticalLq:  run.TheoreticalLq,
		TheoreticalWq:  run.TheoreticalWq,
	}
}

// newEventRow returns a pointer to an empty row of the type published on topic
func newEventRow(topic string) (interface{}, error) {
	switch topic {
	case models.TopicFlightRecords:
		return new(FlightRecordEvent), nil
	case models.TopicRunwayStats:
		return new(RunwayStatsEvent), nil
	case models.TopicRunSummaries:
		return new(RunSummaryEvent), nil
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
}

func GetSchema(topic string) (*schema.SchemaHandler, error) {
	row, err := newEventRow(topic)
	if err != nil {
		return nil, err
	}

	sh, err := schema.NewSchemaHandlerFromStruct(row)
	if err != nil {
		log.Printf("Error creating schema for %s: %v", topic, err)
		return nil, fmt.Errorf("error creating schema for %s: %w", topic, err)
	}
	return sh, nil
}
