package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/chrisdamba/runwaysim/internal/repositories"
	"github.com/chrisdamba/runwaysim/internal/repositories/postgres"
	"github.com/chrisdamba/runwaysim/internal/simulator/producers"
	"github.com/schollz/progressbar/v3"
)

// EventMessage is one serialized record bound for a topic.
type EventMessage struct {
	Topic   string
	Message []byte
}

// WithRepositories makes the simulator store runs through the given
// repositories instead of connecting to the configured database.
func (s *Simulator) WithRepositories(runs repositories.RunRepository, flights repositories.FlightRepository) *Simulator {
	s.runs = runs
	s.flights = flights
	return s
}

// determineOutputDestination returns nil when no output is configured.
func (s *Simulator) determineOutputDestination() (OutputDestination, error) {
	if s.output != nil {
		return s.output, nil
	}
	if s.Config.KafkaEnabled {
		producer, err := producers.NewSaramaProducer(s.Config, s.RunID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
		}
		return producer, nil
	}

	switch s.Config.OutputFormat {
	case "":
		return nil, nil
	case models.OutputFormatConsole:
		return NewConsoleOutput(os.Stdout), nil
	}

	store, err := newObjectStore(s.Config)
	if err != nil {
		return nil, err
	}
	switch s.Config.OutputFormat {
	case models.OutputFormatFile:
		return NewFileOutput(store), nil
	case models.OutputFormatCSV:
		return NewCSVOutput(store), nil
	case models.OutputFormatJSON:
		return NewJSONOutput(store), nil
	case models.OutputFormatParquet:
		return NewParquetOutput(store), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", s.Config.OutputFormat)
	}
}

// Messages serializes a result: the run summary first, then one message per
// runway and one per flight in arrival order.
func (s *Simulator) Messages(result *Result) ([]EventMessage, error) {
	messages := make([]EventMessage, 0, 1+len(result.Summary.Runways)+len(result.Flights))

	add := func(topic string, v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("error serializing %s event: %w", topic, err)
		}
		messages = append(messages, EventMessage{Topic: topic, Message: b})
		return nil
	}

	if err := add(models.TopicRunSummaries, NewRunSummaryEvent(s.RunRecord(result))); err != nil {
		return nil, err
	}
	for _, r := range result.Summary.Runways {
		if err := add(models.TopicRunwayStats, NewRunwayStatsEvent(result.RunID, r)); err != nil {
			return nil, err
		}
	}
	for _, f := range result.Flights {
		if err := add(models.TopicFlightRecords, NewFlightRecordEvent(result.RunID, f)); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

func (s *Simulator) publish(ctx context.Context, result *Result) error {
	output, err := s.determineOutputDestination()
	if err != nil {
		return err
	}

	var errs []error
	if output != nil {
		if err := s.writeResult(ctx, output, result); err != nil {
			errs = append(errs, err)
		}
		if err := output.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close output: %w", err))
		}
	}

	if s.runs != nil || s.Config.Database.Enabled {
		if err := s.persist(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Simulator) writeResult(ctx context.Context, output OutputDestination, result *Result) error {
	messages, err := s.Messages(result)
	if err != nil {
		return err
	}

	bar := s.progressBar(len(messages), output)
	defer bar.Finish()

	failed := 0
	for _, m := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := output.WriteMessage(m.Topic, m.Message); err != nil {
			log.Printf("Failed to write message: %v", err)
			failed++
		}
		bar.Add(1)
	}

	if failed > 0 {
		return fmt.Errorf("failed to write %d of %d messages", failed, len(messages))
	}
	return nil
}

// progressBar draws on stderr for sinks that do not already print to the
// terminal, and stays hidden otherwise.
func (s *Simulator) progressBar(total int, output OutputDestination) *progressbar.ProgressBar {
	_, console := output.(*ConsoleOutput)
	var w io.Writer = os.Stderr
	if s.Config.Quiet || console {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("publishing "+s.RunID),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (s *Simulator) persist(ctx context.Context, result *Result) error {
	runs, flights := s.runs, s.flights
	if runs == nil {
		pool, err := postgres.NewPool(ctx, s.Config.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		runs, flights = postgres.NewRunRepository(pool), postgres.NewFlightRepository(pool)
	}

	run := s.RunRecord(result)
	if err := runs.Create(ctx, &run); err != nil {
		return err
	}
	if err := flights.BulkCreate(ctx, result.RunID, result.Flights); err != nil {
		return err
	}

	log.Printf("Stored run %s with %d flights", result.RunID, len(result.Flights))
	return nil
}
