package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/chrisdamba/runwaysim/internal/simulator"
)

const noData = "no data"

// Writer prints a simulation result as text.
type Writer struct {
	w     io.Writer
	quiet bool
}

// NewWriter returns a Writer printing to w. A quiet writer leaves out the
// per-flight lines.
func NewWriter(w io.Writer, quiet bool) *Writer {
	return &Writer{w: w, quiet: quiet}
}

func (rw *Writer) Write(result *simulator.Result) error {
	var sb strings.Builder

	if !rw.quiet {
		writeFlights(&sb, result)
	}
	writeSummary(&sb, result)
	writeRunways(&sb, result.Summary)
	writeHourly(&sb, result.Summary)
	writeTheory(&sb, result.Theory)
	writeComparison(&sb, result)

	_, err := io.WriteString(rw.w, sb.String())
	return err
}

// WriteHistogram prints the waiting time distribution as an ASCII chart.
func (rw *Writer) WriteHistogram(result *simulator.Result) error {
	chart := NewGenerator().HistogramChart("Distribution of Flight Waiting Times",
		"min", simulator.WaitingTimes(result.Flights), WaitingTimeBins)
	_, err := io.WriteString(rw.w, chart)
	return err
}

func writeFlights(sb *strings.Builder, result *simulator.Result) {
	for _, f := range result.Flights {
		fmt.Fprintf(sb, "Flight %d (%s): Arrival at %s, Waiting %s, Departure at %s, Runway %d\n",
			f.ID, f.Callsign, FormatClock(f.ArrivalTime), FormatClock(f.WaitingTime()),
			FormatClock(f.CompletionTime), f.Runway)
	}
}

func writeSummary(sb *strings.Builder, result *simulator.Result) {
	s := result.Summary
	sb.WriteString("\n==== SIMULATION SUMMARY ====\n")
	fmt.Fprintf(sb, "Run: %s (seed %d)\n", result.RunID, result.Config.Seed)
	fmt.Fprintf(sb, "Parameters: lambda=%g/h, mu=%g/h, runways=%d, horizon=%s\n",
		result.Config.ArrivalRate, result.Config.ServiceRate, result.Config.Runways, result.Config.Horizon)
	fmt.Fprintf(sb, "Total flights: %d\n", s.TotalFlights)
	fmt.Fprintf(sb, "Average flights per hour: %.2f\n", s.FlightsPerHour)
	fmt.Fprintf(sb, "Average waiting time: %s\n", clockOrNoData(s.HasData, s.MeanWait))
	fmt.Fprintf(sb, "Maximum waiting time: %s\n", clockOrNoData(s.HasData, s.MaxWait))
	fmt.Fprintf(sb, "Average time in system: %s\n", clockOrNoData(s.HasData, s.MeanSystemTime))
	fmt.Fprintf(sb, "Overall runway utilization: %s\n", percent(s.Utilization))
}

func writeRunways(sb *strings.Builder, s simulator.Summary) {
	sb.WriteString("\n==== RUNWAY STATISTICS ====\n")
	for _, r := range s.Runways {
		fmt.Fprintf(sb, "Runway %d: %d flights, %s utilization\n", r.Runway, r.Flights, percent(r.Utilization))
	}
}

func writeHourly(sb *strings.Builder, s simulator.Summary) {
	sb.WriteString("\n==== ARRIVALS BY HOUR ====\n")
	for h, n := range s.ArrivalsByHour {
		fmt.Fprintf(sb, "Hour %2d: %d\n", h, n)
	}
}

func writeTheory(sb *strings.Builder, t simulator.TheoreticalMetrics) {
	sb.WriteString("\n==== THEORETICAL METRICS ====\n")
	fmt.Fprintf(sb, "Theoretical utilization (rho): %s\n", percent(t.Rho))
	fmt.Fprintf(sb, "Probability all runways idle (P0): %.4f\n", t.P0)
	fmt.Fprintf(sb, "Probability a flight waits: %.4f\n", t.ProbWait)
	fmt.Fprintf(sb, "Expected flights waiting (Lq): %.4f\n", t.Lq)
	fmt.Fprintf(sb, "Theoretical average waiting time: %s\n", FormatClock(t.Wq))
	fmt.Fprintf(sb, "Theoretical average time in system: %s\n", FormatClock(t.W))
}

func writeComparison(sb *strings.Builder, result *simulator.Result) {
	s, t := result.Summary, result.Theory
	sb.WriteString("\n==== SIMULATED VS THEORETICAL ====\n")
	fmt.Fprintf(sb, "Utilization: %s simulated, %s theoretical\n", percent(s.Utilization), percent(t.Rho))
	if s.HasData {
		fmt.Fprintf(sb, "Average waiting time: %.2f min simulated, %.2f min theoretical\n", s.MeanWait, t.Wq)
	} else {
		fmt.Fprintf(sb, "Average waiting time: %s simulated, %.2f min theoretical\n", noData, t.Wq)
	}
}

func clockOrNoData(hasData bool, minutes float64) string {
	if !hasData {
		return noData
	}
	return FormatClock(minutes)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
