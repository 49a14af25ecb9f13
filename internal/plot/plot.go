package plot

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/chrisdamba/runwaysim/internal/report"
	"github.com/chrisdamba/runwaysim/internal/simulator"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	FlightSequenceFile          = "flight_sequence.png"
	WaitingTimeDistributionFile = "waiting_time_distribution.png"

	width  = 10 * vg.Inch
	height = 6 * vg.Inch
)

var (
	arrivalColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	completionColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	meanColor       = color.RGBA{R: 255, A: 255}
	histColor       = color.RGBA{R: 76, G: 114, B: 176, A: 160}
)

// WriteAll renders both plots for a result into dir and returns the files
// written. A run without flights yields models.ErrEmptySample.
func WriteAll(result *simulator.Result, dir string) ([]string, error) {
	sequence := filepath.Join(dir, FlightSequenceFile)
	if err := FlightSequence(result.Flights, sequence); err != nil {
		return nil, err
	}
	waiting := filepath.Join(dir, WaitingTimeDistributionFile)
	if err := WaitingTimeDistribution(result.Flights, waiting); err != nil {
		return nil, err
	}
	return []string{sequence, waiting}, nil
}

// FlightSequence plots arrival and completion times, in hours, against the
// flight index.
func FlightSequence(flights []models.FlightRecord, path string) error {
	if len(flights) == 0 {
		return fmt.Errorf("flight sequence plot: %w", models.ErrEmptySample)
	}

	p := gplot.New()
	p.Title.Text = "Flight Arrivals and Completions"
	p.X.Label.Text = "Flight Index"
	p.Y.Label.Text = "Time (hours)"
	p.Add(plotter.NewGrid())

	arrivals := make(plotter.XYs, len(flights))
	completions := make(plotter.XYs, len(flights))
	for i, f := range flights {
		arrivals[i] = plotter.XY{X: float64(i), Y: f.ArrivalTime / models.MinutesPerHour}
		completions[i] = plotter.XY{X: float64(i), Y: f.CompletionTime / models.MinutesPerHour}
	}

	if err := addSeries(p, "Arrival Time", arrivals, arrivalColor, draw.CircleGlyph{}); err != nil {
		return err
	}
	if err := addSeries(p, "Completion Time", completions, completionColor, draw.CrossGlyph{}); err != nil {
		return err
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return save(p, path)
}

func addSeries(p *gplot.Plot, name string, xys plotter.XYs, c color.Color, shape draw.GlyphDrawer) error {
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("failed to build %s series: %w", name, err)
	}
	line.Color = c
	points.Color = c
	points.Shape = shape
	p.Add(line, points)
	p.Legend.Add(name, line, points)
	return nil
}

// WaitingTimeDistribution plots a histogram of waiting times in minutes
// with a dashed line at the mean.
func WaitingTimeDistribution(flights []models.FlightRecord, path string) error {
	if len(flights) == 0 {
		return fmt.Errorf("waiting time plot: %w", models.ErrEmptySample)
	}
	waits := simulator.WaitingTimes(flights)

	p := gplot.New()
	p.Title.Text = "Distribution of Flight Waiting Times"
	p.X.Label.Text = "Waiting Time (minutes)"
	p.Y.Label.Text = "Number of Flights"
	p.Add(plotter.NewGrid())

	// same edges as the terminal chart
	edges, counts := report.Bins(waits, report.WaitingTimeBins)
	p.Add(histogram(edges, counts))

	mean := stat.Mean(waits, nil)
	meanLine, err := plotter.NewLine(plotter.XYs{{X: mean, Y: 0}, {X: mean, Y: floats.Max(counts)}})
	if err != nil {
		return fmt.Errorf("failed to build mean line: %w", err)
	}
	meanLine.Color = meanColor
	meanLine.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	meanLine.Width = vg.Points(1.5)
	p.Add(meanLine)
	p.Legend.Add(fmt.Sprintf("Mean: %.2f min", mean), meanLine)
	p.Legend.Top = true

	return save(p, path)
}

func histogram(edges, counts []float64) *plotter.Histogram {
	bins := make([]plotter.HistogramBin, len(counts))
	for i, c := range counts {
		bins[i] = plotter.HistogramBin{Min: edges[i], Max: edges[i+1], Weight: c}
	}
	return &plotter.Histogram{
		Bins:      bins,
		Width:     edges[1] - edges[0],
		FillColor: histColor,
		LineStyle: plotter.DefaultLineStyle,
	}
}

func save(p *gplot.Plot, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
