package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	chartWidth = 60
	// WaitingTimeBins is the bin count used for waiting time distributions.
	WaitingTimeBins = 15
)

// Bins splits values into n equal-width bins spanning their range and
// returns the n+1 bin edges and the count in each bin.
func Bins(values []float64, n int) (edges, counts []float64) {
	if len(values) == 0 || n < 1 {
		return nil, nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	}
	edges = floats.Span(make([]float64, n+1), lo, hi)
	// the top edge must lie strictly above the largest value
	dividers := append([]float64(nil), edges...)
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts = stat.Histogram(nil, dividers, sorted, nil)
	return edges, counts
}

// Generator draws horizontal ASCII bar charts.
type Generator struct {
	width int
}

func NewGenerator() *Generator {
	return &Generator{width: chartWidth}
}

// HistogramChart draws the distribution of values in bins with the sample
// mean marked under the bars.
func (g *Generator) HistogramChart(title, unit string, values []float64, bins int) string {
	if len(values) == 0 {
		return "No data to display\n"
	}

	edges, counts := Bins(values, bins)
	maxCount := floats.Max(counts)
	mean := stat.Mean(values, nil)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", g.width+24))
	sb.WriteString("\n")

	for i, c := range counts {
		bar := 0
		if maxCount > 0 {
			bar = int(math.Round(c / maxCount * float64(g.width)))
		}
		marker := " "
		if mean >= edges[i] && (mean < edges[i+1] || i == len(counts)-1) {
			marker = "<"
		}
		sb.WriteString(fmt.Sprintf("%8.2f-%-8.2f |%s %d %s\n",
			edges[i], edges[i+1], strings.Repeat("█", bar), int(c), marker))
	}

	sb.WriteString(fmt.Sprintf("\nMean: %.2f %s (marked <)\n", mean, unit))
	return sb.String()
}
