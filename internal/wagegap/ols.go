package wagegap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const Constant = "const"

var ErrMissingColumns = errors.New("missing columns")

// Model is an ordinary least squares fit. Names, Coefficients, StdErrors and
// TValues are aligned, with the intercept first.
type Model struct {
	Response     string
	Names        []string
	Coefficients []float64
	StdErrors    []float64
	TValues      []float64
	RSquared     float64
	AdjRSquared  float64
	N            int
}

// Coef returns the coefficient of a regressor.
func (m *Model) Coef(name string) (float64, bool) {
	for i, n := range m.Names {
		if n == name {
			return m.Coefficients[i], true
		}
	}
	return 0, false
}

// FitOLS regresses response on regressors plus a constant. Rows with NaN in
// any of the used columns are dropped first.
func FitOLS(d *Dataset, regressors []string, response string) (*Model, error) {
	if missing := missingColumns(d, append(append([]string(nil), regressors...), response)); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, formatColumns(missing))
	}

	var rows []int
	for i := 0; i < d.Rows; i++ {
		if complete(d, i, regressors, response) {
			rows = append(rows, i)
		}
	}

	n, k := len(rows), len(regressors)+1
	if n <= k {
		return nil, fmt.Errorf("not enough complete observations: %d rows for %d parameters", n, k)
	}

	x := mat.NewDense(n, k, nil)
	y := mat.NewVecDense(n, nil)
	for r, i := range rows {
		x.Set(r, 0, 1)
		for j, name := range regressors {
			x.Set(r, j+1, d.Columns[name][i])
		}
		y.SetVec(r, d.Columns[response][i])
	}

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	var fitted, resid mat.VecDense
	fitted.MulVec(x, &beta)
	resid.SubVec(y, &fitted)
	ssr := mat.Dot(&resid, &resid)

	ys := mat.Col(nil, 0, y)
	ybar := stat.Mean(ys, nil)
	sst := 0.0
	for _, v := range ys {
		sst += (v - ybar) * (v - ybar)
	}

	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("design matrix is singular: %w", err)
	}
	sigma2 := ssr / float64(n-k)

	m := &Model{
		Response:     response,
		Names:        append([]string{Constant}, regressors...),
		Coefficients: make([]float64, k),
		StdErrors:    make([]float64, k),
		TValues:      make([]float64, k),
		N:            n,
	}
	for j := 0; j < k; j++ {
		m.Coefficients[j] = beta.AtVec(j)
		m.StdErrors[j] = math.Sqrt(sigma2 * xtxInv.At(j, j))
		m.TValues[j] = m.Coefficients[j] / m.StdErrors[j]
	}
	if sst > 0 {
		m.RSquared = 1 - ssr/sst
		m.AdjRSquared = 1 - (1-m.RSquared)*float64(n-1)/float64(n-k)
	}
	return m, nil
}

// GenderGap converts the gender dummy coefficient of a log-wage model into
// a percentage wage difference.
func GenderGap(m *Model) (float64, error) {
	beta, ok := m.Coef(GenderDummy)
	if !ok {
		return 0, fmt.Errorf("model has no %s regressor", GenderDummy)
	}
	return (math.Exp(beta) - 1) * 100, nil
}

func complete(d *Dataset, row int, regressors []string, response string) bool {
	if math.IsNaN(d.Columns[response][row]) {
		return false
	}
	for _, name := range regressors {
		if math.IsNaN(d.Columns[name][row]) {
			return false
		}
	}
	return true
}

func missingColumns(d *Dataset, columns []string) []string {
	var missing []string
	for _, c := range columns {
		if !d.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func formatColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = "'" + c + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
