package wagegap

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticSurvey(n int, withStructural bool) *Survey {
	rng := rand.New(rand.NewSource(1))
	cols := map[string][]float64{}
	add := func(name string, v float64) { cols[name] = append(cols[name], v) }

	for i := 0; i < n; i++ {
		age := float64(18 + rng.Intn(42))
		edu := float64(rng.Intn(17))
		sex := float64(1 + rng.Intn(2))
		male := 0.0
		if sex == 1 {
			male = 1
		}
		logw := 5 + 0.02*age + 0.08*edu + 0.3*male + rng.NormFloat64()*0.05

		add(ColAge, age)
		add(ColEducation, edu)
		add(ColSex, sex)
		add(ColLogWages, logw)
		if withStructural {
			add(ColSector, float64(1+rng.Intn(2)))
			add(ColSocial, float64(1+rng.Intn(4)))
			add(ColWorkers, float64(1+rng.Intn(50)))
			add(ColOccupation, float64(50+rng.Intn(850)))
		}
	}

	s := &Survey{Columns: cols, Rows: n}
	for name := range cols {
		s.Header = append(s.Header, name)
	}
	return s
}

func TestFitOLSRecoversCoefficients(t *testing.T) {
	d, _ := Prepare(syntheticSurvey(500, false))
	m, err := FitOLS(d, Model1Regressors, ColLogWages)
	require.NoError(t, err)

	assert.Equal(t, []string{Constant, ColAge, ColEducation, GenderDummy}, m.Names)
	assert.Equal(t, 500, m.N)
	assert.InDelta(t, 5, m.Coefficients[0], 0.1)
	assert.InDelta(t, 0.02, m.Coefficients[1], 0.005)
	assert.InDelta(t, 0.08, m.Coefficients[2], 0.005)
	assert.InDelta(t, 0.3, m.Coefficients[3], 0.03)
	assert.Greater(t, m.RSquared, 0.9)
	assert.Less(t, m.AdjRSquared, m.RSquared)
	for i := range m.Names {
		assert.Greater(t, m.StdErrors[i], 0.0)
		assert.InDelta(t, m.Coefficients[i]/m.StdErrors[i], m.TValues[i], 1e-9)
	}

	beta, ok := m.Coef(GenderDummy)
	require.True(t, ok)
	gap, err := GenderGap(m)
	require.NoError(t, err)
	assert.InDelta(t, (math.Exp(beta)-1)*100, gap, 1e-9)
}

func TestFitOLSDropsIncompleteRows(t *testing.T) {
	s := syntheticSurvey(100, false)
	s.Columns[ColEducation][0] = math.NaN()
	d, _ := Prepare(s)

	m, err := FitOLS(d, Model1Regressors, ColLogWages)
	require.NoError(t, err)
	assert.Equal(t, 99, m.N)
}

func TestFitOLSErrors(t *testing.T) {
	d, _ := Prepare(syntheticSurvey(3, false))
	_, err := FitOLS(d, Model1Regressors, ColLogWages)
	assert.Error(t, err, "three rows cannot fit four parameters")

	_, err = FitOLS(d, []string{Sector}, ColLogWages)
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = GenderGap(&Model{Names: []string{Constant}, Coefficients: []float64{1}})
	assert.Error(t, err)
}

func TestPrepareFilters(t *testing.T) {
	s := &Survey{
		Columns: map[string][]float64{
			ColSex:        {1, 2, 3, 1, 2, 1, 2},
			ColLogWages:   {5, 0, 5, 5, 5, 5, 5},
			ColAge:        {30, 30, 30, 14, 15, 60, 61},
			ColEducation:  {10, 10, 10, 10, 10, 10, 10},
			ColSector:     {2, 1, 2, 2, 1, 2, 2},
			ColSocial:     {1, 2, 3, 4, 9, 3, 1},
			ColWorkers:    {10, 9, 50, 1, math.NaN(), 9, 10},
			ColOccupation: {100, 399, 400, 50, 250, 99, 100},
		},
		Rows: 7,
	}

	d, warnings := Prepare(s)
	assert.Empty(t, warnings)

	// kept: row 0 (male, 30), row 4 (female, 15), row 5 (male, 60)
	require.Equal(t, 3, d.Rows)
	assert.Equal(t, []float64{30, 15, 60}, d.Columns[ColAge])
	assert.Equal(t, []float64{1, 0, 1}, d.Columns[GenderDummy])
	assert.Equal(t, []float64{1, 0, 1}, d.Columns[Sector])
	assert.Equal(t, []float64{1, 0, 1}, d.Columns[SocialGroup])
	assert.Equal(t, []float64{1, 0, 0}, d.Columns[FirmSize])
	assert.Equal(t, []float64{1, 1, 0}, d.Columns[Occupation])
}

func TestAnalyzeSkipsModel2WhenColumnsMissing(t *testing.T) {
	a, err := Analyze(syntheticSurvey(200, false))
	require.NoError(t, err)

	assert.Equal(t, []Warning{
		"'Sector' column not found",
		"'Social Group' column not found",
		"'(Principal) No. Of Workers In The Enterprise' column not found",
		"'Occupation Code (NCO)' column not found",
	}, a.Warnings)
	require.NotNil(t, a.Model1)
	assert.Nil(t, a.Model2)
	assert.Equal(t, "Cannot run Model 2. Missing columns: ['sector', 'social_group', 'firm_size', 'occupation']", a.Skipped)

	var buf bytes.Buffer
	require.NoError(t, a.Write(&buf))
	out := buf.String()
	assert.Contains(t, out, "Warning: 'Sector' column not found!\n")
	assert.Contains(t, out, "Model 1 Results:")
	assert.Contains(t, out, "Gender wage gap (Model 1): ")
	assert.Contains(t, out, a.Skipped)
}

func TestAnalyzeRunsBothModels(t *testing.T) {
	a, err := Analyze(syntheticSurvey(400, true))
	require.NoError(t, err)
	assert.Empty(t, a.Warnings)
	require.NotNil(t, a.Model2)
	assert.Len(t, a.Model2.Names, len(Model2Regressors)+1)

	var buf bytes.Buffer
	require.NoError(t, a.Write(&buf))
	assert.Contains(t, buf.String(), "Gender wage gap (Model 2): ")
}

func TestLoadSurvey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	content := "Sex, Log(Wages) ,Age\n1,5.5,30\n2,abc,41\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadSurvey(path)
	require.NoError(t, err)
	assert.Equal(t, []string{ColSex, ColLogWages, ColAge}, s.Header)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 5.5, s.Columns[ColLogWages][0])
	assert.True(t, math.IsNaN(s.Columns[ColLogWages][1]))

	_, err = ReadSurvey(strings.NewReader(""))
	assert.Error(t, err)

	_, err = LoadSurvey(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
