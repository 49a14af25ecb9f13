package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestSimulateCommand(t *testing.T) {
	out, err := execute(t, "--quiet", "--no-plots", "--seed", "7", "--arrival-rate", "10",
		"--service-rate", "12", "--runways", "2", "--horizon", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "==== SIMULATION SUMMARY ====")
	assert.Contains(t, out, "Parameters: lambda=10/h, mu=12/h, runways=2, horizon=3h0m0s")
	assert.Contains(t, out, "Runway 2: ")
	assert.Contains(t, out, "Theoretical utilization (rho): 41.67%")
	assert.NotContains(t, out, "Flight 1 (")
}

func TestSimulateCommandWritesPlots(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--quiet", "--no-plots=false", "--plots-dir", dir, "--seed", "42",
		"--arrival-rate", "10", "--service-rate", "12", "--runways", "2", "--horizon", "10")
	require.NoError(t, err)

	for _, name := range []string{"flight_sequence.png", "waiting_time_distribution.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestSimulateCommandRejectsUnstableQueue(t *testing.T) {
	_, err := execute(t, "--quiet", "--no-plots", "--arrival-rate", "30", "--service-rate", "5",
		"--runways", "2", "--horizon", "1")
	assert.ErrorIs(t, err, models.ErrUnstableQueue)
}

func TestWagegapCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	content := `Sex,Log(Wages),Age,No. of years in Formal Education
1,6.1,25,10
2,5.8,30,12
1,6.5,35,8
2,6.0,40,16
1,6.9,45,14
2,5.9,50,6
1,6.4,28,12
2,6.2,55,10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := execute(t, "wagegap", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Model 1 Results:")
	assert.Contains(t, out, "Gender wage gap (Model 1): ")
	assert.Contains(t, out, "Cannot run Model 2. Missing columns:")
}
