package wagegap

import (
	"fmt"
	"io"
	"strings"
)

var (
	Model1Regressors = []string{ColAge, ColEducation, GenderDummy}
	Model2Regressors = []string{ColAge, ColEducation, GenderDummy, Sector, SocialGroup, FirmSize, Occupation}
)

// Analysis is the outcome of both wage models on one dataset. Model2 is nil
// when Skipped explains why it could not run.
type Analysis struct {
	Warnings []Warning
	Model1   *Model
	Model2   *Model
	Skipped  string
}

// Analyze prepares the survey and fits the basic human capital model and,
// when every structural column is present, the extended model.
func Analyze(s *Survey) (*Analysis, error) {
	d, warnings := Prepare(s)
	a := &Analysis{Warnings: warnings}

	m1, err := FitOLS(d, Model1Regressors, ColLogWages)
	if err != nil {
		return nil, fmt.Errorf("model 1: %w", err)
	}
	a.Model1 = m1

	if missing := missingColumns(d, append(append([]string(nil), Model2Regressors...), ColLogWages)); len(missing) > 0 {
		a.Skipped = fmt.Sprintf("Cannot run Model 2. Missing columns: %s", formatColumns(missing))
		return a, nil
	}
	m2, err := FitOLS(d, Model2Regressors, ColLogWages)
	if err != nil {
		return nil, fmt.Errorf("model 2: %w", err)
	}
	a.Model2 = m2
	return a, nil
}

// Write prints the warnings, both model tables and the gender wage gaps.
func (a *Analysis) Write(w io.Writer) error {
	var sb strings.Builder
	for _, warn := range a.Warnings {
		fmt.Fprintf(&sb, "Warning: %s!\n", warn)
	}

	writeModel(&sb, "Model 1", a.Model1)
	if a.Model2 != nil {
		writeModel(&sb, "Model 2", a.Model2)
	} else {
		sb.WriteString(a.Skipped + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeModel(sb *strings.Builder, title string, m *Model) {
	fmt.Fprintf(sb, "\n%s Results:\n", title)
	fmt.Fprintf(sb, "Dep. variable: %s   No. observations: %d\n", m.Response, m.N)
	fmt.Fprintf(sb, "R-squared: %.3f   Adj. R-squared: %.3f\n", m.RSquared, m.AdjRSquared)
	sb.WriteString(strings.Repeat("=", 78) + "\n")
	fmt.Fprintf(sb, "%-44s %10s %10s %10s\n", "", "coef", "std err", "t")
	sb.WriteString(strings.Repeat("-", 78) + "\n")
	for i, name := range m.Names {
		fmt.Fprintf(sb, "%-44s %10.4f %10.4f %10.3f\n", name, m.Coefficients[i], m.StdErrors[i], m.TValues[i])
	}
	sb.WriteString(strings.Repeat("=", 78) + "\n")

	if gap, err := GenderGap(m); err == nil {
		fmt.Fprintf(sb, "\nGender wage gap (%s): %.2f%%\n", title, gap)
	}
}
