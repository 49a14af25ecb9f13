package wagegap

import (
	"fmt"
	"math"
)

// Warning names a survey column that was expected but absent.
type Warning string

func missingColumn(column string) Warning {
	return Warning(fmt.Sprintf("'%s' column not found", column))
}

// Dataset holds the filtered working-age sample with the regression dummies.
type Dataset struct {
	Columns map[string][]float64
	Rows    int
}

func (d *Dataset) Has(column string) bool {
	_, ok := d.Columns[column]
	return ok
}

// Prepare filters the survey to working-age men and women with non-zero
// log wages and derives the dummy columns. Dummies whose source column is
// missing are left out and reported as warnings.
func Prepare(s *Survey) (*Dataset, []Warning) {
	var warnings []Warning
	for _, col := range []string{ColSex, ColLogWages, ColAge} {
		if !s.Has(col) {
			warnings = append(warnings, missingColumn(col))
		}
	}

	keep := make([]int, 0, s.Rows)
	for i := 0; i < s.Rows; i++ {
		if s.Has(ColLogWages) && s.Columns[ColLogWages][i] == 0 {
			continue
		}
		if s.Has(ColSex) && s.Columns[ColSex][i] == 3 {
			continue
		}
		if s.Has(ColAge) {
			age := s.Columns[ColAge][i]
			if !(age >= 15 && age <= 60) {
				continue
			}
		}
		keep = append(keep, i)
	}

	d := &Dataset{Columns: make(map[string][]float64), Rows: len(keep)}
	for name, values := range s.Columns {
		d.Columns[name] = pick(values, keep)
	}

	if s.Has(ColSex) {
		d.Columns[GenderDummy] = dummy(d.Columns[ColSex], func(v float64) bool { return v == 1 })
	}

	derived := []struct {
		name   string
		source string
		test   func(float64) bool
	}{
		{Sector, ColSector, func(v float64) bool { return v == 2 }},
		{SocialGroup, ColSocial, func(v float64) bool { return v == 1 || v == 2 || v == 3 }},
		{FirmSize, ColWorkers, func(v float64) bool { return v >= 10 }},
		{Occupation, ColOccupation, func(v float64) bool { return v >= 100 && v < 400 }},
	}
	for _, dv := range derived {
		if !s.Has(dv.source) {
			warnings = append(warnings, missingColumn(dv.source))
			continue
		}
		d.Columns[dv.name] = dummy(d.Columns[dv.source], dv.test)
	}

	return d, warnings
}

func pick(values []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = values[r]
	}
	return out
}

// dummy is 1 where test holds and 0 elsewhere, NaN included.
func dummy(values []float64, test func(float64) bool) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && test(v) {
			out[i] = 1
		}
	}
	return out
}
