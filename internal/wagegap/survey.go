package wagegap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Survey columns read from the labour force survey extract.
const (
	ColSex        = "Sex"
	ColLogWages   = "Log(Wages)"
	ColAge        = "Age"
	ColEducation  = "No. of years in Formal Education"
	ColSector     = "Sector"
	ColSocial     = "Social Group"
	ColWorkers    = "(Principal) No. Of Workers In The Enterprise"
	ColOccupation = "Occupation Code (NCO)"
)

// Columns derived by Prepare.
const (
	GenderDummy = "gender_dummy"
	Sector      = "sector"
	SocialGroup = "social_group"
	FirmSize    = "firm_size"
	Occupation  = "occupation"
)

// Survey is a numeric view of a survey CSV. Cells that do not parse as
// numbers are NaN.
type Survey struct {
	Header  []string
	Columns map[string][]float64
	Rows    int
}

func (s *Survey) Has(column string) bool {
	_, ok := s.Columns[column]
	return ok
}

// LoadSurvey reads a CSV file whose first row names the columns.
func LoadSurvey(path string) (*Survey, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening survey file: %w", err)
	}
	defer file.Close()

	return ReadSurvey(file)
}

func ReadSurvey(r io.Reader) (*Survey, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("survey has no header row")
		}
		return nil, fmt.Errorf("error reading survey header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	s := &Survey{Header: header, Columns: make(map[string][]float64, len(header))}
	for _, name := range header {
		s.Columns[name] = nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading survey row %d: %w", s.Rows+2, err)
		}
		for i, name := range header {
			value := math.NaN()
			if i < len(record) {
				value = parseCell(record[i])
			}
			s.Columns[name] = append(s.Columns[name], value)
		}
		s.Rows++
	}
	return s, nil
}

func parseCell(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
