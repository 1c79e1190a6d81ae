package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/land-temperature-etl/internal/domain"
)

// dateLayout is the format of the dt column (always the first of the month).
const dateLayout = "2006-01-02"

// Reader loads observations from a CSV file.
// It implements pipeline.Source.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a loader for the CSV file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Load opens and decodes the whole file.
func (r *Reader) Load(ctx context.Context) ([]domain.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	rows, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	r.logger.Info("dataset loaded", "path", r.path, "rows", len(rows))
	return rows, nil
}

// RowError reports a cell that could not be parsed.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// columns holds the header index of each required column.
type columns struct {
	dt, city, country, latitude, longitude, temperature, uncertainty int
}

// Decode reads a header row followed by observation rows. Every name in
// domain.RequiredColumns must be present in the header, in any order; extra
// columns are ignored. Empty and "NaN" measurement cells are missing values.
func Decode(r io.Reader) ([]domain.Observation, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &domain.MissingColumnError{Column: domain.RequiredColumns[0]}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []domain.Observation
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		row, err := parseRow(record, cols, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func indexColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, name := range domain.RequiredColumns {
		if _, ok := index[name]; !ok {
			return columns{}, &domain.MissingColumnError{Column: name}
		}
	}
	return columns{
		dt:          index["dt"],
		city:        index["City"],
		country:     index["Country"],
		latitude:    index["Latitude"],
		longitude:   index["Longitude"],
		temperature: index["AverageTemperature"],
		uncertainty: index["AverageTemperatureUncertainty"],
	}, nil
}

func parseRow(record []string, cols columns, line int) (domain.Observation, error) {
	dt := strings.TrimSpace(record[cols.dt])
	t, err := time.Parse(dateLayout, dt)
	if err != nil {
		return domain.Observation{}, &RowError{Line: line, Column: "dt", Value: dt, Err: err}
	}
	temp, err := parseNullable(record[cols.temperature])
	if err != nil {
		return domain.Observation{}, &RowError{Line: line, Column: "AverageTemperature", Value: record[cols.temperature], Err: err}
	}
	unc, err := parseNullable(record[cols.uncertainty])
	if err != nil {
		return domain.Observation{}, &RowError{Line: line, Column: "AverageTemperatureUncertainty", Value: record[cols.uncertainty], Err: err}
	}

	// Clone so rows do not pin the line buffer of the reader.
	return domain.Observation{
		Time:                          t,
		City:                          strings.Clone(strings.TrimSpace(record[cols.city])),
		Country:                       strings.Clone(strings.TrimSpace(record[cols.country])),
		Latitude:                      strings.Clone(strings.TrimSpace(record[cols.latitude])),
		Longitude:                     strings.Clone(strings.TrimSpace(record[cols.longitude])),
		AverageTemperature:            temp,
		AverageTemperatureUncertainty: unc,
	}, nil
}

var errInfinite = errors.New("infinite values are not allowed")

// parseNullable returns nil for empty or NaN cells. Infinite values are rejected.
func parseNullable(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsInf(v, 0) {
		return nil, errInfinite
	}
	return &v, nil
}
