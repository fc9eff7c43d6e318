package sensitivity

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// ErrInvalidConeTable is returned when cone fundamentals cannot be parsed
// or do not form a usable interpolation table.
var ErrInvalidConeTable = errors.New("invalid cone fundamentals table")

// defaultConeCSV holds 2-degree cone fundamentals sampled every 10 nm from
// 390 to 780 nm, each curve normalized to a peak of one.
//
//go:embed data/cone_fundamentals_2deg.csv
var defaultConeCSV []byte

// ConeTable holds tabulated L, M and S cone fundamentals keyed by strictly
// increasing wavelengths.
type ConeTable struct {
	Wavelengths []float64
	L           []float64
	M           []float64
	S           []float64
}

// DefaultConeTable parses the embedded table.
func DefaultConeTable() (*ConeTable, error) {
	return LoadConeTable(bytes.NewReader(defaultConeCSV))
}

// LoadConeTableFile parses a table from a CSV file on disk.
func LoadConeTableFile(path string) (*ConeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening cone table: %w", err)
	}
	defer f.Close()
	return LoadConeTable(f)
}

// LoadConeTable parses CSV rows of wavelength,L,M,S. A first row that does
// not start with a number is treated as a header. Empty cells read as zero,
// which is how published tables mark the end of the S curve.
func LoadConeTable(r io.Reader) (*ConeTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConeTable, err)
	}

	table := &ConeTable{}
	for i, rec := range records {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("%w: row %d has %d fields, want 4", ErrInvalidConeTable, i+1, len(rec))
		}
		wl, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%w: row %d wavelength %q", ErrInvalidConeTable, i+1, rec[0])
		}

		var values [3]float64
		for j := 0; j < 3; j++ {
			cell := strings.TrimSpace(rec[j+1])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d value %q", ErrInvalidConeTable, i+1, cell)
			}
			if v < 0 {
				return nil, fmt.Errorf("%w: row %d has negative value %g", ErrInvalidConeTable, i+1, v)
			}
			values[j] = v
		}

		table.Wavelengths = append(table.Wavelengths, wl)
		table.L = append(table.L, values[0])
		table.M = append(table.M, values[1])
		table.S = append(table.S, values[2])
	}

	if err := table.validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func (t *ConeTable) validate() error {
	n := len(t.Wavelengths)
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 rows, got %d", ErrInvalidConeTable, n)
	}
	if len(t.L) != n || len(t.M) != n || len(t.S) != n {
		return fmt.Errorf("%w: column lengths differ", ErrInvalidConeTable)
	}
	for i := 1; i < n; i++ {
		if t.Wavelengths[i] <= t.Wavelengths[i-1] {
			return fmt.Errorf("%w: wavelengths not strictly increasing at %g nm",
				ErrInvalidConeTable, t.Wavelengths[i])
		}
	}
	return nil
}

// Cone is the empirical human cone model: linear interpolation over a
// ConeTable, zero outside the tabulated range.
type Cone struct {
	min, max float64
	l, m, s  interp.PiecewiseLinear
}

// NewCone fits the interpolators once; the model is immutable afterwards.
func NewCone(table *ConeTable) (*Cone, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidConeTable)
	}
	if err := table.validate(); err != nil {
		return nil, err
	}

	c := &Cone{
		min: table.Wavelengths[0],
		max: table.Wavelengths[len(table.Wavelengths)-1],
	}
	for _, fit := range []struct {
		pl *interp.PiecewiseLinear
		ys []float64
	}{
		{&c.l, table.L},
		{&c.m, table.M},
		{&c.s, table.S},
	} {
		if err := fit.pl.Fit(table.Wavelengths, fit.ys); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConeTable, err)
		}
	}
	return c, nil
}

// Range returns the tabulated wavelength interval.
func (c *Cone) Range() (min, max float64) {
	return c.min, c.max
}

// Sensitivity implements Model.
func (c *Cone) Sensitivity(wavelength float64) Weights {
	if wavelength < c.min || wavelength > c.max {
		return Weights{}
	}
	return Weights{
		Short:  c.s.Predict(wavelength),
		Medium: c.m.Predict(wavelength),
		Long:   c.l.Predict(wavelength),
	}.Normalized()
}
