package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Wavelength is the spectral range covered by a band in nanometres.
// Loaders that only know a centre wavelength set Min == Max.
type Wavelength struct {
	Min float64
	Max float64
}

// Center returns the wavelength a band is evaluated at by the simulators.
// It is the lower bound of the range.
func (w Wavelength) Center() float64 {
	return w.Min
}

// Band represents one monochrome channel of a multispectral image.
// A Band never changes after construction.
type Band struct {
	// number is the 1-based position of the band in its image
	number int

	// samples holds the intensities on a 0-255 scale, rows = image height
	samples *mat.Dense

	// wavelength is the range captured by this band
	wavelength Wavelength
}

// NewBand validates its arguments and returns a band owning a private copy
// of samples.
func NewBand(number int, samples mat.Matrix, wavelength Wavelength) (*Band, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: number %d must be positive", ErrInvalidBand, number)
	}
	if samples == nil {
		return nil, fmt.Errorf("%w: band %d has no samples", ErrInvalidBand, number)
	}
	if r, c := samples.Dims(); r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: band %d has an empty sample grid", ErrInvalidBand, number)
	}
	if wavelength.Min < 0 || wavelength.Max < 0 {
		return nil, fmt.Errorf("%w: band %d wavelengths must not be negative", ErrInvalidBand, number)
	}
	if wavelength.Min > wavelength.Max {
		return nil, fmt.Errorf("%w: band %d min wavelength %.2f exceeds max %.2f",
			ErrInvalidBand, number, wavelength.Min, wavelength.Max)
	}

	return &Band{
		number:     number,
		samples:    mat.DenseCopyOf(samples),
		wavelength: wavelength,
	}, nil
}

// NewBandFromRows is a convenience wrapper around NewBand for row slices.
// Every row must have the same length.
func NewBandFromRows(number int, rows [][]float64, wavelength Wavelength) (*Band, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: band %d has an empty sample grid", ErrInvalidBand, number)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: band %d row %d has %d samples, want %d",
				ErrInvalidBand, number, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return NewBand(number, mat.NewDense(len(rows), cols, data), wavelength)
}

// Number returns the band number.
func (b *Band) Number() int {
	return b.number
}

// Wavelength returns the band's wavelength range unchanged.
func (b *Band) Wavelength() Wavelength {
	return b.wavelength
}

// Samples returns a copy of the sample grid. Mutating it does not affect
// the band.
func (b *Band) Samples() *mat.Dense {
	return mat.DenseCopyOf(b.samples)
}

// Dims returns the grid size as height, width.
func (b *Band) Dims() (height, width int) {
	return b.samples.Dims()
}

// Pix returns the samples in row-major order as a fresh slice.
func (b *Band) Pix() []float64 {
	raw := b.samples.RawMatrix()
	rows, cols := raw.Rows, raw.Cols
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, raw.Data[i*raw.Stride:i*raw.Stride+cols]...)
	}
	return out
}
