// Package simulation turns a multispectral image into an RGB rendering.
//
// Two engines are provided. Spectral accumulates every band weighted by a
// sensitivity model and normalizes the result per channel. BandChoice maps
// three chosen bands straight to red, green and blue.
//
// Engines are built per request, usually through a Registry, and only read
// the image they are given.
package simulation

import (
	"errors"
	"fmt"
	"math"

	"spectralsim/internal/models"
	"spectralsim/pkg/sensitivity"
)

// ErrNoImage is returned when an engine is requested without an image.
var ErrNoImage = errors.New("no multispectral image")

// Engine produces an RGB image with values in [0,1] and the dimensions of
// its source image.
type Engine interface {
	Simulate() (*models.RGBImage, error)
}

// Scaling selects how band samples enter the accumulator.
type Scaling int

const (
	// RawScale accumulates samples on their 0-255 scale.
	RawScale Scaling = iota
	// UnitScale divides samples by 255 before accumulation.
	UnitScale
)

// Normalization selects how each accumulated channel is mapped to [0,1].
type Normalization int

const (
	// MinMax maps [min, max] of the channel to [0, 1].
	MinMax Normalization = iota
	// MaxOnly divides the channel by its maximum.
	MaxOnly
)

func (n Normalization) String() string {
	switch n {
	case MinMax:
		return "min-max"
	case MaxOnly:
		return "max-only"
	default:
		return fmt.Sprintf("Normalization(%d)", int(n))
	}
}

// Config describes a sensitivity driven simulation.
type Config struct {
	// Model provides the receptor weights for each band
	Model sensitivity.Model

	// Scaling applied to band samples before accumulation
	Scaling Scaling

	// Normalization applied to each channel after accumulation
	Normalization Normalization

	// Gamma is applied as channel^(1/Gamma) after normalization.
	// Zero means 1, which leaves the channels unchanged.
	Gamma float64

	// Workers is the number of goroutines sharing the accumulation.
	// Values below 2 accumulate sequentially.
	Workers int
}

// Spectral is the sensitivity model driven engine.
type Spectral struct {
	image *models.Image
	cfg   Config
}

// NewSpectral validates cfg and binds it to img.
func NewSpectral(img *models.Image, cfg Config) (*Spectral, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	if cfg.Model == nil {
		return nil, errors.New("simulation: no sensitivity model")
	}
	if cfg.Gamma == 0 {
		cfg.Gamma = 1
	}
	if !(cfg.Gamma > 0) || math.IsInf(cfg.Gamma, 0) {
		return nil, fmt.Errorf("simulation: gamma must be positive, got %g", cfg.Gamma)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Spectral{image: img, cfg: cfg}, nil
}

// Config returns the effective configuration.
func (s *Spectral) Config() Config {
	return s.cfg
}

// Simulate runs the accumulation over all bands, then normalizes, applies
// gamma and clips every channel.
func (s *Spectral) Simulate() (*models.RGBImage, error) {
	width, height := s.image.Size()

	acc, err := accumulate(s.image.Bands(), width*height, s.cfg.Model, s.cfg.Scaling, s.cfg.Workers)
	if err != nil {
		return nil, err
	}

	out := &models.RGBImage{Width: width, Height: height, Channels: acc}
	for c := range out.Channels {
		normalize(out.Channels[c], s.cfg.Normalization)
		applyGamma(out.Channels[c], s.cfg.Gamma)
		clip(out.Channels[c])
	}
	return out, nil
}
