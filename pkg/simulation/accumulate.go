package simulation

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"spectralsim/internal/models"
	"spectralsim/pkg/sensitivity"
)

const maxSample = 255.0

// accumulator holds one partial sum per output channel plus a scratch
// buffer for the scaled band.
type accumulator struct {
	channels [3][]float64
	scratch  []float64
}

func newAccumulator(n int) *accumulator {
	a := &accumulator{scratch: make([]float64, n)}
	for c := range a.channels {
		a.channels[c] = make([]float64, n)
	}
	return a
}

// add folds one band into the sums: short into blue, medium into green,
// long into red.
func (a *accumulator) add(band *models.Band, model sensitivity.Model, scaling Scaling) error {
	pix := band.Pix()
	if len(pix) != len(a.scratch) {
		return fmt.Errorf("band %d has %d samples, expected %d", band.Number(), len(pix), len(a.scratch))
	}
	if scaling == UnitScale {
		floats.Scale(1/maxSample, pix)
	}

	w := model.Sensitivity(band.Wavelength().Center())
	for _, term := range []struct {
		channel models.Channel
		weight  float64
	}{
		{models.Blue, w.Short},
		{models.Green, w.Medium},
		{models.Red, w.Long},
	} {
		if term.weight == 0 {
			continue
		}
		vecmath.ScaleBlock(a.scratch, pix, term.weight)
		vecmath.AddBlockInPlace(a.channels[term.channel], a.scratch)
	}
	return nil
}

// accumulate sums the weighted contributions of all bands. With several
// workers each one owns a contiguous run of bands and a private
// accumulator; partial sums are reduced in worker order once all of them
// are done, so a given worker count always yields the same result.
func accumulate(bands []*models.Band, n int, model sensitivity.Model, scaling Scaling, workers int) ([3][]float64, error) {
	if workers > len(bands) {
		workers = len(bands)
	}
	if workers <= 1 {
		acc := newAccumulator(n)
		for _, b := range bands {
			if err := acc.add(b, model, scaling); err != nil {
				return [3][]float64{}, err
			}
		}
		return acc.channels, nil
	}

	partials := make([]*accumulator, workers)
	chunk := (len(bands) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(bands))
		if start >= end {
			continue
		}
		g.Go(func() error {
			acc := newAccumulator(n)
			for _, b := range bands[start:end] {
				if err := acc.add(b, model, scaling); err != nil {
					return err
				}
			}
			partials[w] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return [3][]float64{}, err
	}

	var total *accumulator
	for _, p := range partials {
		if p == nil {
			continue
		}
		if total == nil {
			total = p
			continue
		}
		for c := range total.channels {
			vecmath.AddBlockInPlace(total.channels[c], p.channels[c])
		}
	}
	return total.channels, nil
}
