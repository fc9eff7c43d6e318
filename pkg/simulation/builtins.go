package simulation

import (
	"spectralsim/internal/models"
	"spectralsim/pkg/sensitivity"
)

// Names of the built-in simulators.
const (
	RGBBands        = "RGB Bands"
	HumanVision     = "Human Vision"
	BeeVision       = "Bee Vision"
	ColorBlindness  = "Color Blindness"
	HumanConeVision = "Human Cone Vision"
)

// RegisterBuiltins adds every built-in simulator to r.
//
// Human and bee vision accumulate raw samples and use min-max
// normalization. Colour blindness divides samples by 255 and normalizes by
// the channel maximum. The cone model divides by 255 and uses min-max.
func RegisterBuiltins(r *Registry) {
	r.Register(RGBBands, newBandChoiceEngine)
	r.Register(HumanVision, newHumanEngine)
	r.Register(BeeVision, newBeeEngine)
	r.Register(ColorBlindness, newDaltonianEngine)
	r.Register(HumanConeVision, newConeEngine)
}

func newBandChoiceEngine(img *models.Image, bands []int, _ Options) (Engine, error) {
	bc, err := NewBandChoice(img, bands)
	if err != nil {
		return nil, err
	}
	return bc, nil
}

func newHumanEngine(img *models.Image, _ []int, opts Options) (Engine, error) {
	return newSpectralEngine(img, Config{
		Model:         sensitivity.Human(),
		Scaling:       RawScale,
		Normalization: MinMax,
		Gamma:         opts.Gamma,
		Workers:       opts.Workers,
	})
}

func newBeeEngine(img *models.Image, _ []int, opts Options) (Engine, error) {
	return newSpectralEngine(img, Config{
		Model:         sensitivity.Bee(),
		Scaling:       RawScale,
		Normalization: MinMax,
		Gamma:         opts.Gamma,
		Workers:       opts.Workers,
	})
}

func newDaltonianEngine(img *models.Image, _ []int, opts Options) (Engine, error) {
	d, err := sensitivity.ParseDeficiency(opts.Deficiency)
	if err != nil {
		return nil, err
	}
	return newSpectralEngine(img, Config{
		Model:         sensitivity.NewDaltonian(d),
		Scaling:       UnitScale,
		Normalization: MaxOnly,
		Gamma:         opts.Gamma,
		Workers:       opts.Workers,
	})
}

func newConeEngine(img *models.Image, _ []int, opts Options) (Engine, error) {
	table := opts.ConeTable
	if table == nil {
		var err error
		if table, err = sensitivity.DefaultConeTable(); err != nil {
			return nil, err
		}
	}
	cone, err := sensitivity.NewCone(table)
	if err != nil {
		return nil, err
	}
	return newSpectralEngine(img, Config{
		Model:         cone,
		Scaling:       UnitScale,
		Normalization: MinMax,
		Gamma:         opts.Gamma,
		Workers:       opts.Workers,
	})
}

func newSpectralEngine(img *models.Image, cfg Config) (Engine, error) {
	s, err := NewSpectral(img, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
