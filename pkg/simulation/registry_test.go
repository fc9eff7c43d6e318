package simulation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spectralsim/internal/models"
	"spectralsim/pkg/sensitivity"
)

func builtinRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

func TestRegistryUnregistered(t *testing.T) {
	img := createTestImage(t, 2, 2, []float64{500}, gradient)

	_, err := builtinRegistry().Create("nonexistent", img, nil, Options{})
	assert.ErrorIs(t, err, ErrUnregisteredSimulator)

	_, err = NewRegistry().Create(HumanVision, img, nil, Options{})
	assert.ErrorIs(t, err, ErrUnregisteredSimulator)
}

func TestRegistryNamesAndOverwrite(t *testing.T) {
	r := builtinRegistry()
	assert.Equal(t, []string{RGBBands, HumanVision, BeeVision, ColorBlindness, HumanConeVision}, r.Names())

	img := createTestImage(t, 2, 2, []float64{500}, gradient)
	called := false
	r.Register(BeeVision, func(img *models.Image, _ []int, _ Options) (Engine, error) {
		called = true
		return NewBandChoice(img, []int{1, 1, 1})
	})
	_, err := r.Create(BeeVision, img, nil, Options{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{RGBBands, HumanVision, BeeVision, ColorBlindness, HumanConeVision}, r.Names())

	names := r.Names()
	names[0] = "mutated"
	assert.Equal(t, RGBBands, r.Names()[0])
}

func TestDefaultRegistryIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

// TestBuiltinsShapeAndRange runs every sensitivity driven simulator
func TestBuiltinsShapeAndRange(t *testing.T) {
	img := createTestImage(t, 5, 3, []float64{340, 400, 450, 500, 550, 600, 650, 700}, gradient)
	r := builtinRegistry()

	for _, name := range r.Names() {
		t.Run(strings.ReplaceAll(name, " ", "_"), func(t *testing.T) {
			engine, err := r.Create(name, img, []int{8, 5, 2}, Options{Workers: 2})
			require.NoError(t, err)
			out, err := engine.Simulate()
			require.NoError(t, err)

			assert.Equal(t, 5, out.Width)
			assert.Equal(t, 3, out.Height)
			for c := range out.Channels {
				require.Len(t, out.Channels[c], 15)
				for _, v := range out.Channels[c] {
					assert.GreaterOrEqual(t, v, 0.0)
					assert.LessOrEqual(t, v, 1.0)
				}
			}
		})
	}
}

func TestColorBlindnessDeficiency(t *testing.T) {
	img := createTestImage(t, 4, 4, []float64{450, 500, 550, 600, 650}, gradient)
	r := builtinRegistry()

	simulate := func(opts Options) *models.RGBImage {
		engine, err := r.Create(ColorBlindness, img, nil, opts)
		require.NoError(t, err)
		out, err := engine.Simulate()
		require.NoError(t, err)
		return out
	}

	assert.True(t, simulate(Options{}).Equal(simulate(Options{Deficiency: "Deuteranopia"})))
	assert.False(t, simulate(Options{}).Equal(simulate(Options{Deficiency: "Tritanopia"})))

	_, err := r.Create(ColorBlindness, img, nil, Options{Deficiency: "deuteranopia"})
	assert.ErrorIs(t, err, sensitivity.ErrUnknownDeficiency)
}

func TestRGBBandsRequiresSelection(t *testing.T) {
	img := createTestImage(t, 2, 2, []float64{450, 550, 650}, gradient)

	_, err := builtinRegistry().Create(RGBBands, img, nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyBandSelection)
}

func TestHumanConeCustomTable(t *testing.T) {
	img := createTestImage(t, 2, 2, []float64{450, 550, 650}, gradient)
	table := &sensitivity.ConeTable{
		Wavelengths: []float64{400, 500},
		L:           []float64{1, 1},
		M:           []float64{1, 1},
		S:           []float64{1, 1},
	}

	engine, err := builtinRegistry().Create(HumanConeVision, img, nil, Options{ConeTable: table})
	require.NoError(t, err)
	out, err := engine.Simulate()
	require.NoError(t, err)

	// only the 450 nm band falls inside the table, equally on all channels
	assert.Equal(t, out.Channels[models.Red], out.Channels[models.Blue])

	_, err = builtinRegistry().Create(HumanConeVision, img, nil, Options{ConeTable: &sensitivity.ConeTable{}})
	assert.ErrorIs(t, err, sensitivity.ErrInvalidConeTable)
}

// TestHumanDeterministic runs the three band uniform scene twice and
// expects identical bytes
func TestHumanDeterministic(t *testing.T) {
	img := createTestImage(t, 6, 4, []float64{450, 550, 650}, uniform(128))
	r := builtinRegistry()

	run := func() *models.RGBImage {
		engine, err := r.Create(HumanVision, img, nil, Options{})
		require.NoError(t, err)
		out, err := engine.Simulate()
		require.NoError(t, err)
		return out
	}

	first := run()
	assert.True(t, first.Equal(run()))

	// a uniform scene gives flat channels, which normalize to zero
	for c := range first.Channels {
		for _, v := range first.Channels[c] {
			assert.Equal(t, 0.0, v)
		}
	}
}
