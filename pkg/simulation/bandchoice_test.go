package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spectralsim/internal/models"
)

func bandChoiceImage(t *testing.T) *models.Image {
	t.Helper()
	grids := [][]float64{
		{10, 20, 30, 40},
		{50, 60, 70, 80},
		{90, 100, 110, 120},
		{7, 7, 7, 7},
	}
	return createTestImage(t, 2, 2, []float64{450, 550, 650, 750}, func(i, x, y int) float64 {
		return grids[i][y*2+x]
	})
}

// TestBandChoiceSimulate checks the per-band min-max stretch
func TestBandChoiceSimulate(t *testing.T) {
	img := bandChoiceImage(t)

	bc, err := NewBandChoice(img, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 2, 3}, bc.Bands())

	out, err := bc.Simulate()
	require.NoError(t, err)
	assert.Equal(t, 2, out.Width)
	assert.Equal(t, 2, out.Height)

	want := []float64{0, 1.0 / 3, 2.0 / 3, 1}
	for c := range out.Channels {
		assert.InDeltaSlice(t, want, out.Channels[c], 1e-5)
	}
	assert.InDelta(t, 0.333, out.Value(1, 0, models.Red), 1e-3)
	assert.InDelta(t, 0.667, out.Value(0, 1, models.Red), 1e-3)
}

func TestBandChoiceOrderAndFlatBand(t *testing.T) {
	img := bandChoiceImage(t)

	bc, err := NewBandChoice(img, []int{4, 3, 1})
	require.NoError(t, err)
	out, err := bc.Simulate()
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0, 0, 0}, out.Channels[models.Red])
	assert.InDeltaSlice(t, []float64{0, 1.0 / 3, 2.0 / 3, 1}, out.Channels[models.Green], 1e-9)
}

func TestBandChoiceErrors(t *testing.T) {
	img := bandChoiceImage(t)

	for _, numbers := range [][]int{nil, {}, {1}, {1, 2}} {
		_, err := NewBandChoice(img, numbers)
		assert.ErrorIs(t, err, ErrEmptyBandSelection, "%v", numbers)
	}

	_, err := NewBandChoice(img, []int{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrInvalidBandSelection)

	for _, numbers := range [][]int{{1, 2, 9}, {0, 1, 2}, {-1, 2, 3}} {
		_, err := NewBandChoice(img, numbers)
		assert.ErrorIs(t, err, models.ErrBandNotFound, "%v", numbers)
	}

	_, err = NewBandChoice(nil, []int{1, 2, 3})
	assert.ErrorIs(t, err, ErrNoImage)
}
