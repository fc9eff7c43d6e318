package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spectralsim/internal/models"
)

func testRGB() *models.RGBImage {
	img := models.NewRGBImage(4, 3)
	for c := range img.Channels {
		for i := range img.Channels[c] {
			img.Channels[c][i] = float64((i*7+c*5)%13) / 12
		}
	}
	return img
}

// TestRoundTrip checks that 8-bit persistence loses at most 1/255
func TestRoundTrip(t *testing.T) {
	original := testRGB()

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, original))

	restored, err := ReadPNG(&buf)
	require.NoError(t, err)
	assert.Equal(t, original.Width, restored.Width)
	assert.Equal(t, original.Height, restored.Height)
	for c := range original.Channels {
		assert.InDeltaSlice(t, original.Channels[c], restored.Channels[c], 1.0/255)
	}
}

func TestSaveAndLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	original := testRGB()

	require.NoError(t, SavePNG(path, original))
	restored, err := LoadPNG(path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, original.Channels[models.Green], restored.Channels[models.Green], 1.0/255)

	_, err = LoadPNG(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = ReadPNG(bytes.NewReader([]byte("not a png")))
	assert.Error(t, err)
}

func TestBandImage(t *testing.T) {
	band, err := models.NewBandFromRows(1, [][]float64{{0, 127.6}, {255, 300}}, models.Wavelength{Min: 500, Max: 500})
	require.NoError(t, err)

	img := BandImage(band)
	assert.Equal(t, []uint8{0, 128, 255, 255}, img.Pix)

	path := filepath.Join(t.TempDir(), "band.png")
	require.NoError(t, SaveBand(path, band))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "leaf_human_vision.png", FileName("leaf.tif", "Human Vision"))
	assert.Equal(t, "leaf_color_blindness_protanopia.png", FileName("leaf", "Color Blindness", "Protanopia"))
}
