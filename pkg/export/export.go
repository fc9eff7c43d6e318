// Package export writes simulation results and single bands as 8-bit
// images and reads results back.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"spectralsim/internal/models"
)

// WritePNG encodes img as an 8-bit RGB PNG. Values are scaled by 255 and
// rounded.
func WritePNG(w io.Writer, img *models.RGBImage) error {
	return png.Encode(w, img)
}

// SavePNG writes img to path, creating parent directories as needed.
func SavePNG(path string, img *models.RGBImage) error {
	return save(path, img)
}

// ReadPNG decodes a PNG into an RGBImage with values in [0,1].
func ReadPNG(r io.Reader) (*models.RGBImage, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("error decoding png: %w", err)
	}

	b := src.Bounds()
	out := models.NewRGBImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := y*out.Width + x
			out.Channels[models.Red][i] = float64(c.R) / 255
			out.Channels[models.Green][i] = float64(c.G) / 255
			out.Channels[models.Blue][i] = float64(c.B) / 255
		}
	}
	return out, nil
}

// LoadPNG reads an RGBImage from a PNG file.
func LoadPNG(path string) (*models.RGBImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPNG(f)
}

// BandImage renders a band as an 8-bit grey image, clamping samples to
// [0,255].
func BandImage(band *models.Band) *image.Gray {
	h, w := band.Dims()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range band.Pix() {
		img.Pix[i] = models.To8Bit(v / 255)
	}
	return img
}

// SaveBand writes a band as a grey PNG.
func SaveBand(path string, band *models.Band) error {
	return save(path, BandImage(band))
}

// FileName builds the output name for a simulation of imageName, for
// example "leaf_color_blindness_protanopia.png".
func FileName(imageName, simulation string, qualifiers ...string) string {
	parts := []string{strings.TrimSuffix(imageName, filepath.Ext(imageName)), simulation}
	parts = append(parts, qualifiers...)
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.Join(strings.Fields(p), "_"))
	}
	return strings.Join(parts, "_") + ".png"
}

func save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("error encoding %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}
