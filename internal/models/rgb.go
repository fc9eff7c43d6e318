package models

import (
	"image"
	"image/color"
	"math"
)

// Channel indexes the planes of an RGBImage.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// RGBImage is the output of a simulation: three planar channels with values
// in [0,1], each holding Width*Height samples in row-major order.
//
// RGBImage implements image.Image so it can be handed to any encoder; At
// scales by 255 and rounds to 8 bits.
type RGBImage struct {
	Width    int
	Height   int
	Channels [3][]float64
}

// NewRGBImage allocates a zeroed image.
func NewRGBImage(width, height int) *RGBImage {
	img := &RGBImage{Width: width, Height: height}
	for c := range img.Channels {
		img.Channels[c] = make([]float64, width*height)
	}
	return img
}

// Value returns the float value of one channel at (x, y).
func (img *RGBImage) Value(x, y int, c Channel) float64 {
	return img.Channels[c][y*img.Width+x]
}

// Pixel returns the (R, G, B) triple at (x, y).
func (img *RGBImage) Pixel(x, y int) [3]float64 {
	i := y*img.Width + x
	return [3]float64{img.Channels[Red][i], img.Channels[Green][i], img.Channels[Blue][i]}
}

// Equal reports whether both images have the same size and identical values.
func (img *RGBImage) Equal(other *RGBImage) bool {
	if img == nil || other == nil {
		return img == other
	}
	if img.Width != other.Width || img.Height != other.Height {
		return false
	}
	for c := range img.Channels {
		a, b := img.Channels[c], other.Channels[c]
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// ColorModel reports 8-bit NRGBA, the model At converts to.
func (img *RGBImage) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds returns the rectangle (0,0)-(Width,Height).
func (img *RGBImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// At returns the pixel at (x, y) as opaque NRGBA, or the zero colour
// outside the bounds.
func (img *RGBImage) At(x, y int) color.Color {
	if !image.Pt(x, y).In(img.Bounds()) {
		return color.NRGBA{}
	}
	p := img.Pixel(x, y)
	return color.NRGBA{R: To8Bit(p[0]), G: To8Bit(p[1]), B: To8Bit(p[2]), A: 0xff}
}

// To8Bit scales a [0,1] value to [0,255] with rounding, clamping outliers.
// NaN maps to 0.
func To8Bit(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
