package models

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBImage(t *testing.T) {
	img := NewRGBImage(3, 2)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	img.Channels[Red][1*3+2] = 1.0
	img.Channels[Green][1*3+2] = 0.5
	img.Channels[Blue][1*3+2] = 0.0

	assert.Equal(t, [3]float64{1, 0.5, 0}, img.Pixel(2, 1))
	assert.Equal(t, 0.5, img.Value(2, 1, Green))
	assert.Equal(t, color.NRGBA{R: 255, G: 128, B: 0, A: 255}, img.At(2, 1))
	assert.Equal(t, color.NRGBA{}, img.At(5, 5))
}

func TestRGBImageEqual(t *testing.T) {
	a := NewRGBImage(2, 2)
	b := NewRGBImage(2, 2)
	assert.True(t, a.Equal(b))

	b.Channels[Blue][3] = 0.25
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(NewRGBImage(4, 1)))
	assert.False(t, a.Equal(nil))
}

func TestTo8Bit(t *testing.T) {
	assert.Equal(t, uint8(0), To8Bit(-0.2))
	assert.Equal(t, uint8(0), To8Bit(0))
	assert.Equal(t, uint8(128), To8Bit(0.5))
	assert.Equal(t, uint8(255), To8Bit(1))
	assert.Equal(t, uint8(255), To8Bit(3))
	assert.Equal(t, uint8(0), To8Bit(math.NaN()))
}
