package models

import (
	"fmt"
	"path/filepath"
)

// Image represents a multispectral image: an ordered stack of bands sharing
// one pixel grid, plus a cursor on the band being displayed.
//
// Simulations only read an Image. The cursor is the one mutable part and is
// expected to be driven from a single goroutine.
type Image struct {
	// path is the origin of the image as given by the loader
	path string

	// startWavelength and endWavelength bound the spectral range in nm
	startWavelength float64
	endWavelength   float64

	// width and height are the pixel dimensions shared by all bands
	width  int
	height int

	// bands are kept in acquisition order
	bands []*Band

	// current is the 0-based position of the cursor in bands
	current int
}

// NewImage assembles a multispectral image. The cursor starts on the first
// band.
func NewImage(path string, startWavelength, endWavelength float64, width, height int, bands []*Band) (*Image, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: no bands", ErrInvalidImage)
	}
	if startWavelength > endWavelength {
		return nil, fmt.Errorf("%w: start wavelength %.2f exceeds end wavelength %.2f",
			ErrInvalidImage, startWavelength, endWavelength)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, width, height)
	}
	for _, b := range bands {
		if b == nil {
			return nil, fmt.Errorf("%w: nil band", ErrInvalidImage)
		}
		if h, w := b.Dims(); w != width || h != height {
			return nil, fmt.Errorf("%w: band %d is %dx%d, image is %dx%d",
				ErrInvalidImage, b.Number(), w, h, width, height)
		}
	}

	return &Image{
		path:            path,
		startWavelength: startWavelength,
		endWavelength:   endWavelength,
		width:           width,
		height:          height,
		bands:           append([]*Band(nil), bands...),
	}, nil
}

// Name returns the image name without its directory.
func (img *Image) Name() string {
	return filepath.Base(img.path)
}

// Path returns the origin path of the image.
func (img *Image) Path() string {
	return img.path
}

// StartWavelength returns the lower spectral bound.
func (img *Image) StartWavelength() float64 {
	return img.startWavelength
}

// EndWavelength returns the upper spectral bound.
func (img *Image) EndWavelength() float64 {
	return img.endWavelength
}

// Size returns the pixel dimensions as width, height.
func (img *Image) Size() (width, height int) {
	return img.width, img.height
}

// Bands returns the bands in acquisition order. The returned slice is a
// copy; the bands themselves are immutable.
func (img *Image) Bands() []*Band {
	return append([]*Band(nil), img.bands...)
}

// BandCount returns the number of bands.
func (img *Image) BandCount() int {
	return len(img.bands)
}

// BandByNumber looks a band up by its number. Unknown numbers report false
// instead of failing.
func (img *Image) BandByNumber(n int) (*Band, bool) {
	for _, b := range img.bands {
		if b.Number() == n {
			return b, true
		}
	}
	return nil, false
}

// SetCurrent moves the cursor to the n-th band (1-based).
func (img *Image) SetCurrent(n int) error {
	if n < 1 || n > len(img.bands) {
		return fmt.Errorf("%w: %d is outside [1, %d]", ErrBandNotFound, n, len(img.bands))
	}
	img.current = n - 1
	return nil
}

// Current returns the band under the cursor.
func (img *Image) Current() *Band {
	return img.bands[img.current]
}

// CurrentPosition returns the 1-based cursor position.
func (img *Image) CurrentPosition() int {
	return img.current + 1
}

// Next advances the cursor, wrapping from the last band to the first.
func (img *Image) Next() *Band {
	img.current = (img.current + 1) % len(img.bands)
	return img.Current()
}

// Previous moves the cursor back, wrapping from the first band to the last.
func (img *Image) Previous() *Band {
	img.current = (img.current - 1 + len(img.bands)) % len(img.bands)
	return img.Current()
}
