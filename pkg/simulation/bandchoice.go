package simulation

import (
	"errors"
	"fmt"

	"spectralsim/internal/models"
)

var (
	// ErrEmptyBandSelection is returned when fewer than three band numbers
	// are given to a band choice.
	ErrEmptyBandSelection = errors.New("all RGB bands must be specified")

	// ErrInvalidBandSelection is returned when more than three band numbers
	// are given to a band choice.
	ErrInvalidBandSelection = errors.New("exactly three RGB bands are required")
)

// BandChoice assigns three bands to red, green and blue, each stretched to
// [0,1] independently. No sensitivity model is involved.
type BandChoice struct {
	image *models.Image
	bands [3]*models.Band
}

// NewBandChoice resolves numbers (red, green, blue) against img.
func NewBandChoice(img *models.Image, numbers []int) (*BandChoice, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	if len(numbers) < 3 {
		return nil, fmt.Errorf("%w: got %d of 3", ErrEmptyBandSelection, len(numbers))
	}
	if len(numbers) > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBandSelection, len(numbers))
	}

	bc := &BandChoice{image: img}
	for i, n := range numbers {
		band, ok := img.BandByNumber(n)
		if !ok {
			return nil, fmt.Errorf("%w: band %d is not part of %s", models.ErrBandNotFound, n, img.Name())
		}
		bc.bands[i] = band
	}
	return bc, nil
}

// Bands returns the selected band numbers in R, G, B order.
func (bc *BandChoice) Bands() [3]int {
	return [3]int{bc.bands[0].Number(), bc.bands[1].Number(), bc.bands[2].Number()}
}

// Simulate implements Engine.
func (bc *BandChoice) Simulate() (*models.RGBImage, error) {
	width, height := bc.image.Size()
	out := &models.RGBImage{Width: width, Height: height}

	for c, band := range bc.bands {
		pix := band.Pix()
		if len(pix) != width*height {
			return nil, fmt.Errorf("band %d has %d samples, expected %d", band.Number(), len(pix), width*height)
		}
		normalize(pix, MinMax)
		out.Channels[c] = pix
	}
	return out, nil
}
