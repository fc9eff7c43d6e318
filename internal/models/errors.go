package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidBand is returned when a band is built from a non-positive
	// number, an empty sample grid or a malformed wavelength range.
	ErrInvalidBand = errors.New("invalid band")

	// ErrBandNotFound is returned when a band number falls outside
	// [1, band count].
	ErrBandNotFound = errors.New("band not found")

	// ErrInvalidBandNumberType is returned when caller text cannot be read
	// as an integer band number.
	ErrInvalidBandNumberType = errors.New("band number must be an integer")

	// ErrInvalidImage is returned when a multispectral image is assembled
	// from inconsistent parts.
	ErrInvalidImage = errors.New("invalid multispectral image")
)

// ParseBandNumber reads a band number typed by a user. It only checks the
// type; range checks belong to the image the number is used against.
func ParseBandNumber(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBandNumberType, text)
	}
	return n, nil
}

// ParseBandNumbers reads a comma separated list such as "12,7,3".
// An empty string yields an empty selection.
func ParseBandNumbers(text string) ([]int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := ParseBandNumber(part)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
