package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	// wavelengthLabel introduces the centre wavelength list of a section
	wavelengthLabel = "Center wavelengths:"

	// valueIndent prefixes every line of the wavelength list
	valueIndent = "\t\t"
)

// ParseWavelengths reads the centre wavelengths listed for section in a
// metadata document:
//
//	scene.tif:
//		Center wavelengths:
//			450.5 460.1 470.0
//			480.2
//
// The list ends at the first line not indented by two tabs.
func ParseWavelengths(r io.Reader, section string) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	header := section + ":"

	var (
		wavelengths  []float64
		inSection    bool
		inWavelength bool
		lineNo       int
	)
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		switch {
		case !inSection:
			inSection = strings.Contains(line, header)
		case !inWavelength:
			inWavelength = strings.Contains(line, wavelengthLabel)
		case strings.HasPrefix(line, valueIndent) && strings.TrimSpace(line) != "":
			for _, field := range strings.Fields(line) {
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: bad wavelength %q", ErrMetadataMissing, lineNo, field)
				}
				wavelengths = append(wavelengths, v)
			}
		default:
			return finish(wavelengths, section)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading metadata: %w", err)
	}
	return finish(wavelengths, section)
}

func finish(wavelengths []float64, section string) ([]float64, error) {
	if len(wavelengths) == 0 {
		return nil, fmt.Errorf("%w: no %q values for %q", ErrMetadataMissing, wavelengthLabel, section)
	}
	return wavelengths, nil
}

// ParseWavelengthsFile is ParseWavelengths on a file.
func ParseWavelengthsFile(path, section string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataMissing, err)
	}
	defer f.Close()
	return ParseWavelengths(f, section)
}
