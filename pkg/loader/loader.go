// Package loader builds multispectral images from band files on disk and
// the metadata text that lists their centre wavelengths.
package loader

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"spectralsim/internal/models"
)

var (
	// ErrUnsupportedImageFormat is returned when no band file with a
	// supported extension can be found.
	ErrUnsupportedImageFormat = errors.New("unsupported image format")

	// ErrMetadataMissing is returned when the metadata does not provide a
	// wavelength for every band.
	ErrMetadataMissing = errors.New("metadata is missing")
)

// sixteenBitScale brings 16-bit samples to the 0-255 band scale
const sixteenBitScale = 256.0

// Params holds what the loader needs to build one image.
type Params struct {
	// Path is a directory of band files, or a single band file
	Path string

	// MetadataPath is the text file listing centre wavelengths
	MetadataPath string

	// Section is the metadata section to read. Defaults to the base name
	// of Path.
	Section string

	// Logger receives progress messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// Loader reads band files and metadata into a models.Image.
type Loader struct {
	params *Params
	log    *slog.Logger
}

// NewLoader creates a loader for params.
func NewLoader(params *Params) *Loader {
	log := params.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Loader{params: params, log: log.With("component", "loader")}
}

// Load reads the metadata, then every band in order, and assembles the
// image. Band i gets the i-th wavelength as a degenerate range.
//
// Path is either a directory with one image per band, numbered in the file
// names, or a single file. A single multi-page TIFF holds one band per page
// after the first, which is skipped.
func (l *Loader) Load() (*models.Image, error) {
	frames, err := l.frames()
	if err != nil {
		return nil, err
	}

	section := l.params.Section
	if section == "" {
		section = filepath.Base(l.params.Path)
	}
	l.log.Debug("reading metadata", "path", l.params.MetadataPath, "section", section)
	wavelengths, err := ParseWavelengthsFile(l.params.MetadataPath, section)
	if err != nil {
		return nil, err
	}
	l.log.Debug("wavelengths found", "count", len(wavelengths))

	if len(wavelengths) < len(frames) {
		return nil, fmt.Errorf("%w: %d wavelengths for %d bands", ErrMetadataMissing, len(wavelengths), len(frames))
	}

	var (
		bands         []*models.Band
		width, height int
	)
	for i, f := range frames {
		samples := imageToSamples(f.img)
		if samples == nil {
			return nil, fmt.Errorf("%w: band %s is empty", models.ErrInvalidBand, f.name)
		}
		if i == 0 {
			height, width = samples.Dims()
		}

		wl := wavelengths[i]
		band, err := models.NewBand(i+1, samples, models.Wavelength{Min: wl, Max: wl})
		if err != nil {
			return nil, err
		}
		bands = append(bands, band)
		l.log.Debug("band created",
			"number", band.Number(),
			"source", f.name,
			"wavelength", wl,
			"mean", stat.Mean(samples.RawMatrix().Data, nil))
	}

	used := wavelengths[:len(bands)]
	ms, err := models.NewImage(l.params.Path, floats.Min(used), floats.Max(used), width, height, bands)
	if err != nil {
		return nil, err
	}
	l.log.Info("multispectral image loaded",
		"name", ms.Name(),
		"bands", ms.BandCount(),
		"width", width,
		"height", height,
		"start_nm", ms.StartWavelength(),
		"end_nm", ms.EndWavelength())
	return ms, nil
}

// frame is one decoded band image and where it came from
type frame struct {
	name string
	img  image.Image
}

// frames decodes the band images under Path in band order.
func (l *Loader) frames() ([]frame, error) {
	files, err := l.bandFiles()
	if err != nil {
		return nil, err
	}

	if len(files) == 1 && isTIFF(files[0]) {
		data, err := os.ReadFile(files[0])
		if err != nil {
			return nil, err
		}
		pages, err := decodePages(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(files[0]), err)
		}
		if len(pages) > 1 {
			l.log.Debug("multi-page TIFF", "file", filepath.Base(files[0]), "pages", len(pages))
			frames := make([]frame, 0, len(pages)-1)
			for i, page := range pages[1:] {
				frames = append(frames, frame{name: fmt.Sprintf("%s[%d]", filepath.Base(files[0]), i+1), img: page})
			}
			return frames, nil
		}
		return []frame{{name: filepath.Base(files[0]), img: pages[0]}}, nil
	}

	frames := make([]frame, 0, len(files))
	for _, path := range files {
		img, err := loadImage(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load band %s: %w", filepath.Base(path), err)
		}
		frames = append(frames, frame{name: filepath.Base(path), img: img})
	}
	return frames, nil
}

// bandFiles lists supported band files under Path sorted by the number in
// their name, or Path itself when it is a file.
func (l *Loader) bandFiles() ([]string, error) {
	info, err := os.Stat(l.params.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !supported(l.params.Path) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageFormat, filepath.Ext(l.params.Path))
		}
		return []string{l.params.Path}, nil
	}

	entries, err := os.ReadDir(l.params.Path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !supported(entry.Name()) {
			l.log.Debug("skipping file", "name", entry.Name())
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no band images in %s", ErrUnsupportedImageFormat, l.params.Path)
	}

	sort.SliceStable(names, func(i, j int) bool {
		ni, nj := extractNumber(names[i]), extractNumber(names[j])
		if ni != nj {
			return ni < nj
		}
		return names[i] < names[j]
	})

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(l.params.Path, name)
	}
	return paths, nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	}
	return false
}

func isTIFF(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".tif" || ext == ".tiff"
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, base)

	if n, err := strconv.Atoi(digits); err == nil {
		return n
	}
	return 0
}

// loadImage decodes a band file according to its extension
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(file)
	case ".jpg", ".jpeg":
		return jpeg.Decode(file)
	case ".tif", ".tiff":
		return tiff.Decode(file)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageFormat, filepath.Ext(path))
}

// imageToSamples converts a decoded band to the 0-255 sample scale. 8-bit
// grey values are kept, 16-bit values are divided by 256 and anything else
// goes through the grey colour model. An empty image yields nil.
func imageToSamples(img image.Image) *mat.Dense {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}
	data := make([]float64, width*height)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				data[y*width+x] = float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	case *image.Gray16:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				data[y*width+x] = float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y) / sixteenBitScale
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
				data[y*width+x] = float64(g.Y)
			}
		}
	}
	return mat.NewDense(height, width, data)
}
