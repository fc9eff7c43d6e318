package loader

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/tiff"
)

const (
	tiffMagic    = 42
	tiffEntryLen = 12
)

// decodePages decodes every page of a TIFF stream in file order.
// tiff.Decode only reads the page the header points at, so each page is
// decoded through a view of data whose header points at that page instead.
func decodePages(data []byte) ([]image.Image, error) {
	order, offsets, err := pageOffsets(data)
	if err != nil {
		return nil, err
	}

	pages := make([]image.Image, 0, len(offsets))
	for i, off := range offsets {
		view := &pageView{data: data}
		order.PutUint32(view.ifd[:], off)
		page, err := tiff.Decode(io.NewSectionReader(view, 0, int64(len(data))))
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// pageOffsets follows the chain of image file directories.
func pageOffsets(data []byte) (binary.ByteOrder, []uint32, error) {
	if len(data) < 8 {
		return nil, nil, fmt.Errorf("%w: truncated TIFF header", ErrUnsupportedImageFormat)
	}
	var order binary.ByteOrder
	switch string(data[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, nil, fmt.Errorf("%w: not a TIFF file", ErrUnsupportedImageFormat)
	}
	if order.Uint16(data[2:4]) != tiffMagic {
		return nil, nil, fmt.Errorf("%w: only classic TIFF is supported", ErrUnsupportedImageFormat)
	}

	var offsets []uint32
	seen := make(map[uint32]bool)
	for off := order.Uint32(data[4:8]); off != 0; {
		start := int64(off)
		if seen[off] || start+2 > int64(len(data)) {
			return nil, nil, fmt.Errorf("%w: bad page offset %d", ErrUnsupportedImageFormat, off)
		}
		seen[off] = true
		offsets = append(offsets, off)

		next := start + 2 + tiffEntryLen*int64(order.Uint16(data[start:]))
		if next+4 > int64(len(data)) {
			return nil, nil, fmt.Errorf("%w: truncated page %d", ErrUnsupportedImageFormat, len(offsets)-1)
		}
		off = order.Uint32(data[next:])
	}
	return order, offsets, nil
}

// pageView serves data with bytes 4-7 of the header replaced by ifd.
type pageView struct {
	data []byte
	ifd  [4]byte
}

func (v *pageView) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= int64(len(v.data)) {
		return 0, io.EOF
	}
	n := copy(p, v.data[off:])
	for i := int64(4); i < 8; i++ {
		if i >= off && i < off+int64(n) {
			p[i-off] = v.ifd[i-4]
		}
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
