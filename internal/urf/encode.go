package urf

import (
	"bytes"
	"fmt"
	"io"
)

// Encoder writes URF streams. It is the inverse of the decoder and is
// used to produce fixtures and synthetic jobs.
type Encoder struct {
	w   io.Writer
	buf []byte
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteFileHeader writes the file header announcing pages pages.
func (e *Encoder) WriteFileHeader(pages uint32) error {
	return WriteFileHeader(e.w, &FileHeader{Magic: Magic, PageCount: pages})
}

// WritePage writes h followed by the encoded rows of pix, which holds
// Height rows of Width pixels in the header's pixel format.
func (e *Encoder) WritePage(h *PageHeader, pix []byte) error {
	pixelSize := h.Format().PixelSize()
	if pixelSize == 0 {
		return &FormatError{Field: "bpp", Value: uint32(h.BitsPerPixel), Err: ErrUnsupportedSource}
	}
	stride := int(h.Width) * pixelSize
	if len(pix) != stride*int(h.Height) {
		return fmt.Errorf("page data is %d bytes, want %d", len(pix), stride*int(h.Height))
	}
	if err := WritePageHeader(e.w, h); err != nil {
		return err
	}

	for y := 0; y < int(h.Height); {
		row := pix[y*stride : (y+1)*stride]
		n := 1
		for n < 256 && y+n < int(h.Height) && bytes.Equal(pix[(y+n)*stride:(y+n+1)*stride], row) {
			n++
		}
		e.buf = AppendLine(e.buf[:0], row, pixelSize, n)
		if _, err := e.w.Write(e.buf); err != nil {
			return fmt.Errorf("write line %d: %w", y, err)
		}
		y += n
	}
	return nil
}

// AppendLine appends the encoding of row, repeated count (1..256) times,
// to dst. Trailing white pixels collapse into a single fill-rest code.
func AppendLine(dst, row []byte, pixelSize, count int) []byte {
	dst = append(dst, byte(count-1))
	px := func(i int) []byte { return row[i*pixelSize : (i+1)*pixelSize] }

	end := len(row) / pixelSize
	for end > 0 && isBlank(px(end-1)) {
		end--
	}

	for pos := 0; pos < end; {
		run := 1
		for pos+run < end && run < 128 && bytes.Equal(px(pos+run), px(pos)) {
			run++
		}
		if run > 1 {
			dst = append(dst, byte(run-1))
			dst = append(dst, px(pos)...)
			pos += run
			continue
		}

		lit := 1
		for pos+lit < end && lit < 128 {
			if pos+lit+1 < end && bytes.Equal(px(pos+lit), px(pos+lit+1)) {
				break
			}
			lit++
		}
		if lit == 1 {
			dst = append(dst, 0)
		} else {
			dst = append(dst, byte(int8(1-lit)))
		}
		dst = append(dst, row[pos*pixelSize:(pos+lit)*pixelSize]...)
		pos += lit
	}

	if end < len(row)/pixelSize {
		dst = append(dst, 0x80)
	}
	return dst
}

func isBlank(px []byte) bool {
	for _, c := range px {
		if c != blank {
			return false
		}
	}
	return true
}
