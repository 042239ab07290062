package page

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrPageTooLarge is returned by Begin when the page buffer would
	// exceed the assembler's limit.
	ErrPageTooLarge = errors.New("page: buffer exceeds size limit")

	// ErrRowOutOfRange is returned by WriteRow for rows outside the page.
	ErrRowOutOfRange = errors.New("page: row out of range")

	// ErrRowSize is returned by WriteRow for rows of the wrong length.
	ErrRowSize = errors.New("page: row has wrong size")
)

// SinkError wraps a failure reported by the document a page was handed to.
type SinkError struct {
	Page int
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink: page %d: %v", e.Page+1, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Sink receives completed pages. The page buffer belongs to the sink
// for the duration of the call only.
type Sink interface {
	AddPage(p *Page) error
}

// Defaults for Assembler.
const (
	DefaultMaxBytes = 1 << 30
	DefaultDPI      = 300
)

// Assembler allocates page buffers and hands finished pages to a Sink.
// It holds at most one page at a time.
type Assembler struct {
	MaxBytes   int64 // 0 means DefaultMaxBytes
	DefaultDPI int   // used when a page header carries no resolution

	cur *Buffer
}

// Buffer accumulates the rows of one page.
type Buffer struct {
	Index     int
	Width     int
	Height    int
	PixelSize int
	DPI       int
	Pix       []byte

	written int
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int { return b.Width * b.PixelSize }

// Rows returns the number of rows written so far.
func (b *Buffer) Rows() int { return b.written }

// Begin allocates the buffer for page index. Any page still held is
// dropped.
func (a *Assembler) Begin(index, width, height, pixelSize, dpi int) (*Buffer, error) {
	if width <= 0 || height <= 0 || pixelSize <= 0 {
		return nil, fmt.Errorf("page %d: invalid size %dx%d", index+1, width, height)
	}
	limit := a.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	size := int64(width) * int64(height) * int64(pixelSize)
	if size > limit || size/int64(height) != int64(width)*int64(pixelSize) {
		return nil, fmt.Errorf("page %d: %dx%d at %d bytes/pixel: %w", index+1, width, height, pixelSize, ErrPageTooLarge)
	}
	if a.cur != nil {
		slog.Warn("dropping unfinished page", "page", a.cur.Index+1, "rows", a.cur.written)
	}
	a.cur = &Buffer{
		Index:     index,
		Width:     width,
		Height:    height,
		PixelSize: pixelSize,
		DPI:       dpi,
		Pix:       make([]byte, size),
	}
	return a.cur, nil
}

// WriteRow copies row into row y of the page.
func (b *Buffer) WriteRow(y int, row []byte) error {
	if y < 0 || y >= b.Height {
		return fmt.Errorf("row %d of %d: %w", y, b.Height, ErrRowOutOfRange)
	}
	stride := b.Stride()
	if len(row) != stride {
		return fmt.Errorf("row %d: %d bytes, want %d: %w", y, len(row), stride, ErrRowSize)
	}
	copy(b.Pix[y*stride:], row)
	b.written++
	return nil
}

// Finish hands the page in b to sink and releases the buffer.
func (a *Assembler) Finish(b *Buffer, sink Sink) error {
	if a.cur == b {
		a.cur = nil
	}
	dpi := a.DefaultDPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	p := &Page{
		Index:    b.Index,
		Geometry: NewGeometry(b.Width, b.Height, b.DPI, dpi),
		Pix:      b.Pix,
	}
	b.Pix = nil

	wPt, hPt := p.Geometry.Points()
	slog.Debug("page complete", "page", p.Index+1, "rows", b.written, "widthPt", wPt, "heightPt", hPt)
	if err := sink.AddPage(p); err != nil {
		return &SinkError{Page: p.Index, Err: err}
	}
	return nil
}
