package urf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
)

// ByteReader is the input of a PageDecoder. Run codes are read one byte
// at a time, so the reader should be buffered (bufio.Reader,
// bytes.Reader). The decoder never reads past the end of the page.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// Listener observes the raster body in stream order: every line repeat
// byte, every run code and every pixel payload actually read.
type Listener interface {
	LineRepeat(b byte) error
	RunCode(code byte) error
	Pixel(px []byte) error
}

// DefaultMaxLineBytes bounds the line buffer allocated from a header.
const DefaultMaxLineBytes = 64 << 20

// DecodeOptions configures a PageDecoder.
type DecodeOptions struct {
	// Listener, if set, sees the stream structure as it is consumed.
	Listener Listener

	// DrainLiterals makes the decoder read and discard literal pixels
	// that fall past the end of the row. By default they are left
	// unread, matching existing encoders.
	DrainLiterals bool

	// MaxLineBytes bounds width*pixel size; 0 means DefaultMaxLineBytes.
	MaxLineBytes int
}

// PageDecoder decodes the run-length raster body of one page. It yields
// exactly Height rows and is not restartable.
type PageDecoder struct {
	r         ByteReader
	opts      DecodeOptions
	width     int
	height    int
	pixelSize int

	line    []byte // current decoded row
	pixel   []byte
	lineRep int // copies of line still to emit
	rows    int // rows emitted so far
	pos     int // pixel position within the line being decoded
	err     error
	debug   bool
}

// NewPageDecoder returns a decoder for the body following h. The header
// must already have passed Validate.
func NewPageDecoder(r ByteReader, h *PageHeader, opts DecodeOptions) (*PageDecoder, error) {
	if h.Width == 0 {
		return nil, &FormatError{Field: "width", Value: h.Width, Err: ErrInvalidSize}
	}
	if h.Height == 0 {
		return nil, &FormatError{Field: "height", Value: h.Height, Err: ErrInvalidSize}
	}
	pixelSize := h.Format().PixelSize()
	if pixelSize == 0 {
		return nil, &FormatError{Field: "bpp", Value: uint32(h.BitsPerPixel), Err: ErrUnsupportedSource}
	}
	limit := opts.MaxLineBytes
	if limit <= 0 {
		limit = DefaultMaxLineBytes
	}
	if uint64(h.Width)*uint64(pixelSize) > uint64(limit) {
		return nil, &FormatError{Field: "width", Value: h.Width, Err: ErrTooLarge}
	}
	return &PageDecoder{
		r:         r,
		opts:      opts,
		width:     int(h.Width),
		height:    int(h.Height),
		pixelSize: pixelSize,
		line:      make([]byte, int(h.Width)*pixelSize),
		pixel:     make([]byte, pixelSize),
		debug:     slog.Default().Enabled(context.Background(), slog.LevelDebug),
	}, nil
}

// Err returns the first decoding error, if any. Reaching the end of the
// page is not an error.
func (p *PageDecoder) Err() error { return p.err }

// ReadRow decodes the next row into b. It returns io.EOF once Height rows
// have been read. The buffer must hold at least one row: Width times
// the pixel size.
func (p *PageDecoder) ReadRow(b []byte) error {
	if p.err != nil {
		return p.err
	}
	if len(b) < len(p.line) {
		return ErrBufferTooSmall
	}
	if p.rows >= p.height {
		return io.EOF
	}
	if p.lineRep == 0 {
		if err := p.decodeLine(); err != nil {
			p.err = &DecodeError{Row: p.rows, Pos: p.pos, Err: err}
			return p.err
		}
	}
	p.lineRep--
	p.rows++
	copy(b, p.line)
	return nil
}

// Rows returns an iterator over the remaining rows, keyed by row index.
// The yielded slice is reused between iterations. Check Err after the
// loop.
func (p *PageDecoder) Rows() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		row := make([]byte, len(p.line))
		for {
			y := p.rows
			if err := p.ReadRow(row); err != nil {
				return
			}
			if !yield(y, row) {
				return
			}
		}
	}
}

// Discard consumes the rest of the page.
func (p *PageDecoder) Discard() error {
	for range p.Rows() {
	}
	return p.err
}

func (p *PageDecoder) readByte() (byte, error) {
	c, err := p.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrTruncated
		}
		return 0, err
	}
	return c, nil
}

func (p *PageDecoder) readPixel() error {
	if err := readFull(p.r, p.pixel); err != nil {
		return fmt.Errorf("pixel: %w", err)
	}
	if l := p.opts.Listener; l != nil {
		return l.Pixel(p.pixel)
	}
	return nil
}

func (p *PageDecoder) setPixel() {
	copy(p.line[p.pos*p.pixelSize:], p.pixel)
	p.pos++
}

func (p *PageDecoder) decodeLine() error {
	rep, err := p.readByte()
	if err != nil {
		return fmt.Errorf("line repeat: %w", err)
	}
	if l := p.opts.Listener; l != nil {
		if err := l.LineRepeat(rep); err != nil {
			return err
		}
	}
	p.lineRep = int(rep) + 1
	p.pos = 0

	for p.pos < p.width {
		c, err := p.readByte()
		if err != nil {
			return fmt.Errorf("run code: %w", err)
		}
		if l := p.opts.Listener; l != nil {
			if err := l.RunCode(c); err != nil {
				return err
			}
		}

		code := int8(c)
		switch {
		case code == codeFillRest:
			fill := p.line[p.pos*p.pixelSize:]
			for i := range fill {
				fill[i] = blank
			}
			p.pos = p.width

		case code >= 0:
			n := int(code) + 1
			if err := p.readPixel(); err != nil {
				return err
			}
			take := min(n, p.width-p.pos)
			for range take {
				p.setPixel()
			}
			if take < n && p.debug {
				slog.Debug("repeat run clipped at end of line", "row", p.rows, "count", n, "written", take)
			}

		default:
			n := 1 - int(code)
			take := min(n, p.width-p.pos)
			for range take {
				if err := p.readPixel(); err != nil {
					return err
				}
				p.setPixel()
			}
			if take < n {
				if p.debug {
					slog.Debug("literal run clipped at end of line", "row", p.rows, "count", n, "written", take, "drain", p.opts.DrainLiterals)
				}
				if p.opts.DrainLiterals {
					for range n - take {
						if err := p.readPixel(); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}
