package urf

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when the stream does not start with "UNIRAST".
	ErrBadMagic = errors.New("urf: bad file header magic")

	// ErrTruncated is returned on any short read: file header, page
	// header, line repeat byte, run code or pixel payload.
	ErrTruncated = errors.New("urf: truncated stream")

	// ErrUnsupportedSource is returned for page headers whose pixel
	// format is not 24-bit sRGB.
	ErrUnsupportedSource = errors.New("urf: unsupported source pixel format")

	// ErrUnsupportedDestination is returned by NewRecoder for target
	// formats that have no conversion.
	ErrUnsupportedDestination = errors.New("urf: unsupported destination pixel format")

	// ErrInvalidSize is returned for pages with zero width or height.
	ErrInvalidSize = errors.New("urf: invalid page size")

	// ErrTooLarge is returned when a header asks for more memory than
	// the configured limit.
	ErrTooLarge = errors.New("urf: page too large")

	// ErrBufferTooSmall is returned from ReadRow when the buffer cannot
	// hold one row.
	ErrBufferTooSmall = errors.New("urf: buffer too small")
)

// FormatError describes a header that failed validation.
type FormatError struct {
	Field string
	Value uint32
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s=%d", e.Err, e.Field, e.Value)
}

func (e *FormatError) Unwrap() error { return e.Err }

// DecodeError locates a decoding failure inside a page.
type DecodeError struct {
	Row int
	Pos int
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("row %d pos %d: %v", e.Row, e.Pos, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
