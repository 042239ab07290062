package urf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// FileHeader opens a URF stream.
type FileHeader struct {
	Magic     [8]byte
	PageCount uint32
}

// PageHeader precedes the raster body of every page. All multi-byte
// fields are big-endian on the wire.
type PageHeader struct {
	BitsPerPixel uint8
	ColorSpace   ColorSpace
	Duplex       uint8
	Quality      uint8
	Reserved     [4]uint32 // [0:2] precede Width, [2:4] follow DotsPerInch
	Width        uint32
	Height       uint32
	DotsPerInch  uint32
}

// Format returns the pixel format declared by the header.
func (h *PageHeader) Format() PixelFormat {
	return PixelFormat{BitsPerPixel: h.BitsPerPixel, ColorSpace: h.ColorSpace}
}

// Validate checks that the page carries the 24-bit sRGB source format.
func (h *PageHeader) Validate() error {
	if h.ColorSpace != SourceFormat.ColorSpace {
		return &FormatError{Field: "colorspace", Value: uint32(h.ColorSpace), Err: ErrUnsupportedSource}
	}
	if h.BitsPerPixel != SourceFormat.BitsPerPixel {
		return &FormatError{Field: "bpp", Value: uint32(h.BitsPerPixel), Err: ErrUnsupportedSource}
	}
	return nil
}

// readFull wraps io.ReadFull, mapping every short read to ErrTruncated.
func readFull(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return err
	}
	return nil
}

// ReadFileHeader reads and validates the 12-byte file header.
func ReadFileHeader(r io.Reader) (*FileHeader, error) {
	buf := make([]byte, FileHeaderSize)
	if err := readFull(r, buf); err != nil {
		return nil, fmt.Errorf("read file header: %w", err)
	}
	return ParseFileHeader(buf)
}

// ParseFileHeader decodes a file header from data.
func ParseFileHeader(data []byte) (*FileHeader, error) {
	if len(data) < FileHeaderSize {
		return nil, fmt.Errorf("file header: %w", ErrTruncated)
	}
	h := &FileHeader{PageCount: binary.BigEndian.Uint32(data[8:12])}
	copy(h.Magic[:], data[0:8])
	// The terminator byte varies between producers.
	tag := h.Magic
	tag[7] = 0
	if tag != Magic {
		return nil, ErrBadMagic
	}
	return h, nil
}

// MarshalBinary encodes the file header, keeping the magic bytes as read.
func (h *FileHeader) MarshalBinary() ([]byte, error) {
	buf := make([]byte, FileHeaderSize)
	copy(buf[0:8], h.Magic[:])
	binary.BigEndian.PutUint32(buf[8:12], h.PageCount)
	return buf, nil
}

// ReadPageHeader reads the 32-byte page header. It does not validate the
// pixel format; call Validate for that.
func ReadPageHeader(r io.Reader) (*PageHeader, error) {
	buf := make([]byte, PageHeaderSize)
	if err := readFull(r, buf); err != nil {
		return nil, fmt.Errorf("read page header: %w", err)
	}
	return ParsePageHeader(buf)
}

// ParsePageHeader decodes a page header from data.
func ParsePageHeader(data []byte) (*PageHeader, error) {
	if len(data) < PageHeaderSize {
		return nil, fmt.Errorf("page header: %w", ErrTruncated)
	}
	be := binary.BigEndian
	return &PageHeader{
		BitsPerPixel: data[0],
		ColorSpace:   ColorSpace(data[1]),
		Duplex:       data[2],
		Quality:      data[3],
		Reserved: [4]uint32{
			be.Uint32(data[4:8]),
			be.Uint32(data[8:12]),
			be.Uint32(data[24:28]),
			be.Uint32(data[28:32]),
		},
		Width:       be.Uint32(data[12:16]),
		Height:      be.Uint32(data[16:20]),
		DotsPerInch: be.Uint32(data[20:24]),
	}, nil
}

// MarshalBinary encodes the page header. Reserved fields are always
// written as zero.
func (h *PageHeader) MarshalBinary() ([]byte, error) {
	buf := make([]byte, PageHeaderSize)
	buf[0] = h.BitsPerPixel
	buf[1] = byte(h.ColorSpace)
	buf[2] = h.Duplex
	buf[3] = h.Quality
	binary.BigEndian.PutUint32(buf[12:16], h.Width)
	binary.BigEndian.PutUint32(buf[16:20], h.Height)
	binary.BigEndian.PutUint32(buf[20:24], h.DotsPerInch)
	return buf, nil
}

// WriteFileHeader writes h to w.
func WriteFileHeader(w io.Writer, h *FileHeader) error {
	buf, _ := h.MarshalBinary()
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write file header: %w", err)
	}
	return nil
}

// WritePageHeader writes h to w.
func WritePageHeader(w io.Writer, h *PageHeader) error {
	buf, _ := h.MarshalBinary()
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write page header: %w", err)
	}
	return nil
}
