package urf

import (
	"fmt"
	"strconv"
	"strings"
)

// Magic is the tag that opens every URF stream. The eighth byte is
// implementation-defined and ignored on read.
var Magic = [8]byte{'U', 'N', 'I', 'R', 'A', 'S', 'T', 0}

// Header sizes on the wire.
const (
	FileHeaderSize = 12
	PageHeaderSize = 32
)

// ColorSpace is the colorspace byte of a page header.
type ColorSpace uint8

const (
	ColorSpaceSGray    ColorSpace = 0 // 8-bit gray
	ColorSpaceSRGB     ColorSpace = 1 // 24-bit sRGB, the only decodable source
	ColorSpaceCIELab   ColorSpace = 2
	ColorSpaceAdobeRGB ColorSpace = 3
	ColorSpaceGray     ColorSpace = 4 // 32-bit gray
	ColorSpaceRGB      ColorSpace = 5 // 32-bit RGB + pad
	ColorSpaceCMYK     ColorSpace = 6 // 32-bit or 64-bit CMYK
)

var colorSpaceNames = map[ColorSpace]string{
	ColorSpaceSGray:    "sgray",
	ColorSpaceSRGB:     "srgb",
	ColorSpaceCIELab:   "cielab",
	ColorSpaceAdobeRGB: "adobergb",
	ColorSpaceGray:     "gray",
	ColorSpaceRGB:      "rgb",
	ColorSpaceCMYK:     "cmyk",
}

func (c ColorSpace) String() string {
	if s, ok := colorSpaceNames[c]; ok {
		return s
	}
	return fmt.Sprintf("colorspace(%d)", uint8(c))
}

// ParseColorSpace accepts a colorspace name ("srgb") or its numeric
// header value ("1").
func ParseColorSpace(s string) (ColorSpace, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range colorSpaceNames {
		if n == name {
			return c, nil
		}
	}
	v, err := strconv.ParseUint(name, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown colorspace %q", s)
	}
	return ColorSpace(v), nil
}

// Bits per pixel values seen in page headers.
const (
	BPP8  uint8 = 8
	BPP24 uint8 = 24
	BPP32 uint8 = 32
	BPP64 uint8 = 64
)

// PixelFormat pairs a bit depth with a colorspace.
type PixelFormat struct {
	BitsPerPixel uint8
	ColorSpace   ColorSpace
}

// SourceFormat is the single pixel format this package decodes.
var SourceFormat = PixelFormat{BitsPerPixel: BPP24, ColorSpace: ColorSpaceSRGB}

// PixelSize returns the number of bytes one pixel occupies.
func (f PixelFormat) PixelSize() int { return int(f.BitsPerPixel) / 8 }

func (f PixelFormat) String() string {
	return fmt.Sprintf("%s/%dbpp", f.ColorSpace, f.BitsPerPixel)
}

// blank is the channel value written by the fill-rest code.
const blank = 0xFF

// Run codes.
const (
	codeFillRest = -128
)
