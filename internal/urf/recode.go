package urf

import (
	"encoding/binary"
	"fmt"
)

// Recoder converts one 24-bit sRGB source pixel into dst, which must be
// exactly the destination pixel size.
type Recoder func(dst, src []byte)

// grayWord replicates an 8-bit value across the four bytes of a 32-bit word.
const grayWord = 16843009

var recoders = map[PixelFormat]Recoder{
	{BitsPerPixel: BPP8, ColorSpace: ColorSpaceSGray}: toGray8,
	{BitsPerPixel: BPP24, ColorSpace: ColorSpaceSRGB}: toRGB24,
	{BitsPerPixel: BPP32, ColorSpace: ColorSpaceRGB}:  toRGB32,
	{BitsPerPixel: BPP32, ColorSpace: ColorSpaceGray}: toGray32,
	{BitsPerPixel: BPP32, ColorSpace: ColorSpaceCMYK}: toCMYK32,
	{BitsPerPixel: BPP64, ColorSpace: ColorSpaceCMYK}: toCMYK64,
}

// NewRecoder returns the conversion from SourceFormat to f.
func NewRecoder(f PixelFormat) (Recoder, error) {
	r, ok := recoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDestination, f)
	}
	return r, nil
}

// DestinationFormats lists every supported recode target.
func DestinationFormats() []PixelFormat {
	return []PixelFormat{
		{BitsPerPixel: BPP8, ColorSpace: ColorSpaceSGray},
		{BitsPerPixel: BPP24, ColorSpace: ColorSpaceSRGB},
		{BitsPerPixel: BPP32, ColorSpace: ColorSpaceRGB},
		{BitsPerPixel: BPP32, ColorSpace: ColorSpaceGray},
		{BitsPerPixel: BPP32, ColorSpace: ColorSpaceCMYK},
		{BitsPerPixel: BPP64, ColorSpace: ColorSpaceCMYK},
	}
}

func average(src []byte) uint32 {
	return (uint32(src[0]) + uint32(src[1]) + uint32(src[2])) / 3
}

func toGray8(dst, src []byte) {
	dst[0] = byte(average(src))
}

func toRGB24(dst, src []byte) {
	copy(dst, src[:3])
}

func toRGB32(dst, src []byte) {
	copy(dst, src[:3])
	dst[3] = 0
}

func toGray32(dst, src []byte) {
	binary.BigEndian.PutUint32(dst, average(src)*grayWord)
}

func toCMYK32(dst, src []byte) {
	c, m, y, k := rgbToCMYK(src, 0xFF)
	dst[0] = byte(c)
	dst[1] = byte(m)
	dst[2] = byte(y)
	dst[3] = byte(k)
}

func toCMYK64(dst, src []byte) {
	c, m, y, k := rgbToCMYK(src, 0xFFFF)
	binary.BigEndian.PutUint16(dst[0:2], uint16(c))
	binary.BigEndian.PutUint16(dst[2:4], uint16(m))
	binary.BigEndian.PutUint16(dst[4:6], uint16(y))
	binary.BigEndian.PutUint16(dst[6:8], uint16(k))
}

// rgbToCMYK performs the subtractive conversion with undercolor removal,
// scaling each component to [0, full] and truncating. With mx the
// largest channel, K = 1 - mx/255 and C = (1-r/255-K)/(1-K) = (mx-r)/mx.
func rgbToCMYK(src []byte, full uint32) (c, m, y, k uint32) {
	r, g, b := uint32(src[0]), uint32(src[1]), uint32(src[2])
	mx := max(r, g, b)
	if mx == 0 {
		return 0, 0, 0, full
	}
	k = full * (0xFF - mx) / 0xFF
	c = full * (mx - r) / mx
	m = full * (mx - g) / mx
	y = full * (mx - b) / mx
	return c, m, y, k
}
