package urf

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
)

func recode(t *testing.T, f PixelFormat, src []byte) []byte {
	t.Helper()
	r, err := NewRecoder(f)
	if err != nil {
		t.Fatalf("NewRecoder(%s) failed: %v", f, err)
	}
	dst := make([]byte, f.PixelSize())
	r(dst, src)
	return dst
}

func TestRecoder(t *testing.T) {
	var (
		gray8   = PixelFormat{BitsPerPixel: BPP8, ColorSpace: ColorSpaceSGray}
		rgb24   = PixelFormat{BitsPerPixel: BPP24, ColorSpace: ColorSpaceSRGB}
		rgb32   = PixelFormat{BitsPerPixel: BPP32, ColorSpace: ColorSpaceRGB}
		gray32  = PixelFormat{BitsPerPixel: BPP32, ColorSpace: ColorSpaceGray}
		cmyk32  = PixelFormat{BitsPerPixel: BPP32, ColorSpace: ColorSpaceCMYK}
		cmyk64  = PixelFormat{BitsPerPixel: BPP64, ColorSpace: ColorSpaceCMYK}
		black   = []byte{0, 0, 0}
		white   = []byte{255, 255, 255}
		red     = []byte{255, 0, 0}
		mixed   = []byte{10, 20, 31}
		midGray = []byte{0x80, 0x80, 0x80}
	)
	tests := []struct {
		name   string
		format PixelFormat
		src    []byte
		want   []byte
	}{
		{"gray8_average_floor", gray8, mixed, []byte{20}},
		{"gray8_white", gray8, white, []byte{255}},
		{"rgb24_identity", rgb24, mixed, []byte{10, 20, 31}},
		{"rgb32_pad", rgb32, mixed, []byte{10, 20, 31, 0}},
		{"gray32_replicated", gray32, midGray, []byte{0x80, 0x80, 0x80, 0x80}},
		{"gray32_white", gray32, white, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"gray32_average", gray32, mixed, []byte{20, 20, 20, 20}},
		{"cmyk32_black", cmyk32, black, []byte{0, 0, 0, 0xFF}},
		{"cmyk32_white", cmyk32, white, []byte{0, 0, 0, 0}},
		{"cmyk32_red", cmyk32, red, []byte{0, 0xFF, 0xFF, 0}},
		{"cmyk64_black", cmyk64, black, []byte{0, 0, 0, 0, 0, 0, 0xFF, 0xFF}},
		{"cmyk64_white", cmyk64, white, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"cmyk64_red", cmyk64, red, []byte{0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0}},
		{"cmyk32_dark_blue", cmyk32, []byte{0, 0, 59}, []byte{0xFF, 0xFF, 0, 0xC4}},
		{"cmyk32_mixed", cmyk32, mixed, []byte{172, 90, 0, 224}},
		{"cmyk32_mid_gray", cmyk32, midGray, []byte{0, 0, 0, 0x7F}},
		{"cmyk32_near_black", cmyk32, []byte{0, 0, 1}, []byte{0xFF, 0xFF, 0, 0xFE}},
		{"cmyk64_dark_blue", cmyk64, []byte{0, 0, 59}, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0xC4, 0xC4}},
		{"cmyk64_mixed", cmyk64, mixed, []byte{0xAD, 0x6A, 0x5A, 0xD6, 0, 0, 0xE0, 0xE0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recode(t, tt.format, tt.src)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("recode(% X) = % X, want % X", tt.src, got, tt.want)
			}
		})
	}
}

// Every color: K is exactly 255-max(r,g,b) and C, M, Y are truncated,
// never rounded down a step by accumulated error.
func TestRecoder_CMYK32Exact(t *testing.T) {
	dst := make([]byte, 4)
	for v := range 1 << 24 {
		src := []byte{byte(v >> 16), byte(v >> 8), byte(v)}
		toCMYK32(dst, src)
		c, m, y, k := color.RGBToCMYK(src[0], src[1], src[2])
		if !bytes.Equal(dst, []byte{c, m, y, k}) {
			t.Fatalf("rgb(%d,%d,%d) = % X, want % X", src[0], src[1], src[2], dst, []byte{c, m, y, k})
		}
		mx := max(src[0], src[1], src[2])
		if dst[3] != 0xFF-mx {
			t.Fatalf("rgb(%d,%d,%d): K = %d, want %d", src[0], src[1], src[2], dst[3], 0xFF-mx)
		}
		if mx == 0 {
			continue
		}
		for i := range 3 {
			// dst[i] must be the floor of 255*(mx-s)/mx.
			num, den := 0xFF*(int(mx)-int(src[i])), int(mx)
			if got := int(dst[i]); got*den > num || (got+1)*den <= num {
				t.Fatalf("rgb(%d,%d,%d): channel %d = %d, want floor(%d/%d)", src[0], src[1], src[2], i, got, num, den)
			}
		}
	}
}

func TestNewRecoder_Unsupported(t *testing.T) {
	tests := []PixelFormat{
		{BitsPerPixel: BPP24, ColorSpace: ColorSpaceCMYK},
		{BitsPerPixel: 16, ColorSpace: ColorSpaceSGray},
		{BitsPerPixel: BPP64, ColorSpace: ColorSpaceSRGB},
		{BitsPerPixel: BPP32, ColorSpace: ColorSpaceCIELab},
		{BitsPerPixel: BPP24, ColorSpace: ColorSpaceAdobeRGB},
	}
	for _, f := range tests {
		if _, err := NewRecoder(f); !errors.Is(err, ErrUnsupportedDestination) {
			t.Errorf("NewRecoder(%s) err = %v, want ErrUnsupportedDestination", f, err)
		}
	}
}

func TestDestinationFormats(t *testing.T) {
	for _, f := range DestinationFormats() {
		if _, err := NewRecoder(f); err != nil {
			t.Errorf("NewRecoder(%s) failed: %v", f, err)
		}
	}
	if n := len(DestinationFormats()); n != len(recoders) {
		t.Errorf("DestinationFormats has %d entries, recoders has %d", n, len(recoders))
	}
}
