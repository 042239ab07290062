package sink

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/tiff"

	"github.com/mzyy94/urfconv/internal/page"
)

func testPage(index, w, h, dpi int) *page.Page {
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = byte(i * 7)
	}
	return &page.Page{
		Index:    index,
		Geometry: page.NewGeometry(w, h, dpi, 300),
		Pix:      pix,
	}
}

func TestPDF_Output(t *testing.T) {
	var out bytes.Buffer
	doc := NewPDF(&out, Metadata{
		Title:        "Quarterly report",
		Author:       "alice",
		CreationDate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}, false)
	for i := range 2 {
		// one inch by half an inch
		if err := doc.AddPage(testPage(i, 254, 127, 254)); err != nil {
			t.Fatalf("AddPage(%d) failed: %v", i, err)
		}
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data := out.Bytes()
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not start with %%PDF-: %q", data[:min(len(data), 16)])
	}
	s := string(data)
	if !strings.Contains(s, "/CreationDate (D:20240102030405)") {
		t.Error("creation date missing from document info")
	}
	if !strings.Contains(s, "/Title ") {
		t.Error("title missing from document info")
	}
	if n := strings.Count(s, "/MediaBox [0 0 72.00 36.00]"); n != 2 {
		t.Errorf("found %d pages of 72x36 pt, want 2", n)
	}
}

func TestPDF_Compression(t *testing.T) {
	tests := []struct {
		compress bool
		want     int
	}{
		// the PNG image stream is Flate-encoded either way
		{false, 1},
		{true, 2},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		doc := NewPDF(&out, Metadata{}, tt.compress)
		if err := doc.AddPage(testPage(0, 8, 8, 72)); err != nil {
			t.Fatal(err)
		}
		if err := doc.Close(); err != nil {
			t.Fatal(err)
		}
		if got := strings.Count(out.String(), "/Filter /FlateDecode"); got != tt.want {
			t.Errorf("compress=%v: %d Flate streams, want %d", tt.compress, got, tt.want)
		}
	}
}

func TestPDF_NoPages(t *testing.T) {
	var out bytes.Buffer
	doc := NewPDF(&out, Metadata{}, true)
	if err := doc.Close(); !errors.Is(err, ErrNoPages) {
		t.Errorf("Close err = %v, want ErrNoPages", err)
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes for an empty document", out.Len())
	}
}

func TestImages_WritesFiles(t *testing.T) {
	tests := []struct {
		format string
		decode func(*os.File) (image.Image, error)
	}{
		{FormatPNG, func(f *os.File) (image.Image, error) { return png.Decode(f) }},
		{FormatTIFF, func(f *os.File) (image.Image, error) { return tiff.Decode(f) }},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			s, err := NewImages(dir, "job", tt.format)
			if err != nil {
				t.Fatal(err)
			}
			src := testPage(0, 4, 3, 72)
			if err := s.AddPage(src); err != nil {
				t.Fatalf("AddPage failed: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			paths := s.Paths()
			want := filepath.Join(dir, "job_001."+tt.format)
			if len(paths) != 1 || paths[0] != want {
				t.Fatalf("Paths = %v, want [%s]", paths, want)
			}
			f, err := os.Open(paths[0])
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := tt.decode(f)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if img.Bounds() != image.Rect(0, 0, 4, 3) {
				t.Fatalf("bounds = %v", img.Bounds())
			}
			ref := src.Image()
			for y := range 3 {
				for x := range 4 {
					got := color.RGBAModel.Convert(img.At(x, y))
					if got != ref.At(x, y) {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, ref.At(x, y))
					}
				}
			}
		})
	}
}

func TestImages_Errors(t *testing.T) {
	if _, err := NewImages(t.TempDir(), "job", "bmp"); err == nil {
		t.Error("NewImages accepted an unknown format")
	}
	s, err := NewImages(t.TempDir(), "job", FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); !errors.Is(err, ErrNoPages) {
		t.Errorf("Close err = %v, want ErrNoPages", err)
	}
}
