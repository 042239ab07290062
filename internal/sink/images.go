package sink

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"github.com/mzyy94/urfconv/internal/page"
)

// Image file formats written by Images.
const (
	FormatTIFF = "tiff"
	FormatPNG  = "png"
)

// Images writes one image file per page into a directory.
type Images struct {
	dir    string
	prefix string
	format string
	paths  []string
}

// NewImages creates dir if needed and returns a sink that writes
// <dir>/<prefix>_NNN.<format> for each page.
func NewImages(dir, prefix, format string) (*Images, error) {
	switch format {
	case FormatTIFF, FormatPNG:
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Images{dir: dir, prefix: prefix, format: format}, nil
}

// AddPage implements page.Sink.
func (s *Images) AddPage(p *page.Page) (err error) {
	outPath := filepath.Join(s.dir, fmt.Sprintf("%s_%03d.%s", s.prefix, p.Index+1, s.format))
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("write page %d: %w", p.Index+1, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("write page %d: %w", p.Index+1, cerr)
		}
	}()

	img := p.Image()
	switch s.format {
	case FormatTIFF:
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encode page %d: %w", p.Index+1, err)
	}
	s.paths = append(s.paths, outPath)
	slog.Debug("page image saved", "path", outPath)
	return nil
}

// Paths returns the files written so far, in page order.
func (s *Images) Paths() []string { return s.paths }

// Close reports ErrNoPages when nothing was written.
func (s *Images) Close() error {
	if len(s.paths) == 0 {
		return ErrNoPages
	}
	slog.Info("pages saved as image files", "path", s.dir, "pages", len(s.paths))
	return nil
}
