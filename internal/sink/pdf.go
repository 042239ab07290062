package sink

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"log/slog"

	"codeberg.org/go-pdf/fpdf"
	"github.com/OpenPrinting/go-mfp/abstract"

	"github.com/mzyy94/urfconv/internal/page"
)

const producer = "urfconv"

// PDF embeds every page as a full-bleed image on a page of matching size.
// Page sizes are set in millimeters.
type PDF struct {
	w     io.Writer
	pdf   *fpdf.Fpdf
	pages int
}

// NewPDF returns a PDF document that is written to w on Close. compress
// applies to page content streams; page images are always embedded as
// Flate-encoded PNG data.
func NewPDF(w io.Writer, meta Metadata, compress bool) *PDF {
	pdf := fpdf.New("P", "mm", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(compress)
	pdf.SetProducer(producer, true)
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if meta.Creator != "" {
		pdf.SetCreator(meta.Creator, true)
	}
	if !meta.CreationDate.IsZero() {
		pdf.SetCreationDate(meta.CreationDate)
	}
	return &PDF{w: w, pdf: pdf}
}

// AddPage implements page.Sink.
func (d *PDF) AddPage(p *page.Page) error {
	w, h := p.Geometry.Size()
	widthMM, heightMM := millimeters(w), millimeters(h)
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: widthMM, Ht: heightMM})

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.Image()); err != nil {
		return fmt.Errorf("encode page %d PNG: %w", p.Index+1, err)
	}
	slog.Debug("pdf page added", "page", p.Index+1, "widthMM", widthMM, "heightMM", heightMM, "bytes", buf.Len())

	name := fmt.Sprintf("page%d", p.Index)
	d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
	d.pdf.ImageOptions(name, 0, 0, widthMM, heightMM, false, fpdf.ImageOptions{}, 0, "")
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("embed page %d: %w", p.Index+1, err)
	}
	d.pages++
	return nil
}

func millimeters(d abstract.Dimension) float64 {
	return float64(d) / float64(abstract.Millimeter)
}

// Close renders the document to the underlying writer.
func (d *PDF) Close() error {
	if d.pages == 0 {
		return ErrNoPages
	}
	if err := d.pdf.Output(d.w); err != nil {
		return fmt.Errorf("generate PDF: %w", err)
	}
	return nil
}
