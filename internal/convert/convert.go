// Package convert drives URF streams through the decoder into a document
// sink or back out as a recoded URF stream.
package convert

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mzyy94/urfconv/internal/page"
	"github.com/mzyy94/urfconv/internal/urf"
)

// Options tunes decoding and page assembly.
type Options struct {
	DrainLiterals bool
	MaxLineBytes  int   // 0 means urf.DefaultMaxLineBytes
	MaxPageBytes  int64 // 0 means page.DefaultMaxBytes
	DefaultDPI    int   // 0 means page.DefaultDPI
}

func (o Options) decodeOptions(l urf.Listener) urf.DecodeOptions {
	return urf.DecodeOptions{
		Listener:      l,
		DrainLiterals: o.DrainLiterals,
		MaxLineBytes:  o.MaxLineBytes,
	}
}

// Stats summarizes a completed run.
type Stats struct {
	Pages int
	Rows  int
}

func logPageHeader(index int, total uint32, h *urf.PageHeader) {
	slog.Info("page header",
		"page", index+1,
		"of", total,
		"format", h.Format().String(),
		"width", h.Width,
		"height", h.Height,
		"dpi", h.DotsPerInch,
		"duplex", h.Duplex,
		"quality", h.Quality,
	)
}

// ToDocument decodes every page of the URF stream r and hands it to sink.
// The caller closes the sink. Any error aborts the run.
func ToDocument(ctx context.Context, r io.Reader, sink page.Sink, opts Options) (Stats, error) {
	var st Stats
	br := bufio.NewReader(r)

	fh, err := urf.ReadFileHeader(br)
	if err != nil {
		return st, err
	}
	slog.Info("urf stream", "pages", fh.PageCount)

	asm := page.Assembler{MaxBytes: opts.MaxPageBytes, DefaultDPI: opts.DefaultDPI}
	for i := range int(fh.PageCount) {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		ph, err := urf.ReadPageHeader(br)
		if err != nil {
			return st, fmt.Errorf("page %d: %w", i+1, err)
		}
		logPageHeader(i, fh.PageCount, ph)
		if err := ph.Validate(); err != nil {
			return st, fmt.Errorf("page %d: %w", i+1, err)
		}

		dec, err := urf.NewPageDecoder(br, ph, opts.decodeOptions(nil))
		if err != nil {
			return st, fmt.Errorf("page %d: %w", i+1, err)
		}
		buf, err := asm.Begin(i, int(ph.Width), int(ph.Height), ph.Format().PixelSize(), int(ph.DotsPerInch))
		if err != nil {
			return st, err
		}
		for y, row := range dec.Rows() {
			if err := buf.WriteRow(y, row); err != nil {
				return st, fmt.Errorf("page %d: %w", i+1, err)
			}
			st.Rows++
		}
		if err := dec.Err(); err != nil {
			return st, fmt.Errorf("page %d: %w", i+1, err)
		}
		if err := asm.Finish(buf, sink); err != nil {
			return st, err
		}
		st.Pages++
	}
	return st, nil
}
