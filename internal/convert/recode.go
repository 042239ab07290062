package convert

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mzyy94/urfconv/internal/urf"
)

// recodeListener copies the run structure of a page to w unchanged and
// replaces every pixel payload with its recoded form.
type recodeListener struct {
	w      *bufio.Writer
	recode urf.Recoder
	dst    []byte
}

func (l *recodeListener) LineRepeat(b byte) error { return l.w.WriteByte(b) }

func (l *recodeListener) RunCode(code byte) error { return l.w.WriteByte(code) }

func (l *recodeListener) Pixel(px []byte) error {
	l.recode(l.dst, px)
	_, err := l.w.Write(l.dst)
	return err
}

// Recode re-encodes the URF stream r into target and writes it to w. The
// target is checked before any input is read.
func Recode(ctx context.Context, r io.Reader, w io.Writer, target urf.PixelFormat, opts Options) (Stats, error) {
	var st Stats
	recode, err := urf.NewRecoder(target)
	if err != nil {
		return st, err
	}

	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	fh, err := urf.ReadFileHeader(br)
	if err != nil {
		return st, err
	}
	if err := urf.WriteFileHeader(bw, fh); err != nil {
		return st, err
	}
	slog.Info("recoding urf stream", "pages", fh.PageCount, "target", target.String())

	l := &recodeListener{w: bw, recode: recode, dst: make([]byte, target.PixelSize())}
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

		dec, err := urf.NewPageDecoder(br, ph, opts.decodeOptions(l))
		if err != nil {
			return st, fmt.Errorf("page %d: %w", i+1, err)
		}
		out := *ph
		out.BitsPerPixel = target.BitsPerPixel
		out.ColorSpace = target.ColorSpace
		out.Reserved = [4]uint32{}
		if err := urf.WritePageHeader(bw, &out); err != nil {
			return st, fmt.Errorf("page %d: %w", i+1, err)
		}

		if err := dec.Discard(); err != nil {
			return st, fmt.Errorf("page %d: %w", i+1, err)
		}
		st.Rows += int(ph.Height)
		st.Pages++
	}
	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("flush output: %w", err)
	}
	return st, nil
}
