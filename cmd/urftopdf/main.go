package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mzyy94/urfconv/internal/config"
	"github.com/mzyy94/urfconv/internal/convert"
	"github.com/mzyy94/urfconv/internal/job"
	"github.com/mzyy94/urfconv/internal/sink"
)

func main() {
	settings := config.FromEnv()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: settings.Level()})))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, settings, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, job.ErrUsage) {
			fmt.Fprintf(os.Stderr, "Usage: %s %s\n", filepath.Base(os.Args[0]), job.FilterUsage)
		}
		slog.Error("conversion failed", "err", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, s config.Settings, args []string, stdout io.Writer) error {
	j, err := job.ParseFilterArgs(args)
	if err != nil {
		return err
	}
	slog.Info("job", "id", j.ID, "user", j.User, "title", j.Title, "copies", j.Copies, "format", s.Format)

	in := io.Reader(os.Stdin)
	if !j.Stdin() {
		f, err := os.Open(j.File)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	opts := convert.Options{
		DrainLiterals: s.DrainLiterals,
		MaxPageBytes:  s.MaxPageBytes,
		DefaultDPI:    s.DefaultDPI,
	}

	switch s.Format {
	case config.FormatPDF:
		return toPDF(ctx, s, j, in, stdout, opts)
	case config.FormatTIFF, config.FormatPNG:
		prefix := "urf_" + time.Now().Format("20060102_150405")
		if j.ID != "" {
			prefix = "job" + j.ID
		}
		images, err := sink.NewImages(s.OutputDir, prefix, s.Format)
		if err != nil {
			return err
		}
		st, err := convert.ToDocument(ctx, in, images, opts)
		if err != nil {
			return err
		}
		if err := images.Close(); err != nil {
			return err
		}
		slog.Info("conversion complete", "pages", st.Pages, "rows", st.Rows, "files", len(images.Paths()))
		return nil
	default:
		return fmt.Errorf("unknown output format %q", s.Format)
	}
}

// toPDF renders into a temporary file and copies it to stdout only once
// the whole document is complete.
func toPDF(ctx context.Context, s config.Settings, j *job.Job, in io.Reader, stdout io.Writer, opts convert.Options) error {
	tmp, err := os.CreateTemp(s.TempDir, "urftopdf-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	doc := sink.NewPDF(tmp, sink.Metadata{
		Title:        j.Title,
		Author:       j.User,
		Creator:      "urftopdf",
		CreationDate: time.Now(),
	}, s.CompressEnabled())

	st, err := convert.ToDocument(ctx, in, doc, opts)
	if err != nil {
		return err
	}
	if err := doc.Close(); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind temp file: %w", err)
	}
	n, err := io.Copy(stdout, tmp)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("conversion complete", "pages", st.Pages, "rows", st.Rows, "bytes", n)
	return nil
}
