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
	"strings"
	"syscall"

	"github.com/mzyy94/urfconv/internal/config"
	"github.com/mzyy94/urfconv/internal/convert"
	"github.com/mzyy94/urfconv/internal/job"
	"github.com/mzyy94/urfconv/internal/urf"
)

func main() {
	settings := config.FromEnv()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: settings.Level()})))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, settings, os.Args[1:]); err != nil {
		if errors.Is(err, job.ErrUsage) || errors.Is(err, urf.ErrUnsupportedDestination) {
			fmt.Fprintf(os.Stderr, "Usage: %s %s\n", filepath.Base(os.Args[0]), job.RecodeUsage)
			fmt.Fprintf(os.Stderr, "Targets: %s\n", targets())
		}
		slog.Error("recode failed", "err", err)
		cancel()
		os.Exit(1)
	}
}

// targets lists the supported destinations as "<colorspace> <bpp>" pairs.
func targets() string {
	var names []string
	for _, f := range urf.DestinationFormats() {
		names = append(names, fmt.Sprintf("%s %d", f.ColorSpace, f.BitsPerPixel))
	}
	return strings.Join(names, ", ")
}

func run(ctx context.Context, s config.Settings, args []string) error {
	j, err := job.ParseRecodeArgs(args)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if j.Src != "" && j.Src != job.Stdio {
		f, err := os.Open(j.Src)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	opts := convert.Options{DrainLiterals: s.DrainLiterals}

	if j.Dest == "" || j.Dest == job.Stdio {
		st, err := convert.Recode(ctx, in, os.Stdout, j.Target, opts)
		if err != nil {
			return err
		}
		slog.Info("recode complete", "pages", st.Pages, "rows", st.Rows)
		return nil
	}

	// Rename into place only once the stream is complete.
	tmp, err := os.CreateTemp(filepath.Dir(j.Dest), filepath.Base(j.Dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	st, err := convert.Recode(ctx, in, tmp, j.Target, opts)
	if err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.Dest); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	slog.Info("recode complete", "pages", st.Pages, "rows", st.Rows, "path", j.Dest)
	return nil
}
