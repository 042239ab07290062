// Package job parses the command lines of the two filters.
package job

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mzyy94/urfconv/internal/urf"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage")

// Stdio is the file argument that selects standard input or output.
const Stdio = "-"

// FilterUsage and RecodeUsage are printed on ErrUsage.
const (
	FilterUsage = "<job> <user> <job name> <copies> <options> [file]"
	RecodeUsage = "<dest colorspace> <dest bpp> [src] [dest]"
)

// Job holds the print queue arguments passed to a filter. They are kept
// as given; only Title, User and File affect the output.
type Job struct {
	ID      string
	User    string
	Title   string
	Copies  string
	Options string
	File    string // "" or Stdio means standard input
}

// Stdin reports whether the job reads standard input.
func (j *Job) Stdin() bool { return j.File == "" || j.File == Stdio }

// ParseFilterArgs parses args (without the program name) in the
// job user title copies options [file] convention. Arguments past the
// file are ignored.
func ParseFilterArgs(args []string) (*Job, error) {
	if len(args) < 5 {
		return nil, fmt.Errorf("%w: expected at least 5 arguments, got %d", ErrUsage, len(args))
	}
	j := &Job{
		ID:      args[0],
		User:    args[1],
		Title:   args[2],
		Copies:  args[3],
		Options: args[4],
	}
	if len(args) > 5 {
		j.File = args[5]
	}
	return j, nil
}

// RecodeJob holds the arguments of the recoder.
type RecodeJob struct {
	Target urf.PixelFormat
	Src    string // "" or Stdio means standard input
	Dest   string // "" or Stdio means standard output
}

// ParseRecodeArgs parses args (without the program name) in the
// <dest colorspace> <dest bpp> [src] [dest] convention. Whether the
// target can actually be produced is checked by urf.NewRecoder.
func ParseRecodeArgs(args []string) (*RecodeJob, error) {
	if len(args) < 2 || len(args) > 4 {
		return nil, fmt.Errorf("%w: expected 2 to 4 arguments, got %d", ErrUsage, len(args))
	}
	cs, err := urf.ParseColorSpace(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	bpp, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bpp %q", ErrUsage, args[1])
	}
	j := &RecodeJob{Target: urf.PixelFormat{BitsPerPixel: uint8(bpp), ColorSpace: cs}}
	if len(args) > 2 {
		j.Src = args[2]
	}
	if len(args) > 3 {
		j.Dest = args[3]
	}
	return j, nil
}
