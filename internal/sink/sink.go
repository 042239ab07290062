// Package sink writes assembled pages out as documents.
package sink

import (
	"errors"
	"time"

	"github.com/mzyy94/urfconv/internal/page"
)

// ErrNoPages is returned by Close when a document received no pages.
var ErrNoPages = errors.New("no pages to write")

// Document is a page.Sink that must be closed to produce its output.
type Document interface {
	page.Sink
	Close() error
}

// Metadata is copied into the document info where the format has one.
type Metadata struct {
	Title        string
	Author       string
	Creator      string
	CreationDate time.Time
}
