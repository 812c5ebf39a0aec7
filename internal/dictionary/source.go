package dictionary

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Source supplies dictionary lines. Open returns a fresh reader positioned
// at the first line; a Source must be reopenable, because index builds and
// cache refreshes each scan the words from the top.
type Source interface {
	// Open returns a reader over the raw dictionary bytes.
	Open() (io.ReadCloser, error)
	// Name identifies the source in logs and error messages.
	Name() string
}

// FileSource reads a word list from disk, one word per line. Files ending
// in ".gz" are decompressed transparently.
type FileSource string

// Name returns the file path.
func (f FileSource) Name() string { return string(f) }

// Open opens the file, wrapping it in a gzip reader when the path has a
// ".gz" suffix.
func (f FileSource) Open() (io.ReadCloser, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	if !strings.HasSuffix(string(f), ".gz") {
		return file, nil
	}
	zr, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("open gzip dictionary %s: %w", f.Name(), err)
	}
	return &gzipReadCloser{zr: zr, file: file}, nil
}

// gzipReadCloser closes both the decompressor and the underlying file.
type gzipReadCloser struct {
	zr   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gzipReadCloser) Close() error {
	zerr := g.zr.Close()
	ferr := g.file.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// Words is an in-memory Source for tests and harness scenarios.
type Words []string

// Name identifies inline word lists in logs.
func (w Words) Name() string { return "inline" }

// Open returns a reader over the words joined with newlines.
func (w Words) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(strings.Join(w, "\n"))), nil
}
