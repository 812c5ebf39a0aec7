// Package testutil provides shared helpers for tests across packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// TempDict writes words to a plain-text dictionary file (one word per
// line) in a test-scoped temp directory and returns its path.
//
// The file is removed automatically via t.TempDir cleanup.
func TempDict(t *testing.T, words ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write dictionary fixture: %v", err)
	}
	return path
}

// TempGzipDict writes words to a gzip-compressed dictionary file and
// returns its path. Used to exercise the transparent ".gz" source path.
func TempGzipDict(t *testing.T, words ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.txt.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create gzip dictionary fixture: %v", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(strings.Join(words, "\n") + "\n")); err != nil {
		t.Fatalf("write gzip dictionary fixture: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close gzip dictionary fixture: %v", err)
	}
	return path
}
