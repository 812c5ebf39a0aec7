package dictionary

import (
	"bufio"
	"fmt"

	"github.com/PolvanHoften/generalsub/internal/cipher"
)

// Index maps pattern signatures to candidate word lists. Only the patterns
// requested at build time are retained; every other dictionary line is
// discarded during the scan. An Index is read-only after build, which is
// what lets concurrent puzzle lines share one.
type Index struct {
	buckets map[cipher.Pattern][]string
	words   int // candidates retained across all buckets
	scanned int // dictionary entries examined to build the index
}

// Option configures an index build.
type Option func(*buildConfig)

type buildConfig struct {
	fold bool
}

// WithFold strips accents from dictionary words before normalizing, so an
// accented entry like "café" can serve a puzzle over plain ASCII. Folding
// must match between the dictionary and the puzzle side; the caller owns
// that choice.
func WithFold() Option {
	return func(c *buildConfig) { c.fold = true }
}

// BuildIndex scans src once and groups its words under the needed
// patterns. Each line is (optionally) folded, normalized, and classified;
// empty normalizations are skipped, dictionary order is preserved, and
// duplicates are dropped on first sight. Lines whose pattern is not needed
// are discarded immediately.
func BuildIndex(src Source, need []cipher.Pattern, opts ...Option) (*Index, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	wanted := make(map[cipher.Pattern]bool, len(need))
	for _, p := range need {
		if p != "" {
			wanted[p] = true
		}
	}

	idx := &Index{buckets: make(map[cipher.Pattern][]string, len(wanted))}

	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		idx.scanned++
		line := scanner.Text()
		if cfg.fold {
			line = cipher.Fold(line)
		}
		word := cipher.Normalize(line)
		if word == "" {
			continue
		}
		p := cipher.PatternOf(word)
		if !wanted[p] || seen[word] {
			continue
		}
		seen[word] = true
		idx.buckets[p] = append(idx.buckets[p], word)
		idx.words++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dictionary %s: %w", src.Name(), err)
	}

	return idx, nil
}

// Candidates returns the bucket for p in dictionary order, or nil when no
// word matched. The returned slice is shared; callers must not modify it.
func (x *Index) Candidates(p cipher.Pattern) []string {
	return x.buckets[p]
}

// Words returns the number of candidates retained across all buckets.
func (x *Index) Words() int { return x.words }

// Patterns returns the number of non-empty buckets.
func (x *Index) Patterns() int { return len(x.buckets) }

// Scanned returns how many dictionary entries were examined: file lines
// for a direct build, cached rows for a cache load.
func (x *Index) Scanned() int { return x.scanned }
