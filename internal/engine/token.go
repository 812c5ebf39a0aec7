package engine

import (
	"sync"

	"github.com/google/uuid"
)

// RunTokenGenerator generates correlation tokens for solve runs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
//
// The token ties together a run's log lines and surfaces as the trace id
// in JSON output; it never influences the search itself.
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so tokens sort
// by creation time - convenient when correlating batch runs in logs.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run tokens for testing. Golden
// output comparison needs stable tokens, so tests provide the sequence up
// front and the generator fails fast when it runs dry.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
//
// Example:
//
//	gen := NewFixedGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // panic: all tokens exhausted
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
//
// Panics when all tokens have been consumed: a test asking for more runs
// than it configured is misconfigured, and failing fast points straight
// at it.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
