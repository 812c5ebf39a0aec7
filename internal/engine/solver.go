package engine

import (
	"context"
	"log/slog"
	"slices"

	"github.com/PolvanHoften/generalsub/internal/cipher"
	"github.com/PolvanHoften/generalsub/internal/dictionary"
)

// CipherWord is one distinct normalized ciphertext word bound to its
// pattern and candidate bucket. Candidates may be empty: the word then
// participates as a pass-through stage.
type CipherWord struct {
	Word       string
	Pattern    cipher.Pattern
	Candidates []string
}

// Solver runs constraint-propagation searches over one candidate index.
//
// A Solver holds no per-run state: each Solve builds a fresh chain,
// aggregator, and budget. One Solver may therefore serve many puzzles,
// including concurrently - the shared index is read-only.
type Solver struct {
	index    *dictionary.Index
	maxNodes int
	tokens   RunTokenGenerator
	log      *slog.Logger
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithMaxNodes caps the number of mappings forwarded per solve. Zero or
// negative means unlimited (the default). Exhausting the budget truncates
// the traversal but still finalizes: the result is partial, not an error.
func WithMaxNodes(n int) SolverOption {
	return func(s *Solver) {
		s.maxNodes = n
	}
}

// WithTokenGenerator overrides run-token generation. Tests and the
// harness install a FixedGenerator so golden output stays stable.
func WithTokenGenerator(gen RunTokenGenerator) SolverOption {
	return func(s *Solver) {
		s.tokens = gen
	}
}

// WithLogger routes solver logs; defaults to slog.Default().
func WithLogger(l *slog.Logger) SolverOption {
	return func(s *Solver) {
		s.log = l
	}
}

// New creates a Solver over a built index.
func New(index *dictionary.Index, opts ...SolverOption) *Solver {
	s := &Solver{
		index:  index,
		tokens: UUIDv7Generator{},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of one solve.
type Result struct {
	RunToken  string        // correlation token; the CLI's trace id
	Table     cipher.Table  // per-letter resolution
	Words     []*CipherWord // distinct words, descending candidate count (chain entry last)
	Mappings  int           // surviving decompositions observed
	Nodes     int           // mappings forwarded through the chain
	Truncated bool          // budget refused at least one forward
}

// Solve walks the decomposition tree for the given tokens and returns the
// finalized resolution table.
//
// Tokens arrive as the caller split them; Solve normalizes each, drops
// the empties, deduplicates repeats (a duplicate stage is an identity
// filter, so one stage per distinct word suffices), and binds each word
// to its candidate bucket. The traversal is synchronous; the only error
// is ctx.Err() when the context is cancelled mid-walk.
func (s *Solver) Solve(ctx context.Context, tokens []string) (*Result, error) {
	run := s.tokens.Generate()

	words := s.cipherWords(tokens)
	agg := NewAggregator()
	budget := NewNodeBudget(s.maxNodes)
	chain := buildChain(words, agg, budget)

	s.log.Debug("chain built",
		"run", run,
		"stages", len(words),
		"max_nodes", s.maxNodes,
	)

	if err := chain.Receive(ctx, cipher.Mapping{}); err != nil {
		return nil, err
	}

	table := agg.Finalize()

	certain, ambiguous, unknown := table.Counts()
	s.log.Info("solve finished",
		"run", run,
		"stages", len(words),
		"mappings", agg.Mappings(),
		"nodes", budget.Used(),
		"truncated", budget.Exhausted(),
		"certain", certain,
		"ambiguous", ambiguous,
		"unknown", unknown,
	)

	return &Result{
		RunToken:  run,
		Table:     table,
		Words:     words,
		Mappings:  agg.Mappings(),
		Nodes:     budget.Used(),
		Truncated: budget.Exhausted(),
	}, nil
}

// cipherWords normalizes, deduplicates, and classifies tokens, binds each
// distinct word to its bucket, and sorts for chain building: descending
// candidate count with first-appearance order as the stable tiebreak.
func (s *Solver) cipherWords(tokens []string) []*CipherWord {
	seen := make(map[string]bool, len(tokens))
	var words []*CipherWord
	for _, tok := range tokens {
		w := cipher.Normalize(tok)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		p := cipher.PatternOf(w)
		words = append(words, &CipherWord{
			Word:       w,
			Pattern:    p,
			Candidates: s.index.Candidates(p),
		})
	}

	slices.SortStableFunc(words, func(a, b *CipherWord) int {
		return len(b.Candidates) - len(a.Candidates)
	})
	return words
}

// NeededPatterns returns the distinct patterns of the tokens' normalized
// words, in first-appearance order. Callers use it to scope the index
// build (or cache load) to the puzzle before constructing a Solver.
func NeededPatterns(tokens []string) []cipher.Pattern {
	seen := make(map[cipher.Pattern]bool)
	var need []cipher.Pattern
	for _, tok := range tokens {
		w := cipher.Normalize(tok)
		if w == "" {
			continue
		}
		p := cipher.PatternOf(w)
		if seen[p] {
			continue
		}
		seen[p] = true
		need = append(need, p)
	}
	return need
}
