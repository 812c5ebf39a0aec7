package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PolvanHoften/generalsub/internal/cipher"
	"github.com/PolvanHoften/generalsub/internal/dictionary"
	"github.com/PolvanHoften/generalsub/internal/engine"
	"github.com/PolvanHoften/generalsub/internal/render"
)

// Run executes a scenario and returns the evaluated result.
//
// Each scenario runs against a fresh index built from its inline
// dictionary, scoped to the puzzle's patterns. The solver executes with
// a fixed run token and a discarded logger, so a scenario produces the
// same result on every run.
func Run(scenario *Scenario) (*Result, error) {
	tokens := strings.Fields(scenario.Puzzle)

	var opts []dictionary.Option
	if scenario.Fold {
		opts = append(opts, dictionary.WithFold())
	}
	idx, err := dictionary.BuildIndex(dictionary.Words(scenario.Dictionary), engine.NeededPatterns(tokens), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	runToken := scenario.RunToken
	if runToken == "" {
		runToken = DefaultRunToken
	}

	solver := engine.New(idx,
		engine.WithMaxNodes(scenario.MaxNodes),
		engine.WithTokenGenerator(engine.NewFixedGenerator(runToken)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)

	res, err := solver.Solve(context.Background(), tokens)
	if err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}

	placeholder := render.DefaultPlaceholder
	if scenario.Placeholder != "" {
		placeholder, _ = utf8.DecodeRuneInString(scenario.Placeholder)
	}

	result := &Result{
		Pass:         true,
		ScenarioName: scenario.Name,
		RunToken:     res.RunToken,
		Rendered:     render.Apply(scenario.Puzzle, res.Table, placeholder),
		Letters:      letterLines(scenario.Puzzle, res.Table),
		Stats: RunStats{
			Words:     len(res.Words),
			Mappings:  res.Mappings,
			Nodes:     res.Nodes,
			Truncated: res.Truncated,
		},
		Table: res.Table,
	}

	for _, msg := range EvaluateExpect(result, &scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

// letterLines lists the distinct ciphertext letters of the puzzle in
// alphabetical order with their resolution.
func letterLines(puzzle string, table cipher.Table) []LetterLine {
	var present [26]bool
	for _, tok := range strings.Fields(puzzle) {
		for _, c := range []byte(cipher.Normalize(tok)) {
			present[c-'a'] = true
		}
	}

	var lines []LetterLine
	for i := 0; i < 26; i++ {
		if !present[i] {
			continue
		}
		c := byte('a' + i)
		res := table.Lookup(c)
		line := LetterLine{Cipher: string(c), Verdict: res.Verdict.String()}
		switch res.Verdict {
		case cipher.Certain:
			line.Plain = string(res.Plain)
		case cipher.Ambiguous:
			line.Proposals = res.Proposals
		}
		lines = append(lines, line)
	}
	return lines
}
