package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/PolvanHoften/generalsub/internal/cipher"
	"github.com/PolvanHoften/generalsub/internal/config"
	"github.com/PolvanHoften/generalsub/internal/dictionary"
	"github.com/PolvanHoften/generalsub/internal/engine"
	"github.com/PolvanHoften/generalsub/internal/render"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Dictionary     string
	Placeholder    string
	MaxNodes       int
	FoldDiacritics bool
	IndexCache     string
	Input          string
	Parallel       int
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve [text]",
		Short: "Decode substitution ciphertext against the dictionary",
		Long: `Decode monoalphabetic substitution ciphertext.

The solver indexes the dictionary by repetition signature, walks every
candidate decoding of the puzzle, and substitutes the letters all surviving
keys agree on. Ambiguous letters render as the placeholder; letters the
dictionary says nothing about stay as they were.

With --input, each non-empty line of the file is an independent puzzle;
lines starting with '#' are skipped and up to --parallel puzzles run
concurrently over one shared index.

Example:
  generalsub solve "ysbbk fkpbr"
  generalsub solve --dict ./words.txt.gz --placeholder '?' "xdg"
  generalsub solve --input puzzles.txt --parallel 8 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args, cmd)
		},
	}

	def := config.DefaultConfig()
	cmd.Flags().StringVarP(&opts.Dictionary, "dict", "d", def.Dictionary, "word list path (.gz accepted)")
	cmd.Flags().StringVar(&opts.Placeholder, "placeholder", def.Placeholder, "character shown for ambiguous letters")
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", def.MaxNodes, "cap on admitted search nodes, 0 = unlimited")
	cmd.Flags().BoolVar(&opts.FoldDiacritics, "fold-diacritics", def.FoldDiacritics, "strip combining marks from dictionary words")
	cmd.Flags().StringVar(&opts.IndexCache, "index-cache", def.IndexCache, "SQLite signature cache path (empty = no cache)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "file of puzzles, one per line ('-' = stdin)")
	cmd.Flags().IntVarP(&opts.Parallel, "parallel", "p", def.Parallel, "worker count for --input batches")

	return cmd
}

// effectiveConfig layers explicitly-set flags over the loaded configuration.
// Flags the user did not touch defer to file and environment values.
func (o *SolveOptions) effectiveConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	if flags.Changed("dict") {
		cfg.Dictionary = o.Dictionary
	}
	if flags.Changed("placeholder") {
		cfg.Placeholder = o.Placeholder
	}
	if flags.Changed("max-nodes") {
		cfg.MaxNodes = o.MaxNodes
	}
	if flags.Changed("fold-diacritics") {
		cfg.FoldDiacritics = o.FoldDiacritics
	}
	if flags.Changed("index-cache") {
		cfg.IndexCache = o.IndexCache
	}
	if flags.Changed("parallel") {
		cfg.Parallel = o.Parallel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSolve(opts *SolveOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := opts.effectiveConfig(cmd.Flags())
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "configuration", err)
	}

	puzzles, err := collectPuzzles(opts, args, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read input", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	idx, err := openIndex(ctx, cfg, puzzles)
	if err != nil {
		_ = formatter.Error(ErrCodeDictionary, err.Error(), nil)
		return WrapExitError(ExitCommandError, "index dictionary", err)
	}
	slog.Info("dictionary indexed",
		"dict", cfg.Dictionary,
		"words", idx.Words(),
		"patterns", idx.Patterns(),
		"scanned", idx.Scanned())

	solver := engine.New(idx, engine.WithMaxNodes(cfg.MaxNodes))

	reports := make([]solveReport, len(puzzles))
	if len(puzzles) == 1 {
		// Single puzzles stay on the caller goroutine.
		res, err := solver.Solve(ctx, strings.Fields(puzzles[0]))
		if err != nil {
			return WrapExitError(ExitFailure, "solve", err)
		}
		reports[0] = buildReport(puzzles[0], res, cfg.PlaceholderRune())
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Parallel)
		for i, line := range puzzles {
			g.Go(func() error {
				res, err := solver.Solve(gctx, strings.Fields(line))
				if err != nil {
					return err
				}
				reports[i] = buildReport(line, res, cfg.PlaceholderRune())
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return WrapExitError(ExitFailure, "solve", err)
		}
	}

	if err := outputSolve(formatter, reports); err != nil {
		return err
	}

	for _, rep := range reports {
		if rep.Stats.Certain+rep.Stats.Ambiguous > 0 {
			return nil
		}
	}
	return NewExitError(ExitFailure, "no ciphertext letter resolved")
}

// collectPuzzles returns the puzzle lines for this invocation: the single
// positional argument, or the non-empty, non-comment lines of --input.
func collectPuzzles(opts *SolveOptions, args []string, stdin io.Reader) ([]string, error) {
	if opts.Input == "" {
		if len(args) == 0 {
			return nil, fmt.Errorf("no puzzle given: pass TEXT or --input")
		}
		return []string{args[0]}, nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("pass TEXT or --input, not both")
	}

	var r io.Reader
	if opts.Input == "-" {
		r = stdin
	} else {
		f, err := os.Open(opts.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var puzzles []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		puzzles = append(puzzles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(puzzles) == 0 {
		return nil, fmt.Errorf("no puzzles in %s", opts.Input)
	}
	return puzzles, nil
}

// openIndex builds the signature index covering every puzzle line, through
// the SQLite cache when one is configured.
func openIndex(ctx context.Context, cfg *config.Config, puzzles []string) (*dictionary.Index, error) {
	var tokens []string
	for _, line := range puzzles {
		tokens = append(tokens, strings.Fields(line)...)
	}
	need := engine.NeededPatterns(tokens)

	if cfg.IndexCache == "" {
		var buildOpts []dictionary.Option
		if cfg.FoldDiacritics {
			buildOpts = append(buildOpts, dictionary.WithFold())
		}
		return dictionary.BuildIndex(dictionary.FileSource(cfg.Dictionary), need, buildOpts...)
	}

	cache, err := dictionary.OpenCache(cfg.IndexCache)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cache.Close(); cerr != nil {
			slog.Error("error closing signature cache", "error", cerr)
		}
	}()

	rebuilt, err := cache.Ensure(ctx, dictionary.FileSource(cfg.Dictionary), cfg.FoldDiacritics)
	if err != nil {
		return nil, err
	}
	slog.Debug("signature cache ready", "path", cfg.IndexCache, "rebuilt", rebuilt)
	return cache.Index(ctx, need)
}

// solveReport is the per-puzzle payload shared by both output formats.
type solveReport struct {
	Input    string         `json:"input"`
	Rendered string         `json:"rendered"`
	Letters  []letterReport `json:"letters"`
	Stats    solveStats     `json:"stats"`

	runToken string
}

// letterReport describes one ciphertext letter occurring in the puzzle.
type letterReport struct {
	Cipher    string `json:"cipher"`
	Verdict   string `json:"verdict"`
	Plain     string `json:"plain,omitempty"`
	Proposals string `json:"proposals,omitempty"`
}

// solveStats carries the run counters surfaced to scripts.
type solveStats struct {
	Words     int  `json:"words"`
	Mappings  int  `json:"mappings"`
	Nodes     int  `json:"nodes"`
	Truncated bool `json:"truncated"`
	Certain   int  `json:"certain"`
	Ambiguous int  `json:"ambiguous"`
	Unknown   int  `json:"unknown"`
}

func buildReport(line string, res *engine.Result, placeholder rune) solveReport {
	letters := letterReports(line, res.Table)

	var certain, ambiguous, unknown int
	for _, lr := range letters {
		switch lr.Verdict {
		case cipher.Certain.String():
			certain++
		case cipher.Ambiguous.String():
			ambiguous++
		default:
			unknown++
		}
	}

	return solveReport{
		Input:    line,
		Rendered: render.Apply(line, res.Table, placeholder),
		Letters:  letters,
		Stats: solveStats{
			Words:     len(res.Words),
			Mappings:  res.Mappings,
			Nodes:     res.Nodes,
			Truncated: res.Truncated,
			Certain:   certain,
			Ambiguous: ambiguous,
			Unknown:   unknown,
		},
		runToken: res.RunToken,
	}
}

// letterReports lists the distinct ciphertext letters of the puzzle in
// alphabetical order with their resolution.
func letterReports(line string, table cipher.Table) []letterReport {
	var present [26]bool
	for _, tok := range strings.Fields(line) {
		for _, c := range []byte(cipher.Normalize(tok)) {
			present[c-'a'] = true
		}
	}

	var out []letterReport
	for i := 0; i < 26; i++ {
		if !present[i] {
			continue
		}
		c := byte('a' + i)
		res := table.Lookup(c)
		lr := letterReport{Cipher: string(c), Verdict: res.Verdict.String()}
		switch res.Verdict {
		case cipher.Certain:
			lr.Plain = string(res.Plain)
		case cipher.Ambiguous:
			lr.Proposals = res.Proposals
		}
		out = append(out, lr)
	}
	return out
}

// outputSolve emits one line (text) or one envelope (json) per puzzle, in
// input order.
func outputSolve(formatter *OutputFormatter, reports []solveReport) error {
	for _, rep := range reports {
		if formatter.Format == "json" {
			resp := CLIResponse{
				Status:  "ok",
				Data:    rep,
				TraceID: rep.runToken,
			}
			if rep.Stats.Certain+rep.Stats.Ambiguous == 0 {
				resp.Status = "error"
				resp.Error = &CLIError{
					Code:    ErrCodeUnsolved,
					Message: "no ciphertext letter resolved",
				}
			}
			if err := formatter.Respond(resp); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintln(formatter.Writer, rep.Rendered)
		if formatter.Verbose {
			for _, lr := range rep.Letters {
				switch lr.Verdict {
				case cipher.Certain.String():
					fmt.Fprintf(formatter.Writer, "  %s → %s\n", lr.Cipher, lr.Plain)
				case cipher.Ambiguous.String():
					fmt.Fprintf(formatter.Writer, "  %s ~ {%s}\n", lr.Cipher, lr.Proposals)
				default:
					fmt.Fprintf(formatter.Writer, "  %s ?\n", lr.Cipher)
				}
			}
		}
	}
	return nil
}
