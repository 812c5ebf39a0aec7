package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolvanHoften/generalsub/internal/cipher"
	"github.com/PolvanHoften/generalsub/internal/config"
	"github.com/PolvanHoften/generalsub/internal/dictionary"
	"github.com/PolvanHoften/generalsub/internal/engine"
)

// PatternsOptions holds flags for the patterns command.
type PatternsOptions struct {
	*RootOptions
	Dictionary     string
	FoldDiacritics bool
	Samples        int
}

// NewPatternsCommand creates the patterns command.
func NewPatternsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PatternsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "patterns <word>...",
		Short: "Show repetition signatures and dictionary buckets",
		Long: `Show the repetition signature of each word and the size of its
dictionary bucket.

Words sharing a signature are the candidate decodings the solver will try,
so a fat bucket means a weakly constraining puzzle word.

Example:
  generalsub patterns llama banana
  generalsub patterns --dict ./words.txt --samples 3 xyzzy`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatterns(opts, args, cmd)
		},
	}

	def := config.DefaultConfig()
	cmd.Flags().StringVarP(&opts.Dictionary, "dict", "d", def.Dictionary, "word list path (.gz accepted)")
	cmd.Flags().BoolVar(&opts.FoldDiacritics, "fold-diacritics", def.FoldDiacritics, "strip combining marks from dictionary words")
	cmd.Flags().IntVar(&opts.Samples, "samples", 5, "candidate examples shown per word")

	return cmd
}

// patternReport is one row of the patterns command.
type patternReport struct {
	Word       string   `json:"word"`
	Normalized string   `json:"normalized"`
	Signature  string   `json:"signature,omitempty"`
	Distinct   int      `json:"distinct,omitempty"`
	Candidates int      `json:"candidates"`
	Samples    []string `json:"samples,omitempty"`
}

func runPatterns(opts *PatternsOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "configuration", err)
	}
	if cmd.Flags().Changed("dict") {
		cfg.Dictionary = opts.Dictionary
	}
	if cmd.Flags().Changed("fold-diacritics") {
		cfg.FoldDiacritics = opts.FoldDiacritics
	}

	var buildOpts []dictionary.Option
	if cfg.FoldDiacritics {
		buildOpts = append(buildOpts, dictionary.WithFold())
	}
	idx, err := dictionary.BuildIndex(dictionary.FileSource(cfg.Dictionary), engine.NeededPatterns(args), buildOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeDictionary, err.Error(), nil)
		return WrapExitError(ExitCommandError, "index dictionary", err)
	}

	rows := make([]patternReport, 0, len(args))
	for _, word := range args {
		norm := cipher.Normalize(word)
		row := patternReport{Word: word, Normalized: norm}
		if norm != "" {
			p := cipher.PatternOf(norm)
			cands := idx.Candidates(p)
			row.Signature = p.String()
			row.Distinct = p.Distinct()
			row.Candidates = len(cands)
			row.Samples = cands[:min(opts.Samples, len(cands))]
		}
		rows = append(rows, row)
	}

	if formatter.Format == "json" {
		return formatter.Success(rows)
	}

	for _, row := range rows {
		if row.Normalized == "" {
			fmt.Fprintf(formatter.Writer, "%s: no letters\n", row.Word)
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s: %s (%d distinct), %d candidate(s)",
			row.Word, row.Signature, row.Distinct, row.Candidates)
		if len(row.Samples) > 0 {
			fmt.Fprintf(formatter.Writer, ": %s", strings.Join(row.Samples, " "))
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}
