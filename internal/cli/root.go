package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the generalsub CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "generalsub",
		Short: "generalsub - dictionary attack on substitution ciphers",
		Long: `Decode monoalphabetic substitution ciphers with a dictionary.

Each ciphertext word constrains the hidden key through its repetition
signature. generalsub walks every candidate decoding consistent with the
dictionary and substitutes the letters all survivors agree on.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/generalsub/config.yaml)")

	// Add subcommands
	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewEncryptCommand(opts))
	cmd.AddCommand(NewPatternsCommand(opts))

	return cmd
}

// configureLogging installs the process-wide slog handler: text on stderr,
// debug level when --verbose. Stdout stays reserved for command output.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
