// Package cobra provides the Cobra-based CLI command tree for partdoc.
package cobra

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partdoc/internal/logging"
	"partdoc/internal/version"
)

// GlobalOpts holds global options parsed before subcommand dispatch.
type GlobalOpts struct {
	Verbose bool
}

// globalOpts stores the parsed global options for access by subcommands.
var globalOpts GlobalOpts

// GetGlobalOpts returns the parsed global options.
func GetGlobalOpts() GlobalOpts {
	return globalOpts
}

// newLogger builds the command logger honoring the --verbose flag.
// Falls back to a no-op logger if construction fails.
func newLogger() *zap.Logger {
	log, err := logging.New(globalOpts.Verbose)
	if err != nil {
		return logging.Nop()
	}
	return log
}

// NewRootCmd creates the root cobra command for partdoc.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "partdoc",
		Short: "Local-first pipeline for generating part description documents",
		Long: `partdoc - local-first pipeline for generating part description documents

Partdoc turns a free-text request or an NX Open export script into a
structured Markdown document. Each run snapshots the input, extracts
facts, retrieves a small grounding corpus, generates the document, and
validates it for required sections and fact coverage. Every artifact is
persisted to a timestamped run folder for later inspection.`,
		Version:       version.FullVersion(),
		SilenceErrors: true, // We handle error printing in main.go
		SilenceUsage:  true, // We handle usage printing manually
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Verbose, "verbose", false, "show detailed error context")

	// Disable Cobra's default completion command (we register our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add all subcommands
	rootCmd.AddCommand(
		newInitCmd(),
		newDoctorCmd(),
		newRunCmd(),
		newBatchCmd(),
		newLSCmd(),
		newShowCmd(),
		newCleanCmd(),
		newCompletionCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command with the given output writers.
// This is the main entry point from main.go.
func Execute(stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}
