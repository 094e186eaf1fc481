// Command partdoc is a local-first pipeline for generating part
// description documents from free-text or NX Open script requests.
package main

import (
	"os"

	"partdoc/internal/cli/cobra"
	"partdoc/internal/errors"
)

func main() {
	err := cobra.Execute(os.Stdout, os.Stderr)
	if err != nil {
		// Use verbose mode if --verbose global flag was set
		opts := errors.PrintOptions{
			Verbose: cobra.GetGlobalOpts().Verbose,
		}
		errors.PrintWithOptions(os.Stderr, err, opts)
		os.Exit(errors.ExitCode(err))
	}
}
