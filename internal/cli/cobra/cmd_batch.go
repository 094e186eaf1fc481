package cobra

import (
	"context"

	"github.com/spf13/cobra"

	"partdoc/internal/commands"
	"partdoc/internal/fs"
)

func newBatchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "batch <inputs-dir>",
		Short: "Run the pipeline over every input file in a directory",
		Long: `Run the pipeline over every input file in a directory.
Files are processed in sorted filename order, one run folder each.
A failing input does not stop the batch; failures are reported per file
and the command exits non-zero if any input failed.

Arguments:
  inputs-dir    directory containing request files`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			log := newLogger()
			defer func() { _ = log.Sync() }()

			opts := commands.BatchOpts{
				InputsDir:  args[0],
				ConfigPath: configPath,
			}

			return commands.Batch(context.Background(), fs.NewRealFS(), log, opts, stdout)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: configs/app.yaml)")

	return cmd
}
