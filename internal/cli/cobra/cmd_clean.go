package cobra

import (
	"github.com/spf13/cobra"

	"partdoc/internal/commands"
	"partdoc/internal/fs"
)

func newCleanCmd() *cobra.Command {
	var all bool
	var force bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "clean [run]",
		Short: "Delete run folders",
		Long: `Delete run folders under the configured outputs directory.
Pass a run_id (or unique prefix) to delete one run, or --all --force to
delete every run. Only paths under the outputs directory are removed.

Arguments:
  run    run_id or unique run_id prefix`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := commands.CleanOpts{
				All:        all,
				Force:      force,
				ConfigPath: configPath,
			}
			if len(args) == 1 {
				opts.RunID = args[0]
			}
			return commands.Clean(fs.NewRealFS(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every run")
	cmd.Flags().BoolVar(&force, "force", false, "confirm non-interactive deletion (required with --all)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: configs/app.yaml)")

	return cmd
}
