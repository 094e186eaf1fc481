package cobra

import (
	"github.com/spf13/cobra"

	"partdoc/internal/commands"
	"partdoc/internal/fs"
)

func newShowCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run>",
		Short: "Show details of a run",
		Long: `Show details for a single run: metadata, validation outcome,
and the persisted artifact list.

Arguments:
  run    run_id or unique run_id prefix`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := commands.ShowOpts{
				RunID:      args[0],
				JSON:       jsonOutput,
				ConfigPath: configPath,
			}
			return commands.Show(fs.NewRealFS(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: configs/app.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON (stable format)")

	return cmd
}
