package cobra

import (
	"github.com/spf13/cobra"

	"partdoc/internal/commands"
	"partdoc/internal/fs"
)

func newLSCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List runs",
		Long: `List all runs under the configured outputs directory.
Runs with an unreadable meta.json are listed as broken rather than
hidden, so a crashed run stays discoverable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := commands.LsOpts{JSON: jsonOutput, ConfigPath: configPath}
			return commands.Ls(fs.NewRealFS(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: configs/app.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON (stable format)")

	return cmd
}
