package cobra

import (
	"github.com/spf13/cobra"

	"partdoc/internal/commands"
	"partdoc/internal/fs"
)

func newInitCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a partdoc workspace",
		Long: `Initialize a partdoc workspace in the current directory.
Creates the config file, the prompt template, a small working corpus,
and sample inputs. Refuses to run if configs/app.yaml already exists;
existing corpus or sample files are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := commands.InitOpts{Root: root}
			return commands.Init(fs.NewRealFS(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "workspace root to initialize (default: current directory)")

	return cmd
}
