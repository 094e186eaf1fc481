package cobra

import (
	"github.com/spf13/cobra"

	"partdoc/internal/commands"
	"partdoc/internal/fs"
)

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check workspace health",
		Long: `Check workspace health: config loads, the prompt template exists,
every corpus category has at least one file, and the selected provider
has its credential. Prints one line per check and exits non-zero on the
first hard failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := commands.DoctorOpts{ConfigPath: configPath}
			return commands.Doctor(fs.NewRealFS(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: configs/app.yaml)")

	return cmd
}
