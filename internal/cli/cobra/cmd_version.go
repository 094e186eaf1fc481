package cobra

import (
	"fmt"

	"github.com/spf13/cobra"

	"partdoc/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print partdoc version",
		Long:  "Print the partdoc version string.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "partdoc %s\n", version.FullVersion())
		},
	}

	return cmd
}
