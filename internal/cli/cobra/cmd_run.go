package cobra

import (
	"context"

	"github.com/spf13/cobra"

	"partdoc/internal/commands"
	"partdoc/internal/fs"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var provider string
	var model string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run <input-file>",
		Short: "Generate a part description document from one input file",
		Long: `Generate a part description document from one input file.
Accepts a free-text request (.txt, .md) or an NX Open export script (.py).
Persists all artifacts to a timestamped run folder under the configured
outputs directory. A run that fails validation still persists; check it
with 'partdoc show <run_id>'.

Arguments:
  input-file    path to the request file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			log := newLogger()
			defer func() { _ = log.Sync() }()

			opts := commands.RunOpts{
				Input:      args[0],
				Provider:   provider,
				Model:      model,
				JSON:       jsonOutput,
				ConfigPath: configPath,
			}

			return commands.Run(context.Background(), fs.NewRealFS(), log, opts, stdout)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: configs/app.yaml)")
	cmd.Flags().StringVar(&provider, "provider", "", "generation backend: stub, openai, or gemini (default: config/env)")
	cmd.Flags().StringVar(&model, "model", "", "model name for hosted providers (default: config app.default_model)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON (stable format)")

	return cmd
}
