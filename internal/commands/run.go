// Package commands implements partdoc CLI commands.
// Commands take injected dependencies (filesystem, writers, logger) so
// they can be tested without the cobra layer.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"partdoc/internal/config"
	"partdoc/internal/fs"
	"partdoc/internal/llm"
	"partdoc/internal/pipeline"
	"partdoc/internal/store"
)

// RunOpts holds options for the run command.
type RunOpts struct {
	// Input is the input file path (required).
	Input string

	// Provider overrides llm.provider from the config/env.
	Provider string

	// Model overrides app.default_model from the config.
	Model string

	// JSON switches output to a stable machine-readable format.
	JSON bool

	// ConfigPath overrides the default configs/app.yaml.
	ConfigPath string
}

// runResult is the stable JSON shape for run --json output.
type runResult struct {
	RunID      string `json:"run_id"`
	RunDir     string `json:"run_dir"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	RetryUsed  bool   `json:"retry_used"`
	Validation struct {
		OK      bool     `json:"ok"`
		Missing []string `json:"missing"`
	} `json:"validation"`
	OutputPath string `json:"output_path"`
}

// Run executes one pipeline pass and prints the run folder contents.
// A failed validation outcome is not an error: the run persisted, the
// document just needs review.
func Run(ctx context.Context, fsys fs.FS, log *zap.Logger, opts RunOpts, stdout io.Writer) error {
	cfg, err := loadConfig(fsys, opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Provider != "" {
		cfg.LLM.Provider = opts.Provider
	}
	if opts.Model != "" {
		cfg.App.DefaultModel = opts.Model
	}
	provider, err := llm.New(cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(fsys, cfg, provider, log, time.Now)
	res, err := p.Run(ctx, opts.Input)
	if err != nil {
		return err
	}

	if opts.JSON {
		out := runResult{
			RunID:      res.RunID,
			RunDir:     res.RunDir,
			Status:     res.Status,
			Attempts:   res.Attempts,
			RetryUsed:  res.RetryUsed,
			OutputPath: res.OutputPath,
		}
		out.Validation.OK = res.Validation.OK
		out.Validation.Missing = res.Validation.Messages()
		if out.Validation.Missing == nil {
			out.Validation.Missing = []string{}
		}
		return writeJSON(stdout, out)
	}

	printResult(stdout, res)
	return nil
}

func printResult(w io.Writer, res pipeline.Result) {
	fmt.Fprintf(w, "run %s: %s (attempts=%d)\n", res.RunID, res.Status, res.Attempts)
	if !res.Validation.OK {
		for _, m := range res.Validation.Messages() {
			fmt.Fprintf(w, "  missing: %s\n", m)
		}
	}
	fmt.Fprintf(w, "wrote run artifacts to: %s\n", res.RunDir)
	fmt.Fprintf(w, "final document: %s\n", res.OutputPath)
}

// loadConfig resolves the config path and loads the workspace config.
func loadConfig(fsys fs.FS, path string) (config.Config, error) {
	if path == "" {
		path = config.DefaultPath
	}
	return config.Load(fsys, path)
}

// newStore builds the run store for a loaded config.
func newStore(fsys fs.FS, cfg config.Config) *store.Store {
	return store.NewStore(fsys, cfg.Paths.Outputs, time.Now)
}
