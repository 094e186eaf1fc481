package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
	"partdoc/internal/llm"
	"partdoc/internal/pipeline"
)

// BatchOpts holds options for the batch command.
type BatchOpts struct {
	// InputsDir is the directory of input files to run (required).
	InputsDir string

	// ConfigPath overrides the default configs/app.yaml.
	ConfigPath string
}

// Batch runs the pipeline for every file in a directory, in sorted
// filename order. One failing input does not stop the rest; the command
// reports per-file results and returns the last fatal error, if any.
func Batch(ctx context.Context, fsys fs.FS, log *zap.Logger, opts BatchOpts, stdout io.Writer) error {
	cfg, err := loadConfig(fsys, opts.ConfigPath)
	if err != nil {
		return err
	}
	provider, err := llm.New(cfg)
	if err != nil {
		return err
	}

	entries, err := fsys.ReadDir(opts.InputsDir)
	if err != nil {
		return errors.WrapWithDetails(errors.EInputNotFound,
			"inputs directory not found", err,
			map[string]string{"input": opts.InputsDir})
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		inputs = append(inputs, filepath.Join(opts.InputsDir, entry.Name()))
	}
	sort.Strings(inputs)
	if len(inputs) == 0 {
		return errors.NewWithDetails(errors.EInputNotFound,
			"inputs directory has no files",
			map[string]string{"input": opts.InputsDir})
	}

	p := pipeline.New(fsys, cfg, provider, log, time.Now)

	var lastErr error
	failed := 0
	for _, inputPath := range inputs {
		res, err := p.Run(ctx, inputPath)
		if err != nil {
			failed++
			lastErr = err
			fmt.Fprintf(stdout, "%s: FAILED (%s)\n", inputPath, errors.GetCode(err))
			continue
		}
		fmt.Fprintf(stdout, "%s: %s (run %s)\n", inputPath, res.Status, res.RunID)
	}

	fmt.Fprintf(stdout, "batch complete: %d inputs, %d failed\n", len(inputs), failed)
	return lastErr
}
