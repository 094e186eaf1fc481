package commands

import (
	"fmt"
	"io"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

// CleanOpts holds options for the clean command.
type CleanOpts struct {
	// RunID is the run identifier or unique prefix to delete.
	RunID string

	// All deletes every run; requires Force.
	All bool

	// Force skips the non-interactive safety check for All.
	Force bool

	// ConfigPath overrides the default configs/app.yaml.
	ConfigPath string
}

// Clean deletes run folders. Deletion is guarded: only paths under the
// configured runs root are ever removed.
func Clean(fsys fs.FS, opts CleanOpts, stdout io.Writer) error {
	if opts.RunID == "" && !opts.All {
		return errors.New(errors.EUsage, "run_id or --all is required")
	}
	if opts.RunID != "" && opts.All {
		return errors.New(errors.EUsage, "run_id and --all are mutually exclusive")
	}
	if opts.All && !opts.Force {
		return errors.New(errors.EUsage, "--all requires --force")
	}

	cfg, err := loadConfig(fsys, opts.ConfigPath)
	if err != nil {
		return err
	}
	st := newStore(fsys, cfg)

	records, err := st.ScanRuns()
	if err != nil {
		return err
	}

	if opts.All {
		for _, rec := range records {
			if err := fs.SafeRemoveAll(rec.RunDir, cfg.Paths.Outputs); err != nil {
				return errors.WrapWithDetails(errors.EPersistFailed,
					"delete run directory", err,
					map[string]string{"run_id": rec.RunID, "path": rec.RunDir})
			}
			fmt.Fprintf(stdout, "deleted %s\n", rec.RunID)
		}
		fmt.Fprintf(stdout, "deleted %d runs\n", len(records))
		return nil
	}

	rec, err := resolveRun(opts.RunID, records)
	if err != nil {
		return err
	}
	if err := fs.SafeRemoveAll(rec.RunDir, cfg.Paths.Outputs); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed,
			"delete run directory", err,
			map[string]string{"run_id": rec.RunID, "path": rec.RunDir})
	}
	fmt.Fprintf(stdout, "deleted %s\n", rec.RunID)
	return nil
}
