package commands

import (
	stderrors "errors"
	"io"
	"sort"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
	"partdoc/internal/ids"
	"partdoc/internal/render"
	"partdoc/internal/store"
)

// ShowOpts holds options for the show command.
type ShowOpts struct {
	// RunID is the run identifier or unique prefix (required).
	RunID string

	// JSON switches output to a stable machine-readable format.
	JSON bool

	// ConfigPath overrides the default configs/app.yaml.
	ConfigPath string
}

// showJSON is the stable JSON shape for show --json output.
type showJSON struct {
	RunID     string         `json:"run_id"`
	Broken    bool           `json:"broken"`
	RunDir    string         `json:"run_dir"`
	Meta      *store.RunMeta `json:"meta,omitempty"`
	Artifacts []string       `json:"artifacts,omitempty"`
}

// Show prints one run's metadata, validation outcome, and artifact list.
// Run ids resolve by exact match first, then unique prefix.
func Show(fsys fs.FS, opts ShowOpts, stdout io.Writer) error {
	if opts.RunID == "" {
		return errors.New(errors.EUsage, "run_id is required")
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

	rec, err := resolveRun(opts.RunID, records)
	if err != nil {
		return err
	}

	if rec.Broken {
		if opts.JSON {
			return writeJSON(stdout, showJSON{RunID: rec.RunID, Broken: true, RunDir: rec.RunDir})
		}
		return render.WriteShowBroken(stdout, rec.RunID, rec.RunDir)
	}
	meta := rec.Meta

	var artifacts []string
	if entries, err := fsys.ReadDir(rec.RunDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				artifacts = append(artifacts, e.Name())
			}
		}
		sort.Strings(artifacts)
	}

	if opts.JSON {
		return writeJSON(stdout, showJSON{
			RunID:     rec.RunID,
			RunDir:    rec.RunDir,
			Meta:      meta,
			Artifacts: artifacts,
		})
	}

	return render.WriteShowHuman(stdout, render.ShowData{
		RunID:     meta.RunID,
		CreatedAt: meta.CreatedAt,
		InputPath: meta.Input.Path,
		InputType: meta.Input.Type,
		Provider:  meta.Provider,
		Model:     meta.Model,
		Status:    meta.Status,
		Attempts:  meta.Attempts,
		RetryUsed: meta.RetryUsed,
		Validation: render.ValidationDisplay{
			OK:      meta.Validation.OK,
			Missing: meta.Validation.Missing,
		},
		RunDir:    rec.RunDir,
		Artifacts: artifacts,
	})
}

// resolveRun maps an id or prefix to a scanned record, translating
// resolver errors to the stable command error codes.
func resolveRun(input string, records []store.RunRecord) (store.RunRecord, error) {
	refs := make([]ids.RunRef, 0, len(records))
	byID := make(map[string]store.RunRecord, len(records))
	for _, rec := range records {
		ref := ids.RunRef{RunID: rec.RunID, Broken: rec.Broken}
		if rec.Meta != nil {
			ref.Input = rec.Meta.Input.Path
		}
		refs = append(refs, ref)
		byID[rec.RunID] = rec
	}

	ref, err := ids.ResolveRunRef(input, refs)
	if err != nil {
		var ambiguous *ids.ErrAmbiguous
		if stderrors.As(err, &ambiguous) {
			candidates := make([]string, len(ambiguous.Candidates))
			for i, c := range ambiguous.Candidates {
				candidates[i] = c.RunID
			}
			return store.RunRecord{}, errors.NewWithDetails(errors.ERunIDAmbiguous,
				"run id prefix is ambiguous: "+input,
				map[string]string{"run_id": input, "candidates": joinMax(candidates, 5)})
		}
		return store.RunRecord{}, errors.NewWithDetails(errors.ERunNotFound,
			"run not found: "+input,
			map[string]string{"run_id": input})
	}
	return byID[ref.RunID], nil
}

func joinMax(items []string, max int) string {
	if len(items) > max {
		items = items[:max]
	}
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
