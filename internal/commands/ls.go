package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
	"partdoc/internal/render"
	"partdoc/internal/store"
)

// LsOpts holds options for the ls command.
type LsOpts struct {
	// JSON switches output to a stable machine-readable format.
	JSON bool

	// ConfigPath overrides the default configs/app.yaml.
	ConfigPath string
}

// lsEntry is the stable JSON shape for one run in ls --json output.
type lsEntry struct {
	RunID    string `json:"run_id"`
	Broken   bool   `json:"broken"`
	Input    string `json:"input,omitempty"`
	Provider string `json:"provider,omitempty"`
	Status   string `json:"status,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

// Ls lists all runs under the configured runs root, sorted by run id.
// Broken runs (missing or corrupt meta.json) are listed, not hidden.
func Ls(fsys fs.FS, opts LsOpts, stdout io.Writer) error {
	cfg, err := loadConfig(fsys, opts.ConfigPath)
	if err != nil {
		return err
	}

	records, err := newStore(fsys, cfg).ScanRuns()
	if err != nil {
		return err
	}

	if opts.JSON {
		entries := make([]lsEntry, 0, len(records))
		for _, rec := range records {
			entry := lsEntry{RunID: rec.RunID, Broken: rec.Broken}
			if !rec.Broken {
				entry.Input = rec.Meta.Input.Path
				entry.Provider = rec.Meta.Provider
				entry.Status = rec.Meta.Status
				entry.Attempts = rec.Meta.Attempts
			}
			entries = append(entries, entry)
		}
		return writeJSON(stdout, entries)
	}

	rows := make([]render.RunRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, lsRow(rec))
	}
	return render.WriteLSHuman(stdout, rows)
}

// writeJSON writes v as indented JSON with a trailing newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.EInternal, "encode json output", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func lsRow(rec store.RunRecord) render.RunRow {
	row := render.RunRow{RunID: rec.RunID}
	if rec.Broken {
		row.Input = render.InputBroken
		row.Status = render.InputBroken
		return row
	}
	row.Input = render.TruncateInput(rec.Meta.Input.Path)
	row.Provider = rec.Meta.Provider
	row.Status = rec.Meta.Status
	row.Attempts = fmt.Sprintf("%d", rec.Meta.Attempts)
	return row
}
