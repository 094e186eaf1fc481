// Show-specific rendering.
package render

import (
	"fmt"
	"io"
)

// ShowData holds the data for human show output.
type ShowData struct {
	RunID      string
	CreatedAt  string // RFC3339
	InputPath  string
	InputType  string
	Provider   string
	Model      string
	Status     string
	Attempts   int
	RetryUsed  bool
	Validation ValidationDisplay
	RunDir     string
	Artifacts  []string // filenames present in the run folder, sorted
}

// ValidationDisplay holds the final validation outcome for display.
type ValidationDisplay struct {
	OK      bool
	Missing []string
}

// WriteShowHuman writes the show output as aligned key/value lines.
func WriteShowHuman(w io.Writer, data ShowData) error {
	kv := func(key, value string) error {
		_, err := fmt.Fprintf(w, "%-12s %s\n", key+":", value)
		return err
	}

	if err := kv("run_id", data.RunID); err != nil {
		return err
	}
	if err := kv("created", data.CreatedAt); err != nil {
		return err
	}
	if err := kv("input", fmt.Sprintf("%s (%s)", data.InputPath, data.InputType)); err != nil {
		return err
	}
	if err := kv("provider", data.Provider); err != nil {
		return err
	}
	if err := kv("model", data.Model); err != nil {
		return err
	}
	if err := kv("status", data.Status); err != nil {
		return err
	}
	if err := kv("attempts", fmt.Sprintf("%d (retry_used=%v)", data.Attempts, data.RetryUsed)); err != nil {
		return err
	}

	validation := "pass"
	if !data.Validation.OK {
		validation = "fail"
	}
	if err := kv("validation", validation); err != nil {
		return err
	}
	for _, m := range data.Validation.Missing {
		if _, err := fmt.Fprintf(w, "  - %s\n", m); err != nil {
			return err
		}
	}

	if err := kv("run_dir", data.RunDir); err != nil {
		return err
	}
	if len(data.Artifacts) > 0 {
		if _, err := fmt.Fprintln(w, "artifacts:"); err != nil {
			return err
		}
		for _, a := range data.Artifacts {
			if _, err := fmt.Fprintf(w, "  - %s\n", a); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteShowBroken writes the minimal output for a broken run.
func WriteShowBroken(w io.Writer, runID, runDir string) error {
	if _, err := fmt.Fprintf(w, "%-12s %s\n", "run_id:", runID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-12s %s\n", "status:", InputBroken); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%-12s %s\n", "run_dir:", runDir)
	return err
}
