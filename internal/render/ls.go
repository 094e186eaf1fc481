// Package render provides output formatting for partdoc commands.
package render

import (
	"fmt"
	"io"
)

// Constants for human output formatting.
const (
	// InputMaxLen is the maximum display length for input in human output.
	InputMaxLen = 50

	// InputBroken is displayed for broken runs.
	InputBroken = "<broken>"
)

// RunRow holds the fields for a single ls row.
type RunRow struct {
	RunID    string
	Input    string
	Provider string
	Status   string
	Attempts string
}

// WriteLSHuman writes the ls output as whitespace-aligned columns.
func WriteLSHuman(w io.Writer, rows []RunRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No runs found. Start one with: partdoc run <input-file>")
		return err
	}

	widths := columnWidths(rows)

	header := formatRow(
		"RUN_ID", widths.runID,
		"INPUT", widths.input,
		"PROVIDER", widths.provider,
		"STATUS", widths.status,
		"ATTEMPTS",
	)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for _, row := range rows {
		line := formatRow(
			row.RunID, widths.runID,
			row.Input, widths.input,
			row.Provider, widths.provider,
			row.Status, widths.status,
			row.Attempts,
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type colWidths struct {
	runID    int
	input    int
	provider int
	status   int
}

func columnWidths(rows []RunRow) colWidths {
	widths := colWidths{
		runID:    len("RUN_ID"),
		input:    len("INPUT"),
		provider: len("PROVIDER"),
		status:   len("STATUS"),
	}
	for _, row := range rows {
		if len(row.RunID) > widths.runID {
			widths.runID = len(row.RunID)
		}
		if len(row.Input) > widths.input {
			widths.input = len(row.Input)
		}
		if len(row.Provider) > widths.provider {
			widths.provider = len(row.Provider)
		}
		if len(row.Status) > widths.status {
			widths.status = len(row.Status)
		}
	}
	return widths
}

func formatRow(runID string, runIDW int, input string, inputW int, provider string, providerW int, status string, statusW int, attempts string) string {
	return fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s",
		runIDW, runID,
		inputW, input,
		providerW, provider,
		statusW, status,
		attempts,
	)
}

// TruncateInput shortens an input path for display, rune-aware.
func TruncateInput(input string) string {
	runes := []rune(input)
	if len(runes) <= InputMaxLen {
		return input
	}
	return string(runes[:InputMaxLen-1]) + "…"
}
