// Package events provides per-run event logging for partdoc.
// Events are stored in append-only JSONL files inside the run folder.
package events

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SchemaVersion identifies the events.jsonl format.
const SchemaVersion = "1"

// Pipeline step event names.
const (
	RunStarted       = "run_started"
	InputSnapshotted = "input_snapshotted"
	IRExtracted      = "ir_extracted"
	CorpusRetrieved  = "corpus_retrieved"
	PromptPacked     = "prompt_packed"
	GenerationDone   = "generation_done"
	ValidationDone   = "validation_done"
	RetryStarted     = "retry_started"
	RunFinished      = "run_finished"
)

// Event represents a single line in events.jsonl.
// This is the public contract for the events file format.
type Event struct {
	SchemaVersion string         `json:"schema_version"`
	Timestamp     string         `json:"timestamp"` // RFC3339
	RunID         string         `json:"run_id"`
	Event         string         `json:"event"`
	Data          map[string]any `json:"data,omitempty"`
}

// Append appends a single event to the events.jsonl file, creating it
// lazily. Each event is one compact JSON line.
//
// Best-effort: errors are returned but callers should typically ignore
// them and continue with the main operation.
func Append(path string, e Event) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.Write(data)
	return err
}

// GenerationData returns the data map for a generation_done event.
func GenerationData(provider, model string, attempt int, durationMs int64) map[string]any {
	return map[string]any{
		"provider":    provider,
		"model":       model,
		"attempt":     attempt,
		"duration_ms": durationMs,
	}
}

// ValidationData returns the data map for a validation_done event.
func ValidationData(ok bool, attempt int, missing []string) map[string]any {
	data := map[string]any{
		"ok":      ok,
		"attempt": attempt,
	}
	if len(missing) > 0 {
		data["missing"] = missing
	}
	return data
}

// FinishData returns the data map for a run_finished event.
// errorCode is empty on success or an E_* string.
func FinishData(status string, errorCode string, durationMs int64) map[string]any {
	data := map[string]any{
		"status":      status,
		"duration_ms": durationMs,
	}
	if errorCode != "" {
		data["error_code"] = errorCode
	}
	return data
}
