// Package store provides persistence for run folders and their meta.json
// records. Files are written atomically via temp file + rename.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

// MetaSchemaVersion identifies the meta.json format.
const MetaSchemaVersion = "1"

// Run statuses recorded in meta.json.
const (
	StatusValidated        = "validated"
	StatusValidationFailed = "validation_failed"
	StatusFailed           = "failed"
)

// Artifact filenames inside a run folder.
const (
	FileIR          = "ir.json"
	FileIRSummary   = "ir_summary.txt"
	FileRetrieved   = "retrieved.json"
	FilePrompt      = "prompt.txt"
	FileRetryPrompt = "prompt_retry_1.txt"
	FileGeneration  = "generation.json"
	FileOutput      = "output.md"
	FileOutputHTML  = "output.html"
	FileEvents      = "events.jsonl"
	FileMeta        = "meta.json"
)

// Store handles persistence of run folders under the runs root.
type Store struct {
	FS       fs.FS            // filesystem interface for stubbing
	RunsRoot string           // resolved outputs path, e.g. var/runs
	Now      func() time.Time // injectable clock for deterministic tests
}

// NewStore creates a new Store with the given dependencies.
func NewStore(filesystem fs.FS, runsRoot string, now func() time.Time) *Store {
	return &Store{FS: filesystem, RunsRoot: runsRoot, Now: now}
}

// RunDir returns the directory for a specific run.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.RunsRoot, runID)
}

// InputPath returns the input snapshot path; ext includes the dot.
func (s *Store) InputPath(runID, ext string) string {
	if ext == "" {
		ext = ".txt"
	}
	return filepath.Join(s.RunDir(runID), "input"+ext)
}

// ArtifactPath returns the path of a named artifact in a run folder.
func (s *Store) ArtifactPath(runID, name string) string {
	return filepath.Join(s.RunDir(runID), name)
}

// MetaPath returns the path to a run's meta.json.
func (s *Store) MetaPath(runID string) string {
	return filepath.Join(s.RunDir(runID), FileMeta)
}

// EventsPath returns the path to a run's events.jsonl.
func (s *Store) EventsPath(runID string) string {
	return filepath.Join(s.RunDir(runID), FileEvents)
}

// RunMeta is the meta.json model: identity, status, and artifact digests.
type RunMeta struct {
	SchemaVersion string            `json:"schema_version"`
	RunID         string            `json:"run_id"`
	CreatedAt     string            `json:"created_at"` // RFC3339
	Input         InputMeta         `json:"input"`
	Provider      string            `json:"provider"`
	Model         string            `json:"model"`
	Status        string            `json:"status"`
	Attempts      int               `json:"attempts"`
	RetryUsed     bool              `json:"retry_used"`
	Validation    ValidationMeta    `json:"validation"`
	Artifacts     map[string]string `json:"artifacts,omitempty"` // filename -> sha256
	ErrorCode     string            `json:"error_code,omitempty"`
}

// InputMeta records where the run's input came from.
type InputMeta struct {
	Path         string `json:"path"`
	Type         string `json:"type"`
	SnapshotFile string `json:"snapshot_file"`
}

// ValidationMeta mirrors the final validation outcome.
type ValidationMeta struct {
	OK      bool     `json:"ok"`
	Missing []string `json:"missing,omitempty"`
}

// CreateRunDir creates a fresh run folder. An existing folder with the
// same id is an error; the caller retries with a collision suffix.
func (s *Store) CreateRunDir(runID string) error {
	dir := s.RunDir(runID)
	if _, err := s.FS.Stat(dir); err == nil {
		return errors.NewWithDetails(errors.ERunDirExists,
			"run directory already exists",
			map[string]string{"run_id": runID, "path": dir})
	}
	if err := s.FS.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed,
			"create run directory", err,
			map[string]string{"run_id": runID, "path": dir})
	}
	return nil
}

// WriteArtifact atomically writes a named artifact into a run folder.
func (s *Store) WriteArtifact(runID, name string, data []byte) error {
	path := s.ArtifactPath(runID, name)
	if err := fs.WriteFileAtomic(s.FS, path, data, 0o644); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed,
			"write run artifact", err,
			map[string]string{"run_id": runID, "path": path})
	}
	return nil
}

// WriteMeta atomically persists meta.json.
func (s *Store) WriteMeta(meta RunMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(errors.EInternal, "marshal meta.json", err)
	}
	data = append(data, '\n')
	return s.WriteArtifact(meta.RunID, FileMeta, data)
}

// ReadMeta loads and parses a run's meta.json.
func (s *Store) ReadMeta(runID string) (RunMeta, error) {
	data, err := s.FS.ReadFile(s.MetaPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return RunMeta{}, errors.NewWithDetails(errors.ERunBroken,
				"run has no meta.json",
				map[string]string{"run_id": runID})
		}
		return RunMeta{}, errors.WrapWithDetails(errors.ERunBroken,
			"read meta.json", err,
			map[string]string{"run_id": runID})
	}
	var meta RunMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return RunMeta{}, errors.WrapWithDetails(errors.ERunBroken,
			"parse meta.json", err,
			map[string]string{"run_id": runID})
	}
	return meta, nil
}

// ReadArtifact reads a named artifact from a run folder.
func (s *Store) ReadArtifact(runID, name string) ([]byte, error) {
	return s.FS.ReadFile(s.ArtifactPath(runID, name))
}
