// Run discovery for the ls/show/clean commands.
package store

import (
	"sort"
)

// RunRecord is a discovered run. Identity comes from the directory name;
// a corrupt or missing meta.json marks the record broken but never hides
// the run.
type RunRecord struct {
	// RunID is the run directory name (canonical identity).
	RunID string

	// Broken indicates meta.json is unreadable or invalid.
	// When true, Meta is nil but RunID is still populated.
	Broken bool

	// Meta is the parsed meta.json. Nil if Broken==true.
	Meta *RunMeta

	// RunDir is the path to the run directory.
	RunDir string
}

// ScanRuns discovers runs by listing the runs root. Returns records
// sorted by RunID ascending. A missing runs root yields an empty result,
// not an error.
func (s *Store) ScanRuns() ([]RunRecord, error) {
	entries, err := s.FS.ReadDir(s.RunsRoot)
	if err != nil {
		// The runs root is created lazily on the first run.
		return nil, nil
	}

	var records []RunRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		runID := entry.Name()
		rec := RunRecord{RunID: runID, RunDir: s.RunDir(runID)}

		meta, err := s.ReadMeta(runID)
		if err != nil {
			rec.Broken = true
		} else {
			rec.Meta = &meta
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RunID < records[j].RunID
	})
	return records, nil
}
