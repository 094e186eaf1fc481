// Package ids provides run identifier resolution for partdoc commands.
// It implements exact-match and unique-prefix resolution.
package ids

import (
	"fmt"
	"sort"
	"strings"
)

// RunRef represents a reference to a discovered run.
type RunRef struct {
	// RunID is the run_id from the directory name (canonical identity).
	RunID string

	// Input is the snapshot input name from meta.json. Empty if broken.
	Input string

	// Broken indicates meta.json is unreadable or invalid.
	// Resolver does not refuse broken runs; command layer decides.
	Broken bool
}

// ErrNotFound indicates no matching run_id (exact or prefix).
type ErrNotFound struct {
	Input string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("run not found: %q", e.Input)
}

// ErrAmbiguous indicates prefix matched multiple run_ids.
type ErrAmbiguous struct {
	Input      string
	Candidates []RunRef // ordered deterministically: RunID asc
}

func (e *ErrAmbiguous) Error() string {
	ids := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		ids[i] = c.RunID
	}
	return fmt.Sprintf("ambiguous run id %q matches: %s", e.Input, strings.Join(ids, ", "))
}

// ResolveRunRef resolves an input run identifier to a single run reference.
//
// Resolution rules:
//  1. Exact match wins.
//  2. Otherwise, treat input as a prefix:
//     - 0 matches: not found
//     - 1 match: resolve
//     - >1 matches: ambiguous (return candidates sorted by RunID ascending)
//  3. Input normalization: trim whitespace; empty after trim = not found.
//
// Broken runs are NOT refused; resolver returns them so the command layer
// can decide (e.g., show -> E_RUN_BROKEN).
func ResolveRunRef(input string, refs []RunRef) (RunRef, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return RunRef{}, &ErrNotFound{Input: ""}
	}

	for _, ref := range refs {
		if ref.RunID == input {
			return ref, nil
		}
	}

	var matches []RunRef
	for _, ref := range refs {
		if strings.HasPrefix(ref.RunID, input) {
			matches = append(matches, ref)
		}
	}

	switch len(matches) {
	case 0:
		return RunRef{}, &ErrNotFound{Input: input}
	case 1:
		return matches[0], nil
	default:
		sort.Slice(matches, func(i, j int) bool { return matches[i].RunID < matches[j].RunID })
		return RunRef{}, &ErrAmbiguous{Input: input, Candidates: matches}
	}
}
