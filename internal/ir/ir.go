// Package ir defines the intermediate representation extracted from a
// request: the structured, evidence-backed facts the prompt and the
// validator work from. Extraction is deliberately conservative - the IR
// only carries what the input text can justify.
package ir

// Version is the current IR schema version.
const Version = "v1"

// IR is the fact mapping extracted from one input.
type IR struct {
	IRVersion  string      `json:"ir_version"`
	Source     Source      `json:"source"`
	Part       Part        `json:"part"`
	Materials  []Fact      `json:"materials"`
	Tolerances []Fact      `json:"tolerances"`
	Features   []Feature   `json:"features"`
	Parameters []Parameter `json:"parameters"`
	Evidence   Evidence    `json:"evidence"`
}

// Source records where the IR came from.
type Source struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// Part holds part-level identity facts. Empty string means not detected.
type Part struct {
	Name  string `json:"name"`
	Units string `json:"units"`
}

// Fact is a value with the input line that supports it.
type Fact struct {
	Value    string `json:"value"`
	Evidence string `json:"evidence"`
}

// Feature is a detected geometric feature with its evidence.
type Feature struct {
	Kind     string `json:"kind"`
	Evidence string `json:"evidence"`
}

// Parameter is a named dimension-ish value with its evidence.
type Parameter struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Evidence string `json:"evidence"`
}

// Evidence holds extraction-level notes.
type Evidence struct {
	Notes string `json:"notes"`
}
