// Package input classifies and parses pipeline input files.
package input

import (
	"path/filepath"
	"strings"
)

// Type identifies how an input file should be interpreted.
type Type string

const (
	// TypeText is a plain free-text request.
	TypeText Type = "text"

	// TypeMarkdown is a markdown request; treated as text for extraction.
	TypeMarkdown Type = "markdown"

	// TypeNXScript is an NX Open Python script.
	TypeNXScript Type = "nxopen_python"

	// TypeUnknown is anything else; treated conservatively as text.
	TypeUnknown Type = "unknown"
)

// DetectType classifies an input file by extension.
func DetectType(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return TypeText
	case ".md":
		return TypeMarkdown
	case ".py":
		return TypeNXScript
	default:
		return TypeUnknown
	}
}
