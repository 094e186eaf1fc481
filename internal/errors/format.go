// Package errors provides error formatting for partdoc CLI output.
package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintOptions controls error output formatting.
type PrintOptions struct {
	// Verbose enables detailed error output with more context keys.
	Verbose bool
}

// Context key whitelist (default mode, in order).
var defaultContextKeys = []string{
	"op",
	"run_id",
	"input",
	"config",
	"corpus",
	"category",
	"provider",
	"model",
	"template",
	"path",
	"attempt",
	"duration_ms",
}

// Additional context keys for verbose mode.
var verboseContextKeys = []string{
	"op",
	"run_id",
	"run_dir",
	"input",
	"input_type",
	"config",
	"corpus",
	"category",
	"provider",
	"model",
	"template",
	"path",
	"attempt",
	"duration_ms",
	"env",
	"hint",
}

// Truncation limits.
const (
	maxValueLen      = 256 // Max chars for single-line context values
	maxExtraValueLen = 128 // Max chars for extra section values
)

// Format formats an error for display without I/O.
// This is a pure function - it never reads files or performs network I/O.
func Format(err error, opts PrintOptions) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	pe, isPartdoc := AsPartdocError(err)
	if !isPartdoc {
		sb.WriteString(err.Error())
		sb.WriteString("\n")
		return sb.String()
	}

	// Line 1: error_code
	sb.WriteString("error_code: ")
	sb.WriteString(string(pe.Code))
	sb.WriteString("\n")

	// Line 2: message
	sb.WriteString(pe.Msg)
	sb.WriteString("\n")

	// Blank line before context
	sb.WriteString("\n")

	contextKeys := defaultContextKeys
	if opts.Verbose {
		contextKeys = verboseContextKeys
	}

	printedKeys := make(map[string]bool)

	for _, key := range contextKeys {
		if pe.Details == nil {
			continue
		}
		val, ok := pe.Details[key]
		if !ok || val == "" {
			continue
		}
		// Skip hint - printed separately at the end
		if key == "hint" {
			continue
		}
		printedKeys[key] = true
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(sanitizeValue(val, maxValueLen))
		sb.WriteString("\n")
	}

	// In verbose mode, print extra keys under extra: section
	if opts.Verbose && pe.Details != nil {
		var extraKeys []string
		for key := range pe.Details {
			if !printedKeys[key] && key != "hint" {
				extraKeys = append(extraKeys, key)
			}
		}
		if len(extraKeys) > 0 {
			sort.Strings(extraKeys)
			sb.WriteString("\nextra:\n")
			for _, key := range extraKeys {
				val := pe.Details[key]
				if val == "" {
					continue
				}
				sb.WriteString("  ")
				sb.WriteString(key)
				sb.WriteString(": ")
				sb.WriteString(sanitizeValue(val, maxExtraValueLen))
				sb.WriteString("\n")
			}
		}
	}

	// Hint line (if present)
	if pe.Details != nil {
		if hint, ok := pe.Details["hint"]; ok && hint != "" {
			sb.WriteString("\nhint: ")
			sb.WriteString(hint)
			sb.WriteString("\n")
		}
	}

	// Try lines (suggestions for common errors)
	for _, try := range deriveTryLines(pe) {
		sb.WriteString("try: ")
		sb.WriteString(try)
		sb.WriteString("\n")
	}

	return sb.String()
}

// PrintWithOptions writes a formatted error to w with the given options.
func PrintWithOptions(w io.Writer, err error, opts PrintOptions) {
	if err == nil {
		return
	}
	_, _ = io.WriteString(w, Format(err, opts))
}

// sanitizeValue sanitizes a value for single-line context output.
// - Trims trailing whitespace first
// - Normalizes CRLF to LF
// - Replaces newlines with literal \n
// - Truncates to maxLen chars
func sanitizeValue(val string, maxLen int) string {
	val = strings.TrimRight(val, " \t\r\n")
	val = strings.ReplaceAll(val, "\r\n", "\n")
	val = strings.ReplaceAll(val, "\n", "\\n")
	if len(val) > maxLen {
		return val[:maxLen] + "…"
	}
	return val
}

// deriveTryLines returns actionable suggestions based on error code.
func deriveTryLines(pe *PartdocError) []string {
	if pe == nil {
		return nil
	}

	var lines []string

	switch pe.Code {
	case ENoConfig:
		lines = append(lines, "partdoc init")
	case EMissingCorpusCategory:
		if pe.Details != nil {
			if category := pe.Details["category"]; category != "" {
				lines = append(lines, fmt.Sprintf("add at least one file under the corpus %s/ directory", category))
			}
		}
	case EProviderUnavailable:
		if pe.Details != nil {
			if env := pe.Details["env"]; env != "" {
				lines = append(lines, fmt.Sprintf("export %s=<key> or set PARTDOC_LLM_PROVIDER=stub", env))
			}
		}
	case ERunIDAmbiguous:
		lines = append(lines, "partdoc ls")
	}

	return lines
}
