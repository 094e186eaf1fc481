// Package ids generates and resolves run identifiers.
package ids

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// stampFormat is the UTC timestamp prefix of every run id.
const stampFormat = "20060102T150405Z"

// NewRunID builds a run id from a UTC timestamp and the input file stem:
// 20250101T120000Z_widget-housing. The stem is slugified to keep run ids
// safe as directory names.
func NewRunID(now time.Time, inputPath string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return now.UTC().Format(stampFormat) + "_" + Slugify(stem)
}

// WithCollisionSuffix appends a short random suffix for the rare case
// where two runs of the same input land on the same second.
func WithCollisionSuffix(runID string) string {
	return runID + "_" + uuid.NewString()[:8]
}

// Slugify lowercases a name and collapses anything outside [a-z0-9] into
// single hyphens. Empty input becomes "input".
func Slugify(name string) string {
	var sb strings.Builder
	lastHyphen := true // trim leading hyphens
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		return "input"
	}
	return out
}
