package input

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Heuristic, line-based NX Open Python parsing. No AST: real NXOpen
// exports vary too much for anything stricter, so every extracted
// signal carries line evidence and downstream consumers treat it as
// best effort.

var (
	importNXOpenRe = regexp.MustCompile(`(?im)^\s*(import\s+NXOpen|from\s+NXOpen\b)`)

	unitsEnumMMRe = regexp.MustCompile(`(?i)NXOpen\.\w*\.Units\.(Millimeters|Millimetres)\b`)
	unitsEnumInRe = regexp.MustCompile(`(?i)NXOpen\.\w*\.Units\.Inches\b`)
	unitsMMRe     = regexp.MustCompile(`(?i)\b(Millimeters|Millimetres|mm)\b`)
	unitsInRe     = regexp.MustCompile(`(?i)\b(Inches|inch|in)\b`)

	partNameSetRe     = regexp.MustCompile(`\b(SetPartName|SetName)\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	partNameCommentRe = regexp.MustCompile(`(?im)^\s*#\s*Part\s*[:=]\s*(.+?)\s*$`)

	materialRe     = regexp.MustCompile(`(?i)\b(6061[-\s]?T6|7075[-\s]?T6|stainless\s+steel|steel|aluminum|aluminium|titanium|inconel)\b`)
	materialLoadRe = regexp.MustCompile(`(?i)(LoadFromLibrary|FindMaterial|AssignMaterial)\s*\(`)

	tolPMRe        = regexp.MustCompile(`(?i)±\s*\d+(?:\.\d+)?\s*(?:mm|in)?\b`)
	tolPlusMinusRe = regexp.MustCompile(`(?i)\+\s*\d+(?:\.\d+)?\s*/\s*-\s*\d+(?:\.\d+)?\s*(?:mm|in)?\b`)
	tolAPIRe       = regexp.MustCompile(`(?i)\b(Tolerance|PlusMinus|SetTolerance|ToleranceType)\b`)

	paramAssignRe = regexp.MustCompile(`(?P<lhs>\b[A-Za-z_]\w*(?:\.[A-Za-z_]\w*){1,6})\s*=\s*(?P<rhs>["'][^"']+["']|\d+(?:\.\d+)?)`)
)

// featureBuilders maps a feature kind to the NXOpen builder names that create it.
var featureBuilders = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"hole", regexp.MustCompile(`\b(CreateHoleBuilder|HoleBuilder)\b`)},
	{"fillet", regexp.MustCompile(`\b(CreateEdgeBlendBuilder|EdgeBlendBuilder)\b`)},
	{"chamfer", regexp.MustCompile(`\b(CreateChamferBuilder|ChamferBuilder)\b`)},
	{"block", regexp.MustCompile(`\b(CreateBlockFeatureBuilder|BlockFeatureBuilder|CreateBlockBuilder)\b`)},
	{"extrude", regexp.MustCompile(`\b(CreateExtrudeBuilder|ExtrudeBuilder)\b`)},
	{"revolve", regexp.MustCompile(`\b(CreateRevolveBuilder|RevolveBuilder)\b`)},
	{"sketch", regexp.MustCompile(`\b(CreateSketch|SketchBuilder)\b`)},
	{"pocket", regexp.MustCompile(`\b(CreatePocketBuilder|PocketBuilder)\b`)},
	{"pattern", regexp.MustCompile(`\b(CreatePatternFeatureBuilder|PatternFeatureBuilder)\b`)},
}

// paramNameHints gates parameter assignments to dimension-ish left-hand sides.
var paramNameHints = []string{"diam", "radius", "length", "width", "height", "thick", "tol", "angle"}

// Finding is a value extracted from a script line with its evidence.
type Finding struct {
	Value    string
	Evidence string
}

// FeatureFinding is a detected feature kind with its evidence.
type FeatureFinding struct {
	Kind     string
	Evidence string
}

// ParamFinding is a named parameter assignment with its evidence.
type ParamFinding struct {
	Name     string
	Value    string
	Evidence string
}

// ParsedScript holds everything extracted from an NX Open Python script.
type ParsedScript struct {
	Units          string // "mm", "in", or "" when undetected
	PartName       string
	PartNameSource string
	Features       []FeatureFinding
	Materials      []Finding
	Tolerances     []Finding
	Parameters     []ParamFinding
}

// LooksLikeNXScript reports whether text imports NXOpen.
func LooksLikeNXScript(text string) bool {
	return importNXOpenRe.MatchString(text)
}

// lineEvidence renders a stable, human-readable evidence string.
func lineEvidence(lineNo int, line string) string {
	return strings.TrimSpace(fmt.Sprintf("L%d: %s", lineNo, strings.TrimSpace(line)))
}

func detectUnits(text string) string {
	if unitsEnumMMRe.MatchString(text) {
		return "mm"
	}
	if unitsEnumInRe.MatchString(text) {
		return "in"
	}
	// fallback: plain tokens (lower confidence)
	if unitsMMRe.MatchString(text) {
		return "mm"
	}
	if unitsInRe.MatchString(text) {
		return "in"
	}
	return ""
}

func detectPartName(text, sourcePath string) (name, source string) {
	if m := partNameSetRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[2]), "call:" + m[1] + "(...)"
	}
	if m := partNameCommentRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), "comment:# Part: ..."
	}
	if sourcePath != "" {
		stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
		return stem, "fallback:file_stem"
	}
	return "", ""
}

// ParseNXScript extracts units, part name, materials, tolerances, features,
// and dimension-ish parameters from an NX Open Python script.
func ParseNXScript(text, sourcePath string) ParsedScript {
	parsed := ParsedScript{
		Units: detectUnits(text),
	}
	parsed.PartName, parsed.PartNameSource = detectPartName(text, sourcePath)

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}

		for _, fb := range featureBuilders {
			if fb.re.MatchString(line) {
				parsed.Features = append(parsed.Features, FeatureFinding{
					Kind:     fb.kind,
					Evidence: lineEvidence(lineNo, line),
				})
				break
			}
		}

		if materialRe.MatchString(line) || materialLoadRe.MatchString(line) {
			val := materialRe.FindString(line)
			if val == "" {
				val = "material_api_call"
			}
			parsed.Materials = append(parsed.Materials, Finding{
				Value:    val,
				Evidence: lineEvidence(lineNo, line),
			})
		}

		if tolPMRe.MatchString(line) || tolPlusMinusRe.MatchString(line) || tolAPIRe.MatchString(line) {
			val := tolPMRe.FindString(line)
			if val == "" {
				val = tolPlusMinusRe.FindString(line)
			}
			if val == "" {
				val = "tolerance_api_usage"
			}
			parsed.Tolerances = append(parsed.Tolerances, Finding{
				Value:    strings.TrimSpace(val),
				Evidence: lineEvidence(lineNo, line),
			})
		}

		if m := paramAssignRe.FindStringSubmatch(line); m != nil {
			lhs := m[1]
			rhs := strings.Trim(m[2], `"'`)
			lower := strings.ToLower(lhs)
			for _, hint := range paramNameHints {
				if strings.Contains(lower, hint) {
					parsed.Parameters = append(parsed.Parameters, ParamFinding{
						Name:     lhs,
						Value:    rhs,
						Evidence: lineEvidence(lineNo, line),
					})
					break
				}
			}
		}
	}

	return parsed
}
