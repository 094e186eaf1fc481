package ir

import (
	"strings"

	"partdoc/internal/input"
)

// Extract builds the IR for one input. NX Open scripts go through the
// heuristic line parser; everything else is treated as plain text and
// only yields a part name from the first non-empty line. Nothing is
// ever inferred without textual evidence.
func Extract(rawText, sourcePath string, sourceType input.Type) IR {
	out := IR{
		IRVersion: Version,
		Source: Source{
			Type: string(sourceType),
			Path: sourcePath,
		},
		Materials:  []Fact{},
		Tolerances: []Fact{},
		Features:   []Feature{},
		Parameters: []Parameter{},
	}

	isNX := sourceType == input.TypeNXScript || input.LooksLikeNXScript(rawText)
	if isNX {
		parsed := input.ParseNXScript(rawText, sourcePath)

		out.Source.Type = string(input.TypeNXScript)
		out.Part.Name = parsed.PartName
		out.Part.Units = parsed.Units

		for _, m := range parsed.Materials {
			out.Materials = append(out.Materials, Fact{Value: strings.TrimSpace(m.Value), Evidence: strings.TrimSpace(m.Evidence)})
		}
		for _, tol := range parsed.Tolerances {
			out.Tolerances = append(out.Tolerances, Fact{Value: strings.TrimSpace(tol.Value), Evidence: strings.TrimSpace(tol.Evidence)})
		}
		for _, f := range parsed.Features {
			out.Features = append(out.Features, Feature{Kind: strings.TrimSpace(f.Kind), Evidence: strings.TrimSpace(f.Evidence)})
		}
		for _, p := range parsed.Parameters {
			out.Parameters = append(out.Parameters, Parameter{
				Name:     strings.TrimSpace(p.Name),
				Value:    strings.TrimSpace(p.Value),
				Evidence: strings.TrimSpace(p.Evidence),
			})
		}

		out.Evidence.Notes = "IR extracted from NXOpen Python using a heuristic line-based parser. " +
			"Features, materials, and tolerances are best-effort and backed by line evidence."
		return out
	}

	// Plain text request: best-effort part name from the first non-empty line.
	for _, line := range strings.Split(rawText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out.Part.Name = trimmed
			break
		}
	}

	out.Evidence.Notes = "IR extracted from plain text (no NXOpen parser used). " +
		"Materials, tolerances, and features are intentionally not inferred at this stage."
	return out
}
