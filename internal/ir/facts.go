package ir

import (
	"fmt"
	"strings"
)

// FormatFacts renders the {facts} block for prompt packing. Each line is a
// single fact; absent fields are stated as absent so the generator cannot
// mistake silence for permission to invent.
func FormatFacts(doc IR) string {
	var lines []string

	lines = append(lines, "Part name: "+orNotDetected(doc.Part.Name))
	lines = append(lines, "Units: "+orNotDetected(doc.Part.Units))

	if len(doc.Materials) == 0 {
		lines = append(lines, "Materials: "+notDetected)
	}
	for _, m := range doc.Materials {
		lines = append(lines, fmt.Sprintf("Material: %s [%s]", m.Value, m.Evidence))
	}

	if len(doc.Tolerances) == 0 {
		lines = append(lines, "Tolerances: "+notDetected)
	}
	for _, tol := range doc.Tolerances {
		lines = append(lines, fmt.Sprintf("Tolerance: %s [%s]", tol.Value, tol.Evidence))
	}

	if len(doc.Features) == 0 {
		lines = append(lines, "Features: "+notDetected)
	}
	for _, f := range doc.Features {
		lines = append(lines, fmt.Sprintf("Feature: %s [%s]", f.Kind, f.Evidence))
	}

	for _, p := range doc.Parameters {
		lines = append(lines, fmt.Sprintf("Parameter: %s = %s [%s]", p.Name, p.Value, p.Evidence))
	}

	return strings.Join(lines, "\n")
}
