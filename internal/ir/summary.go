package ir

import (
	"fmt"
	"strings"
)

const notDetected = "Not detected"

// Summary renders the human-readable ir_summary.txt companion to ir.json.
func Summary(doc IR) string {
	var b strings.Builder

	b.WriteString("IR summary\n")
	b.WriteString("==========\n")
	fmt.Fprintf(&b, "Source: %s (%s)\n", doc.Source.Path, doc.Source.Type)
	fmt.Fprintf(&b, "Part name: %s\n", orNotDetected(doc.Part.Name))
	fmt.Fprintf(&b, "Units: %s\n", orNotDetected(doc.Part.Units))

	b.WriteString("\nMaterials:\n")
	if len(doc.Materials) == 0 {
		b.WriteString("  " + notDetected + "\n")
	}
	for _, m := range doc.Materials {
		fmt.Fprintf(&b, "  - %s (%s)\n", m.Value, m.Evidence)
	}

	b.WriteString("\nTolerances:\n")
	if len(doc.Tolerances) == 0 {
		b.WriteString("  " + notDetected + "\n")
	}
	for _, tol := range doc.Tolerances {
		fmt.Fprintf(&b, "  - %s (%s)\n", tol.Value, tol.Evidence)
	}

	b.WriteString("\nFeatures:\n")
	if len(doc.Features) == 0 {
		b.WriteString("  " + notDetected + "\n")
	}
	for _, f := range doc.Features {
		fmt.Fprintf(&b, "  - %s (%s)\n", f.Kind, f.Evidence)
	}

	b.WriteString("\nParameters:\n")
	if len(doc.Parameters) == 0 {
		b.WriteString("  " + notDetected + "\n")
	}
	for _, p := range doc.Parameters {
		fmt.Fprintf(&b, "  - %s = %s (%s)\n", p.Name, p.Value, p.Evidence)
	}

	if doc.Evidence.Notes != "" {
		b.WriteString("\nNotes: " + doc.Evidence.Notes + "\n")
	}
	return b.String()
}

func orNotDetected(s string) string {
	if strings.TrimSpace(s) == "" {
		return notDetected
	}
	return s
}
