package prompt

import "strings"

// Repair builds the single corrective prompt used after a failed
// validation. The original packed prompt is kept intact for traceability;
// the correction is appended with the concrete list of missing items.
func Repair(packed string, missing []string) string {
	var b strings.Builder
	b.WriteString(packed)
	b.WriteString("\n\n---\n\n")
	b.WriteString("CORRECTION REQUIRED:\n")
	b.WriteString("Your previous answer failed to incorporate exemplar-backed details.\n")
	b.WriteString("Revise the answer to include the following missing items (only if present in excerpts):\n")
	for _, m := range missing {
		b.WriteString("* " + m + "\n")
	}
	b.WriteString("Do not add any new facts beyond the excerpts. Keep exactly 3 sections with the required headings.\n")
	return b.String()
}
