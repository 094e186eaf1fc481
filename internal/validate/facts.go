package validate

import (
	"regexp"
	"strings"
)

// FallbackPhrase excuses a missing exemplar fact when it appears in the
// fact's relevant section: the document is allowed to say the input was
// silent instead of echoing a default.
const FallbackPhrase = "Not specified in provided input"

var (
	toleranceRe = regexp.MustCompile(`(?i)±\s*\d+(?:\.\d+)?\s*(?:mm|in)\b`)
	materialRe  = regexp.MustCompile(`(?i)\b(6061[-\s]?T6|7075[-\s]?T6|stainless\s+steel|aluminum|aluminium)\b`)
	torqueRe    = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*N[·. ]?m\b`)
)

// fastenerHints are practice phrases mined verbatim from exemplar text.
var fastenerHints = []string{
	"threadlocker",
	"anti-seize",
	"socket head cap screws",
	"torque",
}

// ExemplarFact is one concrete value mined from exemplar text that the
// generated document must echo or excuse.
type ExemplarFact struct {
	// Category is tolerance, material, torque, or fastener_practice.
	Category string
	// Value is the exact string found in the exemplar text.
	Value string
	// Section is the required heading the fact belongs under; the
	// fallback phrase only excuses the fact when it appears there.
	Section string
}

// factSection maps a fact category to its relevant required heading.
func factSection(category string) string {
	switch category {
	case "tolerance", "material":
		return RequiredHeadings[1] // ## Materials & tolerances
	default:
		return RequiredHeadings[2] // ## Vibration reliability practices
	}
}

// MineExemplarFacts extracts the concrete facts the exemplar text
// demands. Mining runs on the same approved-defaults string the prompt
// carries, so the generator always saw every fact it is held to.
func MineExemplarFacts(exemplarText string) []ExemplarFact {
	var facts []ExemplarFact
	seen := make(map[string]bool)

	add := func(category, value string) {
		key := category + "\x00" + normalize(value)
		if seen[key] {
			return
		}
		seen[key] = true
		facts = append(facts, ExemplarFact{
			Category: category,
			Value:    value,
			Section:  factSection(category),
		})
	}

	for _, m := range toleranceRe.FindAllString(exemplarText, -1) {
		add("tolerance", strings.TrimSpace(m))
	}
	for _, m := range materialRe.FindAllString(exemplarText, -1) {
		add("material", strings.TrimSpace(m))
	}
	for _, m := range torqueRe.FindAllString(exemplarText, -1) {
		add("torque", strings.TrimSpace(m))
	}
	lower := strings.ToLower(exemplarText)
	for _, hint := range fastenerHints {
		if strings.Contains(lower, hint) {
			add("fastener_practice", hint)
		}
	}
	return facts
}

// CheckExemplarCoverage reports every mined fact the generated text
// neither mentions nor excuses with the fallback phrase in the fact's
// relevant section.
func CheckExemplarCoverage(text string, facts []ExemplarFact) []Item {
	normalized := normalize(text)

	var items []Item
	for _, f := range facts {
		if strings.Contains(normalized, normalize(f.Value)) {
			continue
		}
		if strings.Contains(normalize(sectionContent(text, f.Section)), normalize(FallbackPhrase)) {
			continue
		}
		items = append(items, Item{Kind: KindOmittedExemplarFact, Value: f.Value})
	}
	return items
}

// normalize lowercases and collapses whitespace so token spacing and case
// differences do not defeat a lexical match.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
