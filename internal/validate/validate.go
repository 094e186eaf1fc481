package validate

// Validate runs all three checks against a generated text.
//
// exemplarText is the approved-defaults block the prompt carried;
// sourceMaterial is the union of everything the generator was shown
// (request, facts, context, approved defaults), used by the style lint.
func Validate(text, exemplarText, sourceMaterial string) Outcome {
	var items []Item
	items = append(items, CheckSections(text)...)
	items = append(items, CheckExemplarCoverage(text, MineExemplarFacts(exemplarText))...)
	items = append(items, CheckStyle(text, sourceMaterial)...)

	return Outcome{OK: len(items) == 0, Missing: items}
}
