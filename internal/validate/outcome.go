// Package validate implements the lexical checks applied to generated
// documents: required section structure, exemplar-backed fact coverage,
// and a disallowed-phrase style lint. Validation failures are data, not
// errors - the pipeline persists them and decides whether to retry.
package validate

// Kind classifies a missing or offending item.
type Kind string

const (
	KindMissingSection      Kind = "missing_section"
	KindOmittedExemplarFact Kind = "omitted_exemplar_fact"
	KindUnsupportedClaim    Kind = "unsupported_claim"
)

// Item is one concrete validation finding.
type Item struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// Message renders the finding the way the corrective prompt and
// generation.json report it.
func (it Item) Message() string {
	switch it.Kind {
	case KindMissingSection:
		return "required section missing or empty: " + it.Value
	case KindOmittedExemplarFact:
		return "exemplar-backed detail not included: " + it.Value
	case KindUnsupportedClaim:
		return "unsupported claim not present in source material: " + it.Value
	default:
		return it.Value
	}
}

// Outcome is the result of validating one generated text.
type Outcome struct {
	OK      bool   `json:"ok"`
	Missing []Item `json:"missing"`
}

// Messages renders every finding for logs and the corrective prompt.
func (o Outcome) Messages() []string {
	out := make([]string, 0, len(o.Missing))
	for _, it := range o.Missing {
		out = append(out, it.Message())
	}
	return out
}
