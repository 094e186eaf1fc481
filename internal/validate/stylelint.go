package validate

import "strings"

// disallowedPhrases are descriptive claims a generated document must not
// introduce on its own. Each is allowed only when the supplied source
// material (request, facts, retrieved context) already contains it.
var disallowedPhrases = []string{
	"known for strength",
	"corrosion resistant",
	"ensures reliability",
	"industry standard",
	"best in class",
}

// CheckStyle reports every disallowed phrase the text introduces that the
// source material does not contain.
func CheckStyle(text, sourceMaterial string) []Item {
	out := normalize(text)
	src := normalize(sourceMaterial)

	var items []Item
	for _, phrase := range disallowedPhrases {
		if strings.Contains(out, phrase) && !strings.Contains(src, phrase) {
			items = append(items, Item{Kind: KindUnsupportedClaim, Value: phrase})
		}
	}
	return items
}
