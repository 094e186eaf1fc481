// Package prompt packs prompt instances from a fixed text template.
// Substitution is plain string replacement: no template engine, no
// escaping, each placeholder replaced verbatim.
package prompt

import (
	"strings"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

// Recognized placeholders. {ir_json} is for alternate template variants
// that want the raw fact mapping instead of the rendered facts block.
const (
	PlaceholderRequest          = "{request}"
	PlaceholderFacts            = "{facts}"
	PlaceholderApprovedDefaults = "{approved_defaults}"
	PlaceholderContext          = "{context}"
	PlaceholderIRJSON           = "{ir_json}"
)

// Inputs carries everything a template can bind.
type Inputs struct {
	Request          string
	Facts            string
	ApprovedDefaults string
	Context          string
	IRJSON           string
}

// LoadTemplate reads the prompt template file.
func LoadTemplate(fsys fs.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", errors.WrapWithDetails(errors.ETemplateNotFound,
			"prompt template not found", err,
			map[string]string{"template": path})
	}
	return string(data), nil
}

// Pack substitutes every recognized placeholder and sanitizes the result.
func Pack(template string, in Inputs) string {
	packed := strings.NewReplacer(
		PlaceholderRequest, strings.TrimSpace(in.Request),
		PlaceholderFacts, in.Facts,
		PlaceholderApprovedDefaults, in.ApprovedDefaults,
		PlaceholderContext, in.Context,
		PlaceholderIRJSON, in.IRJSON,
	).Replace(template)
	return Sanitize(packed)
}

// Sanitize strips trailing whitespace per line. Template authors indent
// placeholders freely and substituted blocks carry their own trailing
// spaces; the model never needs either.
func Sanitize(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
