// Package scaffold creates the initial workspace layout for partdoc init:
// config file, prompt template, a small working corpus, and sample inputs.
package scaffold

import (
	"path/filepath"

	"partdoc/internal/config"
	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

// AppYAMLTemplate is the default configs/app.yaml.
const AppYAMLTemplate = `app:
  name: partdoc
  default_model: gpt-4o

paths:
  corpus: assets/corpus
  outputs: var/runs
  prompt_template: configs/prompts/part_description.md

limits:
  max_tokens: 2000
  max_chars_per_doc: 2000
  max_exemplars: 2
  requests_per_minute: 30

llm:
  provider: stub
`

// PromptTemplate is the default prompt template. The three required
// headings are part of the output contract and the validator checks them
// verbatim.
const PromptTemplate = `You are a technical writer producing a part description document.

Use ONLY the request, the extracted facts, and the excerpts below. If a
detail is not present in any of them, write "Not specified in provided
input" instead of inventing it.

The output must be Markdown with exactly these three headings:

## Overview
## Materials & tolerances
## Vibration reliability practices

REQUEST:
{request}

EXTRACTED FACTS:
{facts}

APPROVED DEFAULTS (from exemplars; include these details when relevant):
{approved_defaults}

CONTEXT (authoritative template, style rules, glossary):
{context}
`

// Corpus seed documents. The exemplars carry the concrete defaults the
// validator enforces, so a fresh workspace validates out of the box with
// the stub provider.
const (
	corpusTemplate = `# Part description template

Structure every document as:

## Overview
One paragraph: what the part is and the environment it operates in.

## Materials & tolerances
Material choices with concrete alloy names and explicit tolerances.

## Vibration reliability practices
Fastening and assembly practices as a bulleted list.
`

	corpusExemplarBracket = `# Exemplar: mounting bracket

Material: 6061-T6 aluminum per drawing.
Mounting face flatness ±0.05 mm.
Anodize after machining.
`

	corpusExemplarHousing = `# Exemplar: vibration-rated housing

Use blue threadlocker on all fasteners.
Torque M5 socket head cap screws to 4.5 N·m.
Apply anti-seize on aluminum-to-aluminum interfaces.
`

	corpusStyleRules = `# Style rules

- No marketing language.
- Every claim must trace to the request, the facts, or an excerpt.
- Use "Not specified in provided input" for absent details.
`

	corpusGlossary = `# Glossary

- threadlocker: anaerobic adhesive applied to fastener threads.
- anti-seize: compound preventing galling on threaded interfaces.
- flatness: maximum allowed deviation of a surface from a plane.
`

	sampleInputText = `Widget housing for a vibration-prone environment.
Machined aluminum, M5 mounting screws, outdoor use.
`

	sampleNXScript = `# NXOpen Python (simulated export)
# Part: WidgetHousing_v1

import NXOpen
import NXOpen.Features

def main():
    theSession = NXOpen.Session.GetSession()
    workPart = theSession.Parts.Work

    part_units = NXOpen.Part.Units.Millimeters

    blockBuilder = workPart.Features.CreateBlockFeatureBuilder(None)
    blockBuilder.SetOriginAndLengths(
        NXOpen.Point3d(0.0, 0.0, 0.0),
        "120.0", "80.0", "35.0"
    )

    holeBuilder = workPart.Features.CreateHoleBuilder(None)
    holeBuilder.Diameter.RightHandSide = "6.0"
    holeBuilder.Depth.RightHandSide = "12.0"

    # Material: 6061-T6 aluminum
    # Mounting interface tolerance: ±0.05 mm
    # Torque M5 screws to 4.5 N·m

if __name__ == "__main__":
    main()
`
)

// seedFiles maps workspace-relative paths to their initial content.
// configs/app.yaml is handled separately because it gates the whole init.
var seedFiles = map[string]string{
	"configs/prompts/part_description.md":          PromptTemplate,
	"assets/corpus/templates/part_description.md":  corpusTemplate,
	"assets/corpus/exemplars/mounting_bracket.md":  corpusExemplarBracket,
	"assets/corpus/exemplars/vibration_housing.md": corpusExemplarHousing,
	"assets/corpus/style_rules/house_style.md":     corpusStyleRules,
	"assets/corpus/glossary/terms.md":              corpusGlossary,
	"assets/samples/widget_housing.txt":            sampleInputText,
	"assets/samples/nxopen_export.py":              sampleNXScript,
}

// Init creates the workspace layout under root. It refuses to run when
// configs/app.yaml already exists; individual seed files that exist are
// left untouched. Returns the created paths, sorted by creation order.
func Init(fsys fs.FS, root string) ([]string, error) {
	configPath := filepath.Join(root, config.DefaultPath)
	if _, err := fsys.Stat(configPath); err == nil {
		return nil, errors.NewWithDetails(errors.EConfigExists,
			"workspace already initialized",
			map[string]string{"config": configPath})
	}

	var created []string
	write := func(rel, content string) error {
		path := filepath.Join(root, rel)
		if _, err := fsys.Stat(path); err == nil {
			return nil
		}
		if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.WrapWithDetails(errors.EPersistFailed,
				"create directory", err, map[string]string{"path": path})
		}
		if err := fsys.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.WrapWithDetails(errors.EPersistFailed,
				"write seed file", err, map[string]string{"path": path})
		}
		created = append(created, rel)
		return nil
	}

	if err := write(config.DefaultPath, AppYAMLTemplate); err != nil {
		return nil, err
	}
	// deterministic order for output and tests
	order := []string{
		"configs/prompts/part_description.md",
		"assets/corpus/templates/part_description.md",
		"assets/corpus/exemplars/mounting_bracket.md",
		"assets/corpus/exemplars/vibration_housing.md",
		"assets/corpus/style_rules/house_style.md",
		"assets/corpus/glossary/terms.md",
		"assets/samples/widget_housing.txt",
		"assets/samples/nxopen_export.py",
	}
	for _, rel := range order {
		if err := write(rel, seedFiles[rel]); err != nil {
			return nil, err
		}
	}
	return created, nil
}
