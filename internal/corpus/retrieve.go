// Package corpus implements deterministic retrieval from the on-disk
// corpus. Selection is first-by-sorted-filename per category: no ranking,
// no randomness, reproducible across repeated calls on the same corpus.
package corpus

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

// Category directory names under the corpus root.
const (
	CategoryTemplates  = "templates"
	CategoryExemplars  = "exemplars"
	CategoryStyleRules = "style_rules"
	CategoryGlossary   = "glossary"
)

// Categories lists all required categories in retrieval order.
var Categories = []string{CategoryTemplates, CategoryExemplars, CategoryStyleRules, CategoryGlossary}

// TruncationMarker is appended when a corpus document exceeds the per-doc
// per-document character limit. It stays in the prompt so truncation is visible.
const TruncationMarker = "\n\n[TRUNCATED]\n"

// Doc is one selected corpus document, read verbatim (up to the limit).
type Doc struct {
	Category string `json:"category"`
	Path     string `json:"path"`
	Content  string `json:"-"`
}

// Limits bound what retrieval reads.
type Limits struct {
	MaxExemplars   int
	MaxCharsPerDoc int
}

// Selection is the fixed-size retrieval result: exactly one template, up
// to MaxExemplars exemplars, one style rule, one glossary entry.
type Selection struct {
	Template  Doc
	Exemplars []Doc
	StyleRule Doc
	Glossary  Doc
	Limits    Limits
}

// Retrieve selects corpus documents deterministically. Every required
// category must hold at least one regular file; an empty or missing
// category fails with E_MISSING_CORPUS_CATEGORY before any generation
// call can be attempted.
func Retrieve(fsys fs.FS, corpusRoot string, limits Limits) (Selection, error) {
	sel := Selection{Limits: limits}

	templates, err := listCategory(fsys, corpusRoot, CategoryTemplates)
	if err != nil {
		return Selection{}, err
	}
	exemplars, err := listCategory(fsys, corpusRoot, CategoryExemplars)
	if err != nil {
		return Selection{}, err
	}
	styleRules, err := listCategory(fsys, corpusRoot, CategoryStyleRules)
	if err != nil {
		return Selection{}, err
	}
	glossary, err := listCategory(fsys, corpusRoot, CategoryGlossary)
	if err != nil {
		return Selection{}, err
	}

	if sel.Template, err = readDoc(fsys, CategoryTemplates, templates[0], limits); err != nil {
		return Selection{}, err
	}
	n := limits.MaxExemplars
	if n > len(exemplars) {
		n = len(exemplars)
	}
	for _, path := range exemplars[:n] {
		doc, err := readDoc(fsys, CategoryExemplars, path, limits)
		if err != nil {
			return Selection{}, err
		}
		sel.Exemplars = append(sel.Exemplars, doc)
	}
	if sel.StyleRule, err = readDoc(fsys, CategoryStyleRules, styleRules[0], limits); err != nil {
		return Selection{}, err
	}
	if sel.Glossary, err = readDoc(fsys, CategoryGlossary, glossary[0], limits); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// ContextText renders the authoritative framing block: template, style
// rules, and glossary. Exemplars are deliberately excluded - they travel
// in the approved-defaults block instead.
func (s Selection) ContextText() string {
	blocks := []string{
		block("TEMPLATE", s.Template),
		block("STYLE RULES", s.StyleRule),
		block("GLOSSARY", s.Glossary),
	}
	return strings.TrimSpace(strings.Join(blocks, "\n"))
}

// ApprovedDefaultsText renders the exemplar block. The validator mines
// its required facts from this exact string, so the prompt and the
// validator always see the same exemplar text.
func (s Selection) ApprovedDefaultsText() string {
	var blocks []string
	for _, ex := range s.Exemplars {
		blocks = append(blocks, block("EXEMPLAR", ex))
	}
	return strings.TrimSpace(strings.Join(blocks, "\n"))
}

func block(kind string, doc Doc) string {
	return "### " + kind + ": " + doc.Path + "\n\n" + strings.TrimSpace(doc.Content) + "\n\n---\n"
}

// listCategory returns the sorted regular files of one category.
func listCategory(fsys fs.FS, corpusRoot, category string) ([]string, error) {
	dir := filepath.Join(corpusRoot, category)
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, errors.NewWithDetails(errors.EMissingCorpusCategory,
			"corpus category directory missing: "+category,
			map[string]string{"corpus": corpusRoot, "category": category})
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, errors.NewWithDetails(errors.EMissingCorpusCategory,
			"corpus category has no files: "+category,
			map[string]string{"corpus": corpusRoot, "category": category})
	}
	sort.Strings(files)
	return files, nil
}

func readDoc(fsys fs.FS, category, path string, limits Limits) (Doc, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return Doc{}, errors.WrapWithDetails(errors.EMissingCorpusCategory,
			"read corpus file", err,
			map[string]string{"category": category, "path": path})
	}
	content := string(data)
	if limits.MaxCharsPerDoc > 0 && len(content) > limits.MaxCharsPerDoc {
		cut := limits.MaxCharsPerDoc
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut] + TruncationMarker
	}
	return Doc{Category: category, Path: filepath.ToSlash(path), Content: content}, nil
}
