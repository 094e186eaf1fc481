package corpus

import "path/filepath"

// SelectionLog is the retrieved.json model: an auditable record of which
// corpus files a run used and under what limits.
type SelectionLog struct {
	Retriever  string            `json:"retriever"`
	CorpusRoot string            `json:"corpus_root"`
	Dirs       map[string]string `json:"dirs"`
	Selected   SelectedFiles     `json:"selected"`
	FilesUsed  []string          `json:"files_used"`
	Counts     map[string]int    `json:"counts"`
	Limits     LogLimits         `json:"limits"`
	Notes      string            `json:"notes"`
}

// SelectedFiles lists the chosen file per category.
type SelectedFiles struct {
	Template   string   `json:"template"`
	Exemplars  []string `json:"exemplars"`
	StyleRules string   `json:"style_rules"`
	Glossary   string   `json:"glossary"`
}

// LogLimits mirrors Limits with JSON tags for the selection log.
type LogLimits struct {
	MaxExemplars   int `json:"max_exemplars"`
	MaxCharsPerDoc int `json:"max_chars_per_doc"`
}

// RetrieverName identifies the selection strategy in logs.
const RetrieverName = "static_v1"

// Log builds the selection log for a completed retrieval.
func (s Selection) Log(corpusRoot string) SelectionLog {
	exemplarPaths := make([]string, 0, len(s.Exemplars))
	for _, ex := range s.Exemplars {
		exemplarPaths = append(exemplarPaths, ex.Path)
	}

	filesUsed := make([]string, 0, len(exemplarPaths)+3)
	filesUsed = append(filesUsed, s.Template.Path)
	filesUsed = append(filesUsed, exemplarPaths...)
	filesUsed = append(filesUsed, s.StyleRule.Path, s.Glossary.Path)

	dirs := make(map[string]string, len(Categories))
	for _, cat := range Categories {
		dirs[cat] = filepath.ToSlash(filepath.Join(corpusRoot, cat))
	}

	return SelectionLog{
		Retriever:  RetrieverName,
		CorpusRoot: filepath.ToSlash(corpusRoot),
		Dirs:       dirs,
		Selected: SelectedFiles{
			Template:   s.Template.Path,
			Exemplars:  exemplarPaths,
			StyleRules: s.StyleRule.Path,
			Glossary:   s.Glossary.Path,
		},
		FilesUsed: filesUsed,
		Counts: map[string]int{
			CategoryTemplates:  1,
			CategoryExemplars:  len(s.Exemplars),
			CategoryStyleRules: 1,
			CategoryGlossary:   1,
		},
		Limits: LogLimits{
			MaxExemplars:   s.Limits.MaxExemplars,
			MaxCharsPerDoc: s.Limits.MaxCharsPerDoc,
		},
		Notes: "Deterministic retrieval: first files by sorted name per category.",
	}
}
