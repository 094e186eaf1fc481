package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"partdoc/internal/config"
	"partdoc/internal/corpus"
	"partdoc/internal/errors"
	"partdoc/internal/fs"
	"partdoc/internal/llm"
)

// DoctorOpts holds options for the doctor command.
type DoctorOpts struct {
	// ConfigPath overrides the default configs/app.yaml.
	ConfigPath string
}

// Doctor validates the workspace: config loads, the prompt template
// exists, every corpus category has files, and the selected provider has
// its credential. Prints a line per check; returns the first hard failure.
func Doctor(fsys fs.FS, opts DoctorOpts, stdout io.Writer) error {
	cfg, err := loadConfig(fsys, opts.ConfigPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "config: ok (provider=%s model=%s)\n", cfg.LLM.Provider, cfg.App.DefaultModel)

	var firstErr error
	check := func(name string, err error) {
		if err != nil {
			fmt.Fprintf(stdout, "%s: FAIL (%s)\n", name, errors.GetCode(err))
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		fmt.Fprintf(stdout, "%s: ok\n", name)
	}

	check("prompt_template", checkFile(fsys, cfg.Paths.PromptTemplate, errors.ETemplateNotFound))

	for _, cat := range corpus.Categories {
		check("corpus/"+cat, checkCategory(fsys, cfg.Paths.Corpus, cat))
	}

	check("provider", checkProvider(cfg))

	return firstErr
}

func checkFile(fsys fs.FS, path string, code errors.Code) error {
	if _, err := fsys.Stat(path); err != nil {
		return errors.WrapWithDetails(code, "file missing", err, map[string]string{"path": path})
	}
	return nil
}

func checkCategory(fsys fs.FS, corpusRoot, category string) error {
	entries, err := fsys.ReadDir(filepath.Join(corpusRoot, category))
	if err != nil {
		return errors.NewWithDetails(errors.EMissingCorpusCategory,
			"category directory missing: "+category,
			map[string]string{"corpus": corpusRoot, "category": category})
	}
	for _, e := range entries {
		if !e.IsDir() {
			return nil
		}
	}
	return errors.NewWithDetails(errors.EMissingCorpusCategory,
		"category has no files: "+category,
		map[string]string{"corpus": corpusRoot, "category": category})
}

func checkProvider(cfg config.Config) error {
	switch cfg.LLM.Provider {
	case config.ProviderStub:
		return nil
	case config.ProviderOpenAI:
		if os.Getenv(llm.EnvOpenAIKey) == "" {
			return errors.NewWithDetails(errors.EProviderUnavailable,
				llm.EnvOpenAIKey+" is not set",
				map[string]string{"provider": cfg.LLM.Provider, "env": llm.EnvOpenAIKey})
		}
		return nil
	case config.ProviderGemini:
		if os.Getenv(llm.EnvGeminiKey) == "" {
			return errors.NewWithDetails(errors.EProviderUnavailable,
				llm.EnvGeminiKey+" is not set",
				map[string]string{"provider": cfg.LLM.Provider, "env": llm.EnvGeminiKey})
		}
		return nil
	default:
		return errors.NewWithDetails(errors.EUnknownProvider,
			"unknown llm provider: "+cfg.LLM.Provider,
			map[string]string{"provider": cfg.LLM.Provider})
	}
}
