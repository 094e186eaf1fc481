// Package config handles loading and validation of the partdoc app configuration.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

// DefaultPath is the config file location relative to the workspace root.
const DefaultPath = "configs/app.yaml"

// ProviderEnv is the environment variable that overrides llm.provider.
const ProviderEnv = "PARTDOC_LLM_PROVIDER"

// Provider names accepted by llm.provider.
const (
	ProviderStub   = "stub"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is the parsed and validated application configuration.
// Loaded once at startup and passed explicitly down the call chain.
type Config struct {
	App    App    `yaml:"app"`
	Paths  Paths  `yaml:"paths"`
	Limits Limits `yaml:"limits"`
	LLM    LLM    `yaml:"llm"`
}

// App holds application identity settings.
type App struct {
	Name         string `yaml:"name"`
	DefaultModel string `yaml:"default_model"`
}

// Paths holds workspace-relative locations.
type Paths struct {
	Corpus         string `yaml:"corpus"`
	Outputs        string `yaml:"outputs"`
	PromptTemplate string `yaml:"prompt_template"`
}

// Limits holds size and rate limits.
type Limits struct {
	MaxTokens         int `yaml:"max_tokens"`
	MaxCharsPerDoc    int `yaml:"max_chars_per_doc"`
	MaxExemplars      int `yaml:"max_exemplars"`
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// LLM holds generation backend settings.
type LLM struct {
	Provider string `yaml:"provider"`
}

// Default returns the built-in configuration defaults.
// Load starts from these and overlays the YAML file on top.
func Default() Config {
	return Config{
		App: App{
			Name:         "partdoc",
			DefaultModel: "gpt-4o",
		},
		Paths: Paths{
			Corpus:         "assets/corpus",
			Outputs:        "var/runs",
			PromptTemplate: "configs/prompts/part_description.md",
		},
		Limits: Limits{
			MaxTokens:         2000,
			MaxCharsPerDoc:    2000,
			MaxExemplars:      2,
			RequestsPerMinute: 30,
		},
		LLM: LLM{
			Provider: ProviderStub,
		},
	}
}

// Load reads, parses, and validates the config file at path.
// Returns E_NO_CONFIG if the file does not exist.
// Returns E_INVALID_CONFIG if the file is not valid YAML or fails validation.
// The PARTDOC_LLM_PROVIDER environment variable overrides llm.provider.
func Load(fsys fs.FS, path string) (Config, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.NewWithDetails(
				errors.ENoConfig,
				"config file not found: "+path,
				map[string]string{
					"config": path,
					"hint":   "run 'partdoc init' to scaffold a workspace",
				},
			)
		}
		return Config{}, errors.Wrap(errors.ENoConfig, "failed to read config file", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty config file keeps the defaults.
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.WrapWithDetails(
			errors.EInvalidConfig,
			"invalid yaml: "+err.Error(),
			err,
			map[string]string{"config": path},
		)
	}

	if env := os.Getenv(ProviderEnv); env != "" {
		cfg.LLM.Provider = env
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs semantic validation on a loaded config.
func Validate(cfg Config) error {
	switch cfg.LLM.Provider {
	case ProviderStub, ProviderOpenAI, ProviderGemini:
	default:
		return errors.NewWithDetails(
			errors.EUnknownProvider,
			fmt.Sprintf("unknown llm provider: %q (expected %s, %s, or %s)",
				cfg.LLM.Provider, ProviderStub, ProviderOpenAI, ProviderGemini),
			map[string]string{"provider": cfg.LLM.Provider},
		)
	}

	if cfg.App.DefaultModel == "" {
		return errors.New(errors.EInvalidConfig, "app.default_model must not be empty")
	}
	if cfg.Paths.Corpus == "" || cfg.Paths.Outputs == "" || cfg.Paths.PromptTemplate == "" {
		return errors.New(errors.EInvalidConfig, "paths.corpus, paths.outputs, and paths.prompt_template must not be empty")
	}
	if cfg.Limits.MaxTokens <= 0 {
		return errors.New(errors.EInvalidConfig, "limits.max_tokens must be positive")
	}
	if cfg.Limits.MaxCharsPerDoc <= 0 {
		return errors.New(errors.EInvalidConfig, "limits.max_chars_per_doc must be positive")
	}
	if cfg.Limits.MaxExemplars < 0 || cfg.Limits.MaxExemplars > 2 {
		return errors.New(errors.EInvalidConfig, "limits.max_exemplars must be between 0 and 2")
	}
	if cfg.Limits.RequestsPerMinute <= 0 {
		return errors.New(errors.EInvalidConfig, "limits.requests_per_minute must be positive")
	}
	return nil
}
