package config

import (
	"os"
	"path/filepath"
	"testing"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(fs.NewRealFS(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Name != "partdoc" {
		t.Errorf("app.name = %q", cfg.App.Name)
	}
	if cfg.LLM.Provider != ProviderStub {
		t.Errorf("default provider = %q, want stub", cfg.LLM.Provider)
	}
	if cfg.Limits.MaxExemplars != 2 {
		t.Errorf("default max_exemplars = %d, want 2", cfg.Limits.MaxExemplars)
	}
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: partdoc
  default_model: gpt-4o-mini
llm:
  provider: openai
`)

	cfg, err := Load(fs.NewRealFS(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.DefaultModel != "gpt-4o-mini" {
		t.Errorf("default_model = %q", cfg.App.DefaultModel)
	}
	if cfg.LLM.Provider != ProviderOpenAI {
		t.Errorf("provider = %q", cfg.LLM.Provider)
	}
	// untouched sections keep defaults
	if cfg.Paths.Outputs != "var/runs" {
		t.Errorf("paths.outputs = %q, want default", cfg.Paths.Outputs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(fs.NewRealFS(), filepath.Join(t.TempDir(), "nope.yaml"))
	if errors.GetCode(err) != errors.ENoConfig {
		t.Errorf("expected E_NO_CONFIG, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "app: [not a mapping")
	_, err := Load(fs.NewRealFS(), path)
	if errors.GetCode(err) != errors.EInvalidConfig {
		t.Errorf("expected E_INVALID_CONFIG, got %v", err)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeConfig(t, "retriever:\n  kind: bm25\n")
	_, err := Load(fs.NewRealFS(), path)
	if errors.GetCode(err) != errors.EInvalidConfig {
		t.Errorf("expected E_INVALID_CONFIG for unknown field, got %v", err)
	}
}

func TestLoad_EnvProviderOverride(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: openai\n")
	t.Setenv(ProviderEnv, "stub")

	cfg, err := Load(fs.NewRealFS(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Provider != ProviderStub {
		t.Errorf("env override ignored: provider = %q", cfg.LLM.Provider)
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: anthropic\n")
	_, err := Load(fs.NewRealFS(), path)
	if errors.GetCode(err) != errors.EUnknownProvider {
		t.Errorf("expected E_UNKNOWN_PROVIDER, got %v", err)
	}
}

func TestValidate_Limits(t *testing.T) {
	cfg := Default()
	cfg.Limits.MaxTokens = 0
	if err := Validate(cfg); errors.GetCode(err) != errors.EInvalidConfig {
		t.Errorf("expected E_INVALID_CONFIG for zero max_tokens, got %v", err)
	}

	cfg = Default()
	cfg.Limits.MaxExemplars = 3
	if err := Validate(cfg); errors.GetCode(err) != errors.EInvalidConfig {
		t.Errorf("expected E_INVALID_CONFIG for max_exemplars > 2, got %v", err)
	}
}
