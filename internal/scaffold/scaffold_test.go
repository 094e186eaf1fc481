package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"partdoc/internal/config"
	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

func TestInit_CreatesWorkspace(t *testing.T) {
	root := t.TempDir()

	created, err := Init(fs.NewRealFS(), root)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if len(created) != 9 {
		t.Errorf("created %d files, want 9: %v", len(created), created)
	}

	// the scaffolded config must load and validate
	cfg, err := config.Load(fs.NewRealFS(), filepath.Join(root, config.DefaultPath))
	if err != nil {
		t.Fatalf("scaffolded config invalid: %v", err)
	}
	if cfg.LLM.Provider != config.ProviderStub {
		t.Errorf("provider = %q, want stub", cfg.LLM.Provider)
	}

	// each corpus category is non-empty
	for _, cat := range []string{"templates", "exemplars", "style_rules", "glossary"} {
		entries, err := os.ReadDir(filepath.Join(root, "assets/corpus", cat))
		if err != nil || len(entries) == 0 {
			t.Errorf("corpus category %s empty or missing: %v", cat, err)
		}
	}

	// the prompt template carries every placeholder the packer recognizes
	data, err := os.ReadFile(filepath.Join(root, "configs/prompts/part_description.md"))
	if err != nil {
		t.Fatal(err)
	}
	for _, ph := range []string{"{request}", "{facts}", "{approved_defaults}", "{context}"} {
		if !strings.Contains(string(data), ph) {
			t.Errorf("prompt template missing placeholder %s", ph)
		}
	}
}

func TestInit_RefusesExistingConfig(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(fs.NewRealFS(), root); err != nil {
		t.Fatal(err)
	}

	_, err := Init(fs.NewRealFS(), root)
	if errors.GetCode(err) != errors.EConfigExists {
		t.Errorf("code = %v, want E_CONFIG_EXISTS", errors.GetCode(err))
	}
}

func TestInit_KeepsExistingSeedFiles(t *testing.T) {
	root := t.TempDir()
	custom := filepath.Join(root, "assets/corpus/glossary/terms.md")
	if err := os.MkdirAll(filepath.Dir(custom), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(custom, []byte("my glossary"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Init(fs.NewRealFS(), root); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	data, err := os.ReadFile(custom)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "my glossary" {
		t.Errorf("existing file overwritten: %q", data)
	}
}
