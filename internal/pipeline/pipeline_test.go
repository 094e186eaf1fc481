package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"partdoc/internal/config"
	"partdoc/internal/errors"
	"partdoc/internal/fs"
	"partdoc/internal/llm"
	"partdoc/internal/store"
)

// fakeProvider returns canned outputs and counts calls.
type fakeProvider struct {
	outputs []string
	calls   int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, _ string) (string, error) {
	idx := f.calls
	if idx >= len(f.outputs) {
		idx = len(f.outputs) - 1
	}
	f.calls++
	return f.outputs[idx], nil
}

const goodOutput = `## Overview
A housing for a vibration-prone environment.

## Materials & tolerances
6061-T6 aluminum with ±0.05 mm on the mounting interface.

## Vibration reliability practices
- Use blue threadlocker on screws.
- Apply anti-seize on aluminum interfaces.
- Torque M5 socket head cap screws to 4.5 N·m.
`

const badOutput = `## Overview
Something vague.

## Materials & tolerances
No concrete values here.

## Vibration reliability practices
Be careful.
`

const testTemplate = `Write a part description.

REQUEST:
{request}

FACTS:
{facts}

APPROVED DEFAULTS:
{approved_defaults}

CONTEXT:
{context}
`

// testWorkspace lays out a corpus, a prompt template, and an input file
// under a temp dir and returns a matching config.
func testWorkspace(t *testing.T, inputContent string) (config.Config, string) {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"assets/corpus/templates/part_description.md": "Structure: Overview, Materials & tolerances, Vibration reliability practices.",
		"assets/corpus/exemplars/bracket.md":           "Material: 6061-T6 aluminum. Mounting face flatness ±0.05 mm.",
		"assets/corpus/exemplars/housing.md":           "Use blue threadlocker; torque M5 socket head cap screws to 4.5 N·m. Apply anti-seize.",
		"assets/corpus/style_rules/tone.md":            "No marketing language.",
		"assets/corpus/glossary/terms.md":              "threadlocker: adhesive for fasteners.",
		"configs/prompts/part_description.md":          testTemplate,
		"widget_housing.txt":                           inputContent,
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.Paths.Corpus = filepath.Join(root, "assets/corpus")
	cfg.Paths.Outputs = filepath.Join(root, "var/runs")
	cfg.Paths.PromptTemplate = filepath.Join(root, "configs/prompts/part_description.md")
	return cfg, filepath.Join(root, "widget_housing.txt")
}

func newPipeline(cfg config.Config, provider llm.Provider) *Pipeline {
	return New(fs.NewRealFS(), cfg, provider, zap.NewNop(), time.Now)
}

func TestRun_PassFirstAttempt(t *testing.T) {
	cfg, inputPath := testWorkspace(t, "widget housing for vibration-prone environment")
	provider := &fakeProvider{outputs: []string{goodOutput}}
	p := newPipeline(cfg, provider)

	res, err := p.Run(context.Background(), inputPath)
	require.NoError(t, err)

	assert.Equal(t, store.StatusValidated, res.Status)
	assert.Equal(t, 1, res.Attempts)
	assert.False(t, res.RetryUsed)
	assert.Equal(t, 1, provider.calls)
	assert.True(t, res.Validation.OK)

	for _, name := range []string{
		"input.txt", "ir.json", "ir_summary.txt", "retrieved.json",
		"prompt.txt", "generation.json", "output.md", "output.html",
		"events.jsonl", "meta.json",
	} {
		_, err := os.Stat(filepath.Join(res.RunDir, name))
		assert.NoError(t, err, "artifact %s", name)
	}
	_, err = os.Stat(filepath.Join(res.RunDir, store.FileRetryPrompt))
	assert.True(t, os.IsNotExist(err), "no retry prompt on first-attempt pass")

	// prompt carries the substituted blocks
	promptText, err := os.ReadFile(filepath.Join(res.RunDir, "prompt.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(promptText), "widget housing for vibration-prone environment")
	assert.Contains(t, string(promptText), "### EXEMPLAR:")
	assert.Contains(t, string(promptText), "### TEMPLATE:")
	assert.NotContains(t, string(promptText), "{request}")
}

func TestRun_RetryOnceThenPass(t *testing.T) {
	cfg, inputPath := testWorkspace(t, "widget housing")
	provider := &fakeProvider{outputs: []string{badOutput, goodOutput}}
	p := newPipeline(cfg, provider)

	res, err := p.Run(context.Background(), inputPath)
	require.NoError(t, err)

	assert.Equal(t, store.StatusValidated, res.Status)
	assert.Equal(t, 2, res.Attempts)
	assert.True(t, res.RetryUsed)
	assert.Equal(t, 2, provider.calls)

	retryPrompt, err := os.ReadFile(filepath.Join(res.RunDir, store.FileRetryPrompt))
	require.NoError(t, err)
	assert.Contains(t, string(retryPrompt), "CORRECTION REQUIRED:")
	assert.Contains(t, string(retryPrompt), "6061-T6")

	output, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(output), "6061-T6")
}

func TestRun_SecondResultAcceptedUnconditionally(t *testing.T) {
	cfg, inputPath := testWorkspace(t, "widget housing")
	provider := &fakeProvider{outputs: []string{badOutput, badOutput}}
	p := newPipeline(cfg, provider)

	res, err := p.Run(context.Background(), inputPath)
	require.NoError(t, err)

	// never a third call, and the failed outcome is persisted as data
	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, store.StatusValidationFailed, res.Status)
	assert.False(t, res.Validation.OK)

	var genLog struct {
		Attempts   int  `json:"attempts"`
		RetryUsed  bool `json:"retry_used"`
		Validation struct {
			OK      bool              `json:"ok"`
			Missing []json.RawMessage `json:"missing"`
		} `json:"validation"`
	}
	data, err := os.ReadFile(filepath.Join(res.RunDir, store.FileGeneration))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &genLog))
	assert.Equal(t, 2, genLog.Attempts)
	assert.True(t, genLog.RetryUsed)
	assert.False(t, genLog.Validation.OK)
	assert.NotEmpty(t, genLog.Validation.Missing)
}

func TestRun_MissingCorpusCategoryMakesZeroCalls(t *testing.T) {
	cfg, inputPath := testWorkspace(t, "widget housing")
	require.NoError(t, os.RemoveAll(filepath.Join(cfg.Paths.Corpus, "exemplars")))

	provider := &fakeProvider{outputs: []string{goodOutput}}
	p := newPipeline(cfg, provider)

	_, err := p.Run(context.Background(), inputPath)
	require.Error(t, err)
	assert.Equal(t, errors.EMissingCorpusCategory, errors.GetCode(err))
	assert.Equal(t, 0, provider.calls)

	// the failed run is still discoverable with its error code
	st := store.NewStore(fs.NewRealFS(), cfg.Paths.Outputs, time.Now)
	records, err := st.ScanRuns()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Meta)
	assert.Equal(t, store.StatusFailed, records[0].Meta.Status)
	assert.Equal(t, "E_MISSING_CORPUS_CATEGORY", records[0].Meta.ErrorCode)
}

func TestRun_InputNotFound(t *testing.T) {
	cfg, _ := testWorkspace(t, "x")
	p := newPipeline(cfg, &fakeProvider{outputs: []string{goodOutput}})

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Equal(t, errors.EInputNotFound, errors.GetCode(err))
}

func TestRun_StubProviderEndToEnd(t *testing.T) {
	cfg, inputPath := testWorkspace(t, "widget housing for vibration-prone environment")
	p := newPipeline(cfg, llm.NewStub(cfg.App.DefaultModel))

	res, err := p.Run(context.Background(), inputPath)
	require.NoError(t, err)

	// the stub echoes the sample corpus defaults, so validation passes
	assert.Equal(t, store.StatusValidated, res.Status)
	assert.Equal(t, 1, res.Attempts)

	output, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(output), "6061-T6")
	assert.Contains(t, string(output), "threadlocker")
}

func TestRun_StubIsIdempotent(t *testing.T) {
	cfg, inputPath := testWorkspace(t, "widget housing for vibration-prone environment")
	p := newPipeline(cfg, llm.NewStub(cfg.App.DefaultModel))

	first, err := p.Run(context.Background(), inputPath)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), inputPath)
	require.NoError(t, err)
	require.NotEqual(t, first.RunDir, second.RunDir)

	a, err := os.ReadFile(first.OutputPath)
	require.NoError(t, err)
	b, err := os.ReadFile(second.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same input and corpus must produce byte-identical output")
}

func TestRun_MetaAndDigests(t *testing.T) {
	cfg, inputPath := testWorkspace(t, "widget housing")
	p := newPipeline(cfg, &fakeProvider{outputs: []string{goodOutput}})

	res, err := p.Run(context.Background(), inputPath)
	require.NoError(t, err)

	st := store.NewStore(fs.NewRealFS(), cfg.Paths.Outputs, time.Now)
	meta, err := st.ReadMeta(res.RunID)
	require.NoError(t, err)

	assert.Equal(t, store.MetaSchemaVersion, meta.SchemaVersion)
	assert.Equal(t, res.RunID, meta.RunID)
	assert.Equal(t, "fake", meta.Provider)
	assert.True(t, meta.Validation.OK)
	assert.True(t, strings.HasSuffix(meta.Input.SnapshotFile, ".txt"))

	for _, name := range []string{"ir.json", "retrieved.json", "prompt.txt", "output.md"} {
		d, present := meta.Artifacts[name]
		assert.True(t, present, "digest for %s", name)
		assert.Len(t, d, 64, "sha256 hex for %s", name)
	}
	_, present := meta.Artifacts["meta.json"]
	assert.False(t, present, "meta.json must not digest itself")
}

func TestRun_EventsTrail(t *testing.T) {
	cfg, inputPath := testWorkspace(t, "widget housing")
	p := newPipeline(cfg, &fakeProvider{outputs: []string{badOutput, goodOutput}})

	res, err := p.Run(context.Background(), inputPath)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(res.RunDir, "events.jsonl"))
	require.NoError(t, err)

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var e struct {
			Event string `json:"event"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		names = append(names, e.Event)
	}
	assert.Equal(t, []string{
		"run_started", "input_snapshotted", "ir_extracted", "corpus_retrieved",
		"prompt_packed", "generation_done", "validation_done",
		"retry_started", "generation_done", "validation_done", "run_finished",
	}, names)
}

func TestRun_NXScriptInput(t *testing.T) {
	script := `import NXOpen
# Part: Widget Housing
part.PartUnits = NXOpen.BasePart.Units.Millimeters
builder = part.Features.CreateHoleBuilder(None)
`
	cfg, _ := testWorkspace(t, "unused")
	scriptPath := filepath.Join(filepath.Dir(cfg.Paths.Corpus), "..", "export.py")
	scriptPath = filepath.Clean(scriptPath)
	require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0o644))

	p := newPipeline(cfg, &fakeProvider{outputs: []string{goodOutput}})
	res, err := p.Run(context.Background(), scriptPath)
	require.NoError(t, err)

	// snapshot keeps the source extension
	_, err = os.Stat(filepath.Join(res.RunDir, "input.py"))
	assert.NoError(t, err)

	irData, err := os.ReadFile(filepath.Join(res.RunDir, "ir.json"))
	require.NoError(t, err)
	assert.Contains(t, string(irData), `"nxopen_python"`)
	assert.Contains(t, string(irData), "Widget Housing")
}
