package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

// initWorkspace scaffolds a workspace in a temp dir and chdirs into it,
// since config paths resolve relative to the working directory.
func initWorkspace(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)

	var out strings.Builder
	require.NoError(t, Init(fs.NewRealFS(), InitOpts{}, &out))
}

func TestInitAndDoctor(t *testing.T) {
	initWorkspace(t)

	var out strings.Builder
	err := Doctor(fs.NewRealFS(), DoctorOpts{}, &out)
	require.NoError(t, err)

	for _, want := range []string{
		"config: ok",
		"prompt_template: ok",
		"corpus/templates: ok",
		"corpus/exemplars: ok",
		"corpus/style_rules: ok",
		"corpus/glossary: ok",
		"provider: ok",
	} {
		assert.Contains(t, out.String(), want)
	}
}

func TestInit_Twice(t *testing.T) {
	initWorkspace(t)

	var out strings.Builder
	err := Init(fs.NewRealFS(), InitOpts{}, &out)
	assert.Equal(t, errors.EConfigExists, errors.GetCode(err))
}

func TestDoctor_MissingCategory(t *testing.T) {
	initWorkspace(t)
	require.NoError(t, os.RemoveAll("assets/corpus/exemplars"))

	var out strings.Builder
	err := Doctor(fs.NewRealFS(), DoctorOpts{}, &out)
	assert.Equal(t, errors.EMissingCorpusCategory, errors.GetCode(err))
	assert.Contains(t, out.String(), "corpus/exemplars: FAIL")
}

func TestDoctor_HostedProviderMissingKey(t *testing.T) {
	initWorkspace(t)
	t.Setenv("PARTDOC_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	var out strings.Builder
	err := Doctor(fs.NewRealFS(), DoctorOpts{}, &out)
	assert.Equal(t, errors.EProviderUnavailable, errors.GetCode(err))
}

func TestRun_EndToEnd(t *testing.T) {
	initWorkspace(t)

	var out strings.Builder
	err := Run(context.Background(), fs.NewRealFS(), zap.NewNop(),
		RunOpts{Input: "assets/samples/widget_housing.txt"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "validated")
	assert.Contains(t, out.String(), "wrote run artifacts to:")

	entries, err := os.ReadDir("var/runs")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = os.Stat(filepath.Join("var/runs", entries[0].Name(), "output.md"))
	assert.NoError(t, err)
}

func TestRun_MissingInput(t *testing.T) {
	initWorkspace(t)

	var out strings.Builder
	err := Run(context.Background(), fs.NewRealFS(), zap.NewNop(),
		RunOpts{Input: "nope.txt"}, &out)
	assert.Equal(t, errors.EInputNotFound, errors.GetCode(err))
}

func TestRun_NoConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	var out strings.Builder
	err := Run(context.Background(), fs.NewRealFS(), zap.NewNop(),
		RunOpts{Input: "x.txt"}, &out)
	assert.Equal(t, errors.ENoConfig, errors.GetCode(err))
}

func TestLsShowClean_Lifecycle(t *testing.T) {
	initWorkspace(t)

	var runOut strings.Builder
	require.NoError(t, Run(context.Background(), fs.NewRealFS(), zap.NewNop(),
		RunOpts{Input: "assets/samples/widget_housing.txt"}, &runOut))

	entries, err := os.ReadDir("var/runs")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	runID := entries[0].Name()

	// ls lists the run
	var lsOut strings.Builder
	require.NoError(t, Ls(fs.NewRealFS(), LsOpts{}, &lsOut))
	assert.Contains(t, lsOut.String(), runID)
	assert.Contains(t, lsOut.String(), "validated")

	// show resolves the full id and a unique prefix
	var showOut strings.Builder
	require.NoError(t, Show(fs.NewRealFS(), ShowOpts{RunID: runID}, &showOut))
	assert.Contains(t, showOut.String(), "validation:  pass")
	assert.Contains(t, showOut.String(), "output.md")

	showOut.Reset()
	require.NoError(t, Show(fs.NewRealFS(), ShowOpts{RunID: runID[:len(runID)-3]}, &showOut))
	assert.Contains(t, showOut.String(), runID)

	// clean deletes it
	var cleanOut strings.Builder
	require.NoError(t, Clean(fs.NewRealFS(), CleanOpts{RunID: runID}, &cleanOut))
	assert.Contains(t, cleanOut.String(), "deleted "+runID)
	_, err = os.Stat(filepath.Join("var/runs", runID))
	assert.True(t, os.IsNotExist(err))
}

func TestJSONOutput(t *testing.T) {
	initWorkspace(t)

	var runOut strings.Builder
	require.NoError(t, Run(context.Background(), fs.NewRealFS(), zap.NewNop(),
		RunOpts{Input: "assets/samples/widget_housing.txt", JSON: true}, &runOut))

	var res struct {
		RunID      string `json:"run_id"`
		Status     string `json:"status"`
		Attempts   int    `json:"attempts"`
		Validation struct {
			OK      bool     `json:"ok"`
			Missing []string `json:"missing"`
		} `json:"validation"`
	}
	require.NoError(t, json.Unmarshal([]byte(runOut.String()), &res))
	assert.Equal(t, "validated", res.Status)
	assert.Equal(t, 1, res.Attempts)
	assert.True(t, res.Validation.OK)
	assert.Empty(t, res.Validation.Missing)

	var lsOut strings.Builder
	require.NoError(t, Ls(fs.NewRealFS(), LsOpts{JSON: true}, &lsOut))
	var entries []struct {
		RunID  string `json:"run_id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(lsOut.String()), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, res.RunID, entries[0].RunID)
	assert.Equal(t, "validated", entries[0].Status)

	var showOut strings.Builder
	require.NoError(t, Show(fs.NewRealFS(), ShowOpts{RunID: res.RunID, JSON: true}, &showOut))
	var shown struct {
		RunID     string   `json:"run_id"`
		Broken    bool     `json:"broken"`
		Artifacts []string `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal([]byte(showOut.String()), &shown))
	assert.Equal(t, res.RunID, shown.RunID)
	assert.False(t, shown.Broken)
	assert.Contains(t, shown.Artifacts, "output.md")
}

func TestRun_ProviderOverride(t *testing.T) {
	initWorkspace(t)

	// An override to a hosted provider without its key must fail before
	// any pipeline work happens.
	var out strings.Builder
	t.Setenv("OPENAI_API_KEY", "")
	err := Run(context.Background(), fs.NewRealFS(), zap.NewNop(),
		RunOpts{Input: "assets/samples/widget_housing.txt", Provider: "openai"}, &out)
	assert.Equal(t, errors.EProviderUnavailable, errors.GetCode(err))
}

func TestShow_NotFound(t *testing.T) {
	initWorkspace(t)

	var out strings.Builder
	err := Show(fs.NewRealFS(), ShowOpts{RunID: "zzz"}, &out)
	assert.Equal(t, errors.ERunNotFound, errors.GetCode(err))

	err = Show(fs.NewRealFS(), ShowOpts{}, &out)
	assert.Equal(t, errors.EUsage, errors.GetCode(err))
}

func TestShow_BrokenRun(t *testing.T) {
	initWorkspace(t)
	require.NoError(t, os.MkdirAll("var/runs/20260823T120000Z_broken", 0o755))

	var out strings.Builder
	require.NoError(t, Show(fs.NewRealFS(), ShowOpts{RunID: "20260823T120000Z_broken"}, &out))
	assert.Contains(t, out.String(), "<broken>")
}

func TestClean_Usage(t *testing.T) {
	initWorkspace(t)

	var out strings.Builder
	err := Clean(fs.NewRealFS(), CleanOpts{}, &out)
	assert.Equal(t, errors.EUsage, errors.GetCode(err))

	err = Clean(fs.NewRealFS(), CleanOpts{All: true}, &out)
	assert.Equal(t, errors.EUsage, errors.GetCode(err))

	err = Clean(fs.NewRealFS(), CleanOpts{RunID: "x", All: true, Force: true}, &out)
	assert.Equal(t, errors.EUsage, errors.GetCode(err))
}

func TestClean_All(t *testing.T) {
	initWorkspace(t)

	for _, input := range []string{"assets/samples/widget_housing.txt", "assets/samples/nxopen_export.py"} {
		var out strings.Builder
		require.NoError(t, Run(context.Background(), fs.NewRealFS(), zap.NewNop(),
			RunOpts{Input: input}, &out))
	}

	var out strings.Builder
	require.NoError(t, Clean(fs.NewRealFS(), CleanOpts{All: true, Force: true}, &out))
	assert.Contains(t, out.String(), "deleted 2 runs")

	entries, err := os.ReadDir("var/runs")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBatch(t *testing.T) {
	initWorkspace(t)
	require.NoError(t, os.MkdirAll("inbox", 0o755))
	require.NoError(t, os.WriteFile("inbox/a_bracket.txt", []byte("bracket request"), 0o644))
	require.NoError(t, os.WriteFile("inbox/b_housing.txt", []byte("housing request"), 0o644))

	var out strings.Builder
	err := Batch(context.Background(), fs.NewRealFS(), zap.NewNop(),
		BatchOpts{InputsDir: "inbox"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "batch complete: 2 inputs, 0 failed")

	entries, err := os.ReadDir("var/runs")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBatch_EmptyDir(t *testing.T) {
	initWorkspace(t)
	require.NoError(t, os.MkdirAll("inbox", 0o755))

	var out strings.Builder
	err := Batch(context.Background(), fs.NewRealFS(), zap.NewNop(),
		BatchOpts{InputsDir: "inbox"}, &out)
	assert.Equal(t, errors.EInputNotFound, errors.GetCode(err))
}
