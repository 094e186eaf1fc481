package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partdoc/internal/errors"
	"partdoc/internal/fs"
)

func TestPack_SubstitutesAllPlaceholders(t *testing.T) {
	template := "REQ: {request}\nFACTS:\n{facts}\nDEFAULTS:\n{approved_defaults}\nCTX:\n{context}\n"
	out := Pack(template, Inputs{
		Request:          "  widget housing  ",
		Facts:            "Part name: widget",
		ApprovedDefaults: "### EXEMPLAR: a.md",
		Context:          "### TEMPLATE: t.md",
	})

	assert.Contains(t, out, "REQ: widget housing")
	assert.Contains(t, out, "Part name: widget")
	assert.Contains(t, out, "### EXEMPLAR: a.md")
	assert.Contains(t, out, "### TEMPLATE: t.md")
	assert.NotContains(t, out, "{request}")
	assert.NotContains(t, out, "{facts}")
}

func TestPack_IRJSONVariant(t *testing.T) {
	out := Pack("IR:\n{ir_json}\n", Inputs{IRJSON: `{"ir_version":"v1"}`})
	assert.Contains(t, out, `{"ir_version":"v1"}`)
}

func TestPack_VerbatimNoEscaping(t *testing.T) {
	out := Pack("{request}", Inputs{Request: "use <angle> & {braces}"})
	assert.Equal(t, "use <angle> & {braces}", out)
}

func TestSanitize(t *testing.T) {
	got := Sanitize("a  \nb\t\n  c\n")
	assert.Equal(t, "a\nb\n  c\n", got)
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part_description.md")
	require.NoError(t, os.WriteFile(path, []byte("hello {request}"), 0o644))

	got, err := LoadTemplate(fs.NewRealFS(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello {request}", got)

	_, err = LoadTemplate(fs.NewRealFS(), filepath.Join(dir, "nope.md"))
	require.Error(t, err)
	assert.Equal(t, errors.ETemplateNotFound, errors.GetCode(err))
}

func TestRepair(t *testing.T) {
	got := Repair("PACKED", []string{"material from exemplars (e.g., 6061-T6)", "explicit tolerance from exemplars (e.g., ±0.05 mm)"})

	assert.True(t, strings.HasPrefix(got, "PACKED\n\n---\n\n"))
	assert.Contains(t, got, "CORRECTION REQUIRED:")
	assert.Contains(t, got, "* material from exemplars (e.g., 6061-T6)")
	assert.Contains(t, got, "* explicit tolerance from exemplars (e.g., ±0.05 mm)")
	assert.Contains(t, got, "Keep exactly 3 sections")
}
