package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsys/hrassist/pkg/skills"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var output, errorOutput bytes.Buffer
	return NewWithOptions(&output, &errorOutput, ColorNever), &output, &errorOutput
}

func TestNew(t *testing.T) {
	p := New()
	assert.Equal(t, os.Stdout, p.output)
	assert.Equal(t, os.Stderr, p.errorOutput)
	assert.False(t, p.quiet)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		hrColor  string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "always", ColorNever},
		{"always", "", "always", ColorAlways},
		{"force", "", "force", ColorAlways},
		{"never", "", "never", ColorNever},
		{"off", "", "off", ColorNever},
		{"default", "", "", ColorAuto},
		{"unknown", "", "rainbow", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("HRASSIST_COLOR", tt.hrColor)
			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	p, _, errorOutput := newTestPresenter()

	p.Error(errors.New("boom"), "creating skill")
	assert.Equal(t, "[ERROR] creating skill: boom\n", errorOutput.String())

	errorOutput.Reset()
	p.Error(errors.New("boom"), "")
	assert.Equal(t, "[ERROR] boom\n", errorOutput.String())

	errorOutput.Reset()
	p.Error(nil, "ignored")
	assert.Empty(t, errorOutput.String())
}

func TestStatusLines(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Success("created")
	p.Warning("mirror disabled")
	p.Info("plain")
	p.Section("Skills")

	assert.Equal(t, "✓ created\n⚠ mirror disabled\nplain\nSkills\n------\n", output.String())
}

func TestQuietMode(t *testing.T) {
	p, output, errorOutput := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("a")
	p.Warning("b")
	p.Info("c")
	p.Section("d")
	assert.Empty(t, output.String())

	require.NoError(t, p.JSON(map[string]int{"n": 1}))
	assert.NotEmpty(t, output.String())

	p.Error(errors.New("still shown"), "")
	assert.Contains(t, errorOutput.String(), "still shown")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p, output, _ := newTestPresenter()
			p.SetInput(strings.NewReader(tt.input))
			assert.Equal(t, tt.expected, p.Confirm("Delete skill foo?"))
			assert.Equal(t, "Delete skill foo? [y/N]: ", output.String())
		})
	}
}

func TestTable(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Table([]string{"NAME", "DESCRIPTION"}, [][]string{
		{"team-builder", "Build teams"},
		{"cv", ""},
	})

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME          DESCRIPTION", lines[0])
	assert.Equal(t, "team-builder  Build teams", lines[1])
	assert.Equal(t, "cv", strings.TrimRight(lines[2], " "))
}

func TestTree(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Tree("foo", []skills.TreeEntry{
		{Path: "SKILL.md", Type: skills.EntryTypeFile, Size: 12},
		{Path: "scripts", Type: skills.EntryTypeDir, Children: []skills.TreeEntry{
			{Path: "scripts/run.ts", Type: skills.EntryTypeFile, Size: 3},
		}},
	})

	assert.Equal(t, "foo/\n  SKILL.md (12 bytes)\n  scripts/\n    run.ts (3 bytes)\n", output.String())
}

func TestJSON(t *testing.T) {
	p, output, _ := newTestPresenter()

	require.NoError(t, p.JSON(map[string]any{"ok": true}))
	assert.Equal(t, "{\n  \"ok\": true\n}\n", output.String())
}

func TestGlobalFunctions(t *testing.T) {
	original := defaultPresenter
	t.Cleanup(func() { defaultPresenter = original })

	p, output, errorOutput := newTestPresenter()
	defaultPresenter = p

	Error(errors.New("bad"), "ctx")
	Success("ok")
	Stream("partial")
	assert.Contains(t, errorOutput.String(), "[ERROR] ctx: bad")
	assert.Equal(t, "✓ ok\npartial", output.String())

	SetQuiet(true)
	assert.True(t, IsQuiet())
}
