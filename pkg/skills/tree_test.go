package skills

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("bee"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a longer file"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "run.ts"), []byte("console.log(1)\n"), 0o644))

	tree, err := BuildTree(dir)
	require.NoError(t, err)

	expected := []TreeEntry{
		{Path: "a.md", Type: EntryTypeFile, Size: int64(len("a longer file"))},
		{Path: "b.md", Type: EntryTypeFile, Size: 3},
		{Path: "scripts", Type: EntryTypeDir, Children: []TreeEntry{
			{Path: "scripts/run.ts", Type: EntryTypeFile, Size: int64(len("console.log(1)\n"))},
		}},
	}
	assert.Equal(t, expected, tree)
}

func TestBuildTree_CaseInsensitiveOrdering(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Beta.md", "charlie.md", "alpha.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	tree, err := BuildTree(dir)
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.Equal(t, "alpha.md", tree[0].Path)
	assert.Equal(t, "Beta.md", tree[1].Path)
	assert.Equal(t, "charlie.md", tree[2].Path)
}

func TestBuildTree_MissingDirectory(t *testing.T) {
	_, err := BuildTree(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestTreeEntry_MarshalJSON(t *testing.T) {
	entries := []TreeEntry{
		{Path: "empty.md", Type: EntryTypeFile, Size: 0},
		{Path: "docs", Type: EntryTypeDir},
	}

	data, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"path":"empty.md","type":"file","size":0},
		{"path":"docs","type":"dir","children":[]}
	]`, string(data))
}
