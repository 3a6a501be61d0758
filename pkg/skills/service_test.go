package skills

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mirrorCall struct {
	Op      string
	Path    string
	Content string
	Message string
}

type recordingMirror struct {
	calls []mirrorCall
	err   error
}

func (m *recordingMirror) Put(_ context.Context, path, content, message string) error {
	m.calls = append(m.calls, mirrorCall{Op: "put", Path: path, Content: content, Message: message})
	return m.err
}

func (m *recordingMirror) Delete(_ context.Context, path, message string) error {
	m.calls = append(m.calls, mirrorCall{Op: "delete", Path: path, Message: message})
	return m.err
}

func (m *recordingMirror) DeleteDirectory(_ context.Context, path, message string) error {
	m.calls = append(m.calls, mirrorCall{Op: "delete-dir", Path: path, Message: message})
	return m.err
}

func newTestService(t *testing.T) (*Service, *recordingMirror) {
	t.Helper()
	mirror := &recordingMirror{}
	svc, err := NewService(t.TempDir(), WithMirror(mirror))
	require.NoError(t, err)
	return svc, mirror
}

func writeSkillFile(t *testing.T, svc *Service, name, rel, content string) {
	t.Helper()
	full := filepath.Join(svc.Root(), name, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestNewService(t *testing.T) {
	_, err := NewService("")
	assert.Error(t, err)

	_, err = NewService(t.TempDir(), WithMirror(nil))
	assert.Error(t, err)

	_, err = NewService(t.TempDir(), WithManifestName("nested/SKILL.md"))
	assert.Error(t, err)

	svc, err := NewService(t.TempDir(), WithMirrorPrefix("/skills/tree/"))
	require.NoError(t, err)
	assert.Equal(t, "skills/tree/foo/SKILL.md", svc.mirrorPath("foo", "SKILL.md"))
	assert.True(t, filepath.IsAbs(svc.Root()))
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	writeSkillFile(t, svc, "team-builder", "SKILL.md", "---\nname: Team Builder\ndescription: Builds teams\nuser-invocable: false\n---\n")
	writeSkillFile(t, svc, "parse-cv", "notes.md", "no manifest here")
	writeSkillFile(t, svc, ".", "stray.txt", "not a skill")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byName := map[string]Metadata{}
	for _, m := range list {
		byName[m.Name] = m
	}

	assert.Equal(t, Metadata{Name: "team-builder", DisplayName: "Team Builder", Description: "Builds teams", UserInvocable: false}, byName["team-builder"])
	assert.Equal(t, Metadata{Name: "parse-cv", DisplayName: "parse-cv", Description: "", UserInvocable: true}, byName["parse-cv"])
}

func TestService_ListMissingRoot(t *testing.T) {
	svc, err := NewService(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	_, err = svc.List(context.Background())
	assert.Error(t, err)
}

func TestService_Tree(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	writeSkillFile(t, svc, "foo", "b.md", "bb")
	writeSkillFile(t, svc, "foo", "a.md", "a")
	writeSkillFile(t, svc, "foo", "scripts/run.ts", "run()")

	tree, err := svc.Tree(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.Equal(t, "a.md", tree[0].Path)
	assert.Equal(t, "b.md", tree[1].Path)
	assert.Equal(t, "scripts", tree[2].Path)
	assert.Equal(t, EntryTypeDir, tree[2].Type)
	require.Len(t, tree[2].Children, 1)
	assert.Equal(t, TreeEntry{Path: "scripts/run.ts", Type: EntryTypeFile, Size: 5}, tree[2].Children[0])

	_, err = svc.Tree(ctx, "missing")
	assert.ErrorIs(t, err, ErrSkillMissing)

	_, err = svc.Tree(ctx, "Bad_Name")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestService_WriteReadRoundTrip(t *testing.T) {
	svc, mirror := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.WriteFile(ctx, "foo", "docs/new.md", "hello"))

	content, err := svc.ReadFile(ctx, "foo", "docs/new.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	require.Len(t, mirror.calls, 1)
	assert.Equal(t, mirrorCall{
		Op:      "put",
		Path:    ".claude/skills/foo/docs/new.md",
		Content: "hello",
		Message: "Update foo/docs/new.md",
	}, mirror.calls[0])

	require.NoError(t, svc.WriteFile(ctx, "foo", "docs/new.md", "replaced"))
	content, err = svc.ReadFile(ctx, "foo", "docs/new.md")
	require.NoError(t, err)
	assert.Equal(t, "replaced", content)
}

func TestService_ReadFileMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ReadFile(context.Background(), "foo", "nope.md")
	assert.ErrorIs(t, err, ErrFileMissing)
}

func TestService_RejectsBeforeIO(t *testing.T) {
	svc, mirror := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		skill string
		rel   string
		err   error
	}{
		{"invalid name", "Foo", "a.md", ErrInvalidName},
		{"missing path", "foo", "", ErrMissingPath},
		{"traversal", "foo", "../../etc/passwd", ErrInvalidPath},
		{"absolute", "foo", "/etc/passwd", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReadFile(ctx, tt.skill, tt.rel)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, svc.WriteFile(ctx, tt.skill, tt.rel, "x"), tt.err)
			assert.ErrorIs(t, svc.DeleteFile(ctx, tt.skill, tt.rel), tt.err)
			assert.ErrorIs(t, svc.CreateDirectory(ctx, tt.skill, tt.rel), tt.err)
			assert.True(t, IsValidation(tt.err))
		})
	}

	assert.Empty(t, mirror.calls)
	entries, err := os.ReadDir(svc.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_MirrorFailureAbortsLocalWrite(t *testing.T) {
	svc, mirror := newTestService(t)
	mirror.err = errors.New("GitHub API error (422): sha mismatch")
	ctx := context.Background()

	err := svc.WriteFile(ctx, "foo", "a.md", "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GitHub API error (422)")

	_, err = os.Stat(filepath.Join(svc.Root(), "foo", "a.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestService_DeleteFile(t *testing.T) {
	svc, mirror := newTestService(t)
	ctx := context.Background()

	writeSkillFile(t, svc, "foo", "a.md", "x")
	require.NoError(t, svc.DeleteFile(ctx, "foo", "a.md"))

	_, err := os.Stat(filepath.Join(svc.Root(), "foo", "a.md"))
	assert.True(t, os.IsNotExist(err))
	require.Len(t, mirror.calls, 1)
	assert.Equal(t, mirrorCall{Op: "delete", Path: ".claude/skills/foo/a.md", Message: "Delete foo/a.md"}, mirror.calls[0])
}

func TestService_DeleteFileNeverCreated(t *testing.T) {
	svc, mirror := newTestService(t)

	err := svc.DeleteFile(context.Background(), "foo", "ghost.md")
	require.Error(t, err)
	assert.Len(t, mirror.calls, 1, "mirror delete runs before the local removal fails")
}

func TestService_DeleteFileRefusesDirectory(t *testing.T) {
	svc, _ := newTestService(t)
	dir := filepath.Join(svc.Root(), "demo", "scripts")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	err := svc.DeleteFile(context.Background(), "demo", "scripts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
	assert.DirExists(t, dir)
}

func TestService_Create(t *testing.T) {
	svc, mirror := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "new-skill", "Does things"))

	content, err := svc.ReadFile(ctx, "new-skill", "SKILL.md")
	require.NoError(t, err)
	assert.Equal(t, DefaultManifest("new-skill", "Does things"), content)

	require.Len(t, mirror.calls, 1)
	assert.Equal(t, "put", mirror.calls[0].Op)
	assert.Equal(t, ".claude/skills/new-skill/SKILL.md", mirror.calls[0].Path)
	assert.Equal(t, "Create skill new-skill", mirror.calls[0].Message)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Does things", list[0].Description)
	assert.True(t, list[0].UserInvocable)
}

func TestService_CreateExisting(t *testing.T) {
	svc, mirror := newTestService(t)
	ctx := context.Background()

	writeSkillFile(t, svc, "foo", "SKILL.md", "original")

	err := svc.Create(ctx, "foo", "again")
	assert.ErrorIs(t, err, ErrSkillExists)
	assert.Empty(t, mirror.calls)

	content, err := svc.ReadFile(ctx, "foo", "SKILL.md")
	require.NoError(t, err)
	assert.Equal(t, "original", content)
}

func TestService_CreateInvalidName(t *testing.T) {
	svc, mirror := newTestService(t)

	assert.ErrorIs(t, svc.Create(context.Background(), "New Skill", ""), ErrInvalidName)
	assert.Empty(t, mirror.calls)
}

func TestService_Delete(t *testing.T) {
	svc, mirror := newTestService(t)
	ctx := context.Background()

	writeSkillFile(t, svc, "foo", "SKILL.md", "x")
	writeSkillFile(t, svc, "foo", "scripts/run.ts", "y")

	require.NoError(t, svc.Delete(ctx, "foo"))

	_, err := os.Stat(filepath.Join(svc.Root(), "foo"))
	assert.True(t, os.IsNotExist(err))
	require.Len(t, mirror.calls, 1)
	assert.Equal(t, mirrorCall{Op: "delete-dir", Path: ".claude/skills/foo", Message: "Delete skill foo"}, mirror.calls[0])
}

func TestService_DeleteMissing(t *testing.T) {
	svc, mirror := newTestService(t)

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrSkillMissing)
	assert.Empty(t, mirror.calls)
}

func TestService_CreateDirectoryIsLocalOnly(t *testing.T) {
	svc, mirror := newTestService(t)

	require.NoError(t, svc.CreateDirectory(context.Background(), "foo", "assets/img"))

	info, err := os.Stat(filepath.Join(svc.Root(), "foo", "assets", "img"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Empty(t, mirror.calls)
}

func TestService_DisabledMirror(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "foo", ""))
	require.NoError(t, svc.WriteFile(ctx, "foo", "a.md", "a"))
	require.NoError(t, svc.DeleteFile(ctx, "foo", "a.md"))
	require.NoError(t, svc.Delete(ctx, "foo"))

	_, err = os.Stat(filepath.Join(svc.Root(), "foo"))
	assert.True(t, os.IsNotExist(err))
}
