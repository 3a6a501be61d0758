package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{
			name: "standard block",
			content: `---
name: Team Builder
description: Finds candidates for a project
user-invocable: false
---

# Team Builder
`,
			expected: map[string]string{
				"name":           "Team Builder",
				"description":    "Finds candidates for a project",
				"user-invocable": "false",
			},
		},
		{
			name:     "value with colon splits at first colon",
			content:  "---\nhomepage: https://example.com:8080/x\n---\n",
			expected: map[string]string{"homepage": "https://example.com:8080/x"},
		},
		{
			name:     "lines without colon skipped",
			content:  "---\nname: cv\njust text\n  tags :  a, b  \n---\nbody: ignored\n",
			expected: map[string]string{"name": "cv", "tags": "a, b"},
		},
		{
			name:     "no block",
			content:  "# Heading\n\nname: not metadata\n",
			expected: map[string]string{},
		},
		{
			name:     "block not at start",
			content:  "intro\n---\nname: x\n---\n",
			expected: map[string]string{},
		},
		{
			name:     "unterminated block",
			content:  "---\nname: x\n",
			expected: map[string]string{},
		},
		{
			name:     "empty",
			content:  "",
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFrontmatter(tt.content))
		})
	}
}

func TestMetadataFrom(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		meta := MetadataFrom("parse-cv", map[string]string{})
		assert.Equal(t, Metadata{Name: "parse-cv", DisplayName: "parse-cv", Description: "", UserInvocable: true}, meta)
	})

	t.Run("only literal false disables invocation", func(t *testing.T) {
		assert.False(t, MetadataFrom("x", map[string]string{"user-invocable": "false"}).UserInvocable)
		assert.True(t, MetadataFrom("x", map[string]string{"user-invocable": "no"}).UserInvocable)
		assert.True(t, MetadataFrom("x", map[string]string{"user-invocable": "False"}).UserInvocable)
	})

	t.Run("display name from manifest", func(t *testing.T) {
		meta := MetadataFrom("team-builder", map[string]string{"name": "Team Builder", "description": "d"})
		assert.Equal(t, "Team Builder", meta.DisplayName)
		assert.Equal(t, "d", meta.Description)
	})
}

func TestDefaultManifestRoundTrip(t *testing.T) {
	content := DefaultManifest("new-skill", "Does things")

	meta := MetadataFrom("new-skill", ParseFrontmatter(content))
	assert.Equal(t, "new-skill", meta.DisplayName)
	assert.Equal(t, "Does things", meta.Description)
	assert.True(t, meta.UserInvocable)
	assert.Contains(t, content, "# new-skill\n\nDescribe your skill instructions here.\n")
}
