package skills

import (
	"fmt"
	"regexp"
	"strings"
)

var frontmatterPattern = regexp.MustCompile(`^---\s*\n([\s\S]*?)\n---`)

// ParseFrontmatter extracts the key/value pairs of the leading "---" block of
// a manifest. Each line is split at its first colon; lines without one are
// skipped. Text without a leading block yields an empty map.
func ParseFrontmatter(content string) map[string]string {
	result := make(map[string]string)

	match := frontmatterPattern.FindStringSubmatch(content)
	if match == nil {
		return result
	}

	for _, line := range strings.Split(match[1], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		result[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return result
}

// MetadataFrom builds the listing entry for skill name from its parsed
// frontmatter, applying defaults for absent keys.
func MetadataFrom(name string, frontmatter map[string]string) Metadata {
	displayName := frontmatter["name"]
	if displayName == "" {
		displayName = name
	}

	return Metadata{
		Name:          name,
		DisplayName:   displayName,
		Description:   frontmatter["description"],
		UserInvocable: frontmatter["user-invocable"] != "false",
	}
}

// DefaultManifest renders the SKILL.md written when a skill is created.
func DefaultManifest(name, description string) string {
	return fmt.Sprintf(`---
name: %s
description: %s
user-invocable: true
---

# %s

Describe your skill instructions here.
`, name, description, name)
}
