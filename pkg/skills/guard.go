package skills

import (
	"path/filepath"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidName reports whether name is made only of lowercase letters, digits
// and hyphens.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// SafePath resolves rel inside the directory of skill name under root.
// An empty rel resolves to the skill directory itself. Any rel containing
// ".." or that is absolute is rejected, as is any result that is not the
// skill directory or below it.
//
// Symlinks are not resolved: a link inside a skill directory that points
// elsewhere is followed by later file operations.
func SafePath(root, name, rel string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}

	base := filepath.Join(root, name)
	if rel == "" {
		return base, nil
	}

	if strings.Contains(rel, "..") || filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", ErrInvalidPath
	}

	resolved := filepath.Join(base, rel)
	if resolved != base && !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}

	return resolved, nil
}
