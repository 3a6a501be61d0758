// Package skills manages the on-disk skill tree. A skill is a directory
// named after the skill containing a SKILL.md manifest with a small
// key/value frontmatter block plus arbitrary scripts and reference files.
// Every mutation is mirrored to a remote store before the local write.
package skills

import "encoding/json"

const (
	// DefaultManifestName is the manifest file at the root of each skill
	DefaultManifestName = "SKILL.md"
	// DefaultMirrorPrefix is the directory in the mirror repository that
	// holds the skill tree
	DefaultMirrorPrefix = ".claude/skills"

	// EntryTypeFile marks a file leaf in a skill tree
	EntryTypeFile = "file"
	// EntryTypeDir marks a directory node in a skill tree
	EntryTypeDir = "dir"
)

// Metadata is the listing view of a skill derived from its manifest
type Metadata struct {
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	Description   string `json:"description"`
	UserInvocable bool   `json:"userInvocable"`
}

// TreeEntry is one node of a skill's file tree. Path is relative to the
// skill directory and always uses forward slashes.
type TreeEntry struct {
	Path     string
	Type     string
	Size     int64
	Children []TreeEntry
}

// MarshalJSON emits {path,type,size} for files and {path,type,children}
// for directories, with an empty children array for empty directories.
func (e TreeEntry) MarshalJSON() ([]byte, error) {
	if e.Type == EntryTypeDir {
		children := e.Children
		if children == nil {
			children = []TreeEntry{}
		}
		return json.Marshal(struct {
			Path     string      `json:"path"`
			Type     string      `json:"type"`
			Children []TreeEntry `json:"children"`
		}{e.Path, e.Type, children})
	}
	return json.Marshal(struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	}{e.Path, e.Type, e.Size})
}
