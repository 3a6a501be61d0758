package skills

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// BuildTree lists dir recursively. Entries of each level are ordered by name
// using locale-aware collation; paths are relative to dir.
func BuildTree(dir string) ([]TreeEntry, error) {
	col := collate.New(language.Und)
	return buildTree(col, dir, dir)
}

func buildTree(col *collate.Collator, dirPath, relativeTo string) ([]TreeEntry, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read directory %s", dirPath)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return col.CompareString(entries[i].Name(), entries[j].Name()) < 0
	})

	result := make([]TreeEntry, 0, len(entries))
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())
		relPath, err := filepath.Rel(relativeTo, fullPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute relative path")
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			children, err := buildTree(col, fullPath, relativeTo)
			if err != nil {
				return nil, err
			}
			result = append(result, TreeEntry{Path: relPath, Type: EntryTypeDir, Children: children})
			continue
		}

		info, err := os.Stat(fullPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", fullPath)
		}
		result = append(result, TreeEntry{Path: relPath, Type: EntryTypeFile, Size: info.Size()})
	}

	return result, nil
}
