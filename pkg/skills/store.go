package skills

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// Local file operations. Reads and writes of a single path take an advisory
// file lock so two writers of the same file cannot interleave their bytes.

func readLocal(path string) ([]byte, error) {
	return lockedfile.Read(path)
}

func writeLocal(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create parent directory")
	}
	if err := lockedfile.Write(path, bytes.NewReader(content), 0o644); err != nil {
		return errors.Wrap(err, "failed to write file")
	}
	return nil
}

// removeLocal unlinks a file. Directories, empty or not, are refused.
func removeLocal(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.Wrap(err, "failed to delete file")
	}
	if info.IsDir() {
		return errors.Errorf("failed to delete file: %s is a directory", filepath.Base(path))
	}
	if err := os.Remove(path); err != nil {
		return errors.Wrap(err, "failed to delete file")
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
