package skills

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/skillsys/hrassist/pkg/logger"
)

// Mirror is the remote copy of the skill tree. Paths are slash-separated and
// relative to the mirror repository root. A disabled mirror returns nil from
// every call.
type Mirror interface {
	Put(ctx context.Context, path, content, message string) error
	Delete(ctx context.Context, path, message string) error
	DeleteDirectory(ctx context.Context, path, message string) error
}

type noopMirror struct{}

func (noopMirror) Put(context.Context, string, string, string) error     { return nil }
func (noopMirror) Delete(context.Context, string, string) error          { return nil }
func (noopMirror) DeleteDirectory(context.Context, string, string) error { return nil }

// Service implements skill authoring on top of the local tree and a mirror.
// Mutations validate first, then call the mirror, then touch the local
// tree. A mirror failure aborts before the local step; a local failure after
// a successful mirror call leaves the two stores out of step.
type Service struct {
	root         string
	manifestName string
	mirrorPrefix string
	mirror       Mirror
}

// Option configures a Service
type Option func(*Service) error

// WithMirror sets the remote mirror. Without it mutations are local only.
func WithMirror(m Mirror) Option {
	return func(s *Service) error {
		if m == nil {
			return errors.New("mirror cannot be nil")
		}
		s.mirror = m
		return nil
	}
}

// WithManifestName overrides the manifest file name
func WithManifestName(name string) Option {
	return func(s *Service) error {
		if name == "" || filepath.Base(name) != name {
			return errors.Errorf("invalid manifest name %q", name)
		}
		s.manifestName = name
		return nil
	}
}

// WithMirrorPrefix sets the directory of the skill tree inside the mirror
func WithMirrorPrefix(prefix string) Option {
	return func(s *Service) error {
		s.mirrorPrefix = path.Clean("/" + filepath.ToSlash(prefix))[1:]
		return nil
	}
}

// NewService creates a skill service rooted at root
func NewService(root string, opts ...Option) (*Service, error) {
	if root == "" {
		return nil, errors.New("skills root cannot be empty")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve skills root")
	}

	s := &Service{
		root:         absRoot,
		manifestName: DefaultManifestName,
		mirrorPrefix: DefaultMirrorPrefix,
		mirror:       noopMirror{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Root returns the absolute skills root directory
func (s *Service) Root() string {
	return s.root
}

func (s *Service) mirrorPath(name, rel string) string {
	return path.Join(s.mirrorPrefix, name, filepath.ToSlash(rel))
}

func (s *Service) log(ctx context.Context, name, rel string) *logrus.Entry {
	l := logger.G(ctx).WithField("skill", name)
	if rel != "" {
		l = l.WithField("path", rel)
	}
	return l
}

// List returns the metadata of every skill directory under the root. A
// missing or unreadable manifest falls back to defaults.
func (s *Service) List(ctx context.Context) ([]Metadata, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list skills")
	}

	result := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		frontmatter := map[string]string{}
		content, err := readLocal(filepath.Join(s.root, entry.Name(), s.manifestName))
		if err == nil {
			frontmatter = ParseFrontmatter(string(content))
		} else {
			logger.G(ctx).WithError(err).WithField("skill", entry.Name()).Debug("skill manifest unavailable")
		}

		result = append(result, MetadataFrom(entry.Name(), frontmatter))
	}

	return result, nil
}

// Tree returns the file tree of skill name
func (s *Service) Tree(_ context.Context, name string) ([]TreeEntry, error) {
	dir, err := SafePath(s.root, name, "")
	if err != nil {
		return nil, err
	}

	if ok, err := exists(dir); err != nil || !ok {
		return nil, ErrSkillMissing
	}

	files, err := BuildTree(dir)
	if err != nil {
		return nil, errors.Wrap(ErrSkillMissing, err.Error())
	}
	return files, nil
}

// ReadFile returns the content of rel inside skill name
func (s *Service) ReadFile(_ context.Context, name, rel string) (string, error) {
	resolved, err := s.resolveFile(name, rel)
	if err != nil {
		return "", err
	}

	content, err := readLocal(resolved)
	if err != nil {
		return "", ErrFileMissing
	}
	return string(content), nil
}

// WriteFile creates or replaces rel inside skill name, mirror first
func (s *Service) WriteFile(ctx context.Context, name, rel, content string) error {
	resolved, err := s.resolveFile(name, rel)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Update %s/%s", name, rel)
	if err := s.mirror.Put(ctx, s.mirrorPath(name, rel), content, message); err != nil {
		return err
	}

	if err := writeLocal(resolved, []byte(content)); err != nil {
		s.log(ctx, name, rel).WithError(err).Error("local write failed after mirror update")
		return err
	}

	s.log(ctx, name, rel).Info("skill file written")
	return nil
}

// DeleteFile removes rel inside skill name, mirror first. A file that only
// exists remotely is removed there and still reported as a local failure.
func (s *Service) DeleteFile(ctx context.Context, name, rel string) error {
	resolved, err := s.resolveFile(name, rel)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Delete %s/%s", name, rel)
	if err := s.mirror.Delete(ctx, s.mirrorPath(name, rel), message); err != nil {
		return err
	}

	if err := removeLocal(resolved); err != nil {
		return err
	}

	s.log(ctx, name, rel).Info("skill file deleted")
	return nil
}

// Create allocates a skill directory with a default manifest
func (s *Service) Create(ctx context.Context, name, description string) error {
	dir, err := SafePath(s.root, name, "")
	if err != nil {
		return err
	}

	found, err := exists(dir)
	if err != nil {
		return errors.Wrap(err, "failed to check skill directory")
	}
	if found {
		return ErrSkillExists
	}

	manifest := DefaultManifest(name, description)
	message := fmt.Sprintf("Create skill %s", name)
	if err := s.mirror.Put(ctx, s.mirrorPath(name, s.manifestName), manifest, message); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create skill directory")
	}
	if err := writeLocal(filepath.Join(dir, s.manifestName), []byte(manifest)); err != nil {
		return err
	}

	s.log(ctx, name, "").Info("skill created")
	return nil
}

// Delete removes skill name from the mirror and then from disk. A skill
// that is not present locally is a failure and the mirror is left alone.
func (s *Service) Delete(ctx context.Context, name string) error {
	dir, err := SafePath(s.root, name, "")
	if err != nil {
		return err
	}

	if _, err := os.Stat(dir); err != nil {
		return errors.Wrap(ErrSkillMissing, err.Error())
	}

	message := fmt.Sprintf("Delete skill %s", name)
	if err := s.mirror.DeleteDirectory(ctx, s.mirrorPath(name, ""), message); err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(err, "failed to remove skill directory")
	}

	s.log(ctx, name, "").Info("skill deleted")
	return nil
}

// CreateDirectory creates rel inside skill name. Directories are local only;
// the mirror has no representation for an empty directory.
func (s *Service) CreateDirectory(ctx context.Context, name, rel string) error {
	resolved, err := s.resolveFile(name, rel)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}

	s.log(ctx, name, rel).Debug("skill directory created")
	return nil
}

func (s *Service) resolveFile(name, rel string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	if rel == "" {
		return "", ErrMissingPath
	}
	return SafePath(s.root, name, rel)
}
