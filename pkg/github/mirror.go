package github

import (
	"context"
	"path"

	"github.com/avast/retry-go/v4"
	"github.com/google/go-github/v57/github"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/skillsys/hrassist/pkg/logger"
	"github.com/skillsys/hrassist/pkg/telemetry"
)

type remoteFile struct {
	path string
	sha  string
}

// FetchVersionToken returns the blob SHA of the file at p on the mirror
// branch. Any failure, including a directory at p, reports absence.
func (m *Mirror) FetchVersionToken(ctx context.Context, p string) (string, bool) {
	if !m.Enabled() {
		return "", false
	}

	file, _, _, err := m.client.Repositories.GetContents(ctx, m.config.Owner, m.config.Repo, p,
		&github.RepositoryContentGetOptions{Ref: m.config.Branch})
	if err != nil || file == nil || file.GetSHA() == "" {
		return "", false
	}
	return file.GetSHA(), true
}

// Put creates or replaces the file at p with content
func (m *Mirror) Put(ctx context.Context, p, content, message string) error {
	if !m.Enabled() {
		return nil
	}

	return telemetry.WithSpan(ctx, "github.put", func(ctx context.Context) error {
		opts := &github.RepositoryContentFileOptions{
			Message: github.String(message),
			Content: []byte(content),
			Branch:  github.String(m.config.Branch),
		}

		var (
			resp *github.Response
			err  error
		)
		if sha, ok := m.FetchVersionToken(ctx, p); ok {
			opts.SHA = github.String(sha)
			_, resp, err = m.client.Repositories.UpdateFile(ctx, m.config.Owner, m.config.Repo, p, opts)
		} else {
			_, resp, err = m.client.Repositories.CreateFile(ctx, m.config.Owner, m.config.Repo, p, opts)
		}
		if err != nil {
			return apiError(resp, err)
		}

		logger.G(ctx).WithField("path", p).Debug("mirrored file")
		return nil
	}, attribute.String("mirror.path", p))
}

// Delete removes the file at p. A file that is not in the mirror is not an
// error.
func (m *Mirror) Delete(ctx context.Context, p, message string) error {
	if !m.Enabled() {
		return nil
	}

	return telemetry.WithSpan(ctx, "github.delete", func(ctx context.Context) error {
		sha, ok := m.FetchVersionToken(ctx, p)
		if !ok {
			logger.G(ctx).WithField("path", p).Debug("file not in mirror, nothing to delete")
			return nil
		}
		return m.deleteFile(ctx, remoteFile{path: p, sha: sha}, message)
	}, attribute.String("mirror.path", p))
}

// DeleteDirectory removes every file below p. A directory that cannot be
// listed is treated as already gone.
func (m *Mirror) DeleteDirectory(ctx context.Context, p, message string) error {
	if !m.Enabled() {
		return nil
	}

	return telemetry.WithSpan(ctx, "github.delete_directory", func(ctx context.Context) error {
		files := m.collectFiles(ctx, p, nil)
		if len(files) == 0 {
			return nil
		}

		telemetry.SetAttributes(ctx, attribute.Int("mirror.files", len(files)))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(m.config.DeleteConcurrency)
		for _, f := range files {
			g.Go(func() error {
				return m.deleteFile(gctx, f, message)
			})
		}
		return g.Wait()
	}, attribute.String("mirror.path", p))
}

func (m *Mirror) collectFiles(ctx context.Context, dir string, files []remoteFile) []remoteFile {
	_, entries, _, err := m.client.Repositories.GetContents(ctx, m.config.Owner, m.config.Repo, dir,
		&github.RepositoryContentGetOptions{Ref: m.config.Branch})
	if err != nil || entries == nil {
		logger.G(ctx).WithField("path", dir).Debug("mirror directory not listable, skipping")
		return files
	}

	for _, entry := range entries {
		entryPath := entry.GetPath()
		if entryPath == "" {
			entryPath = path.Join(dir, entry.GetName())
		}

		switch entry.GetType() {
		case "dir":
			files = m.collectFiles(ctx, entryPath, files)
		default:
			files = append(files, remoteFile{path: entryPath, sha: entry.GetSHA()})
		}
	}
	return files
}

// deleteFile retries on 409, which the contents API returns when another
// commit moved the branch head between our read and our write.
func (m *Mirror) deleteFile(ctx context.Context, f remoteFile, message string) error {
	return retry.Do(
		func() error {
			opts := &github.RepositoryContentFileOptions{
				Message: github.String(message),
				SHA:     github.String(f.sha),
				Branch:  github.String(m.config.Branch),
			}
			_, resp, err := m.client.Repositories.DeleteFile(ctx, m.config.Owner, m.config.Repo, f.path, opts)
			if err != nil {
				return apiError(resp, err)
			}
			logger.G(ctx).WithField("path", f.path).Debug("deleted mirrored file")
			return nil
		},
		retry.RetryIf(IsConflict),
		retry.Attempts(uint(m.config.ConflictAttempts)),
		retry.Delay(m.config.ConflictDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("path", f.path).WithField("attempt", n+1).Warn("retrying mirror delete after conflict")
		}),
	)
}
