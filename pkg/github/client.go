// Package github mirrors the skill tree into a GitHub repository through the
// contents API. Each write or delete becomes one commit on the configured
// branch.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/skillsys/hrassist/pkg/logger"
)

const (
	defaultBranch           = "main"
	defaultTimeout          = 30 * time.Second
	defaultConflictAttempts = 3
	defaultConflictDelay    = 500 * time.Millisecond
)

// Config describes the mirror repository. An empty Token disables the
// mirror.
type Config struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise
	BaseURL string
	Timeout time.Duration
	// DeleteConcurrency bounds the parallel deletes of a directory removal
	DeleteConcurrency int
	// ConflictAttempts is the number of tries of a delete answered with 409
	ConflictAttempts int
	ConflictDelay    time.Duration
}

// Mirror writes to and deletes from the mirror repository
type Mirror struct {
	client *github.Client
	config Config
}

// NewMirror creates a mirror client. A disabled mirror makes no requests.
func NewMirror(ctx context.Context, cfg Config) (*Mirror, error) {
	if cfg.Branch == "" {
		cfg.Branch = defaultBranch
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.DeleteConcurrency <= 0 {
		cfg.DeleteConcurrency = 1
	}
	if cfg.ConflictAttempts <= 0 {
		cfg.ConflictAttempts = defaultConflictAttempts
	}
	if cfg.ConflictDelay <= 0 {
		cfg.ConflictDelay = defaultConflictDelay
	}

	log := logger.G(ctx)

	if cfg.Token == "" {
		log.Warn("no GitHub token provided, skill changes will not be mirrored")
		return &Mirror{config: cfg}, nil
	}

	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("mirror repository owner and name are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = cfg.Timeout

	client := github.NewClient(httpClient)
	if cfg.BaseURL != "" {
		baseURL, err := parseBaseURL(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = baseURL
	}

	log.WithField("repo", cfg.Owner+"/"+cfg.Repo).WithField("branch", cfg.Branch).Debug("GitHub mirror initialized")
	return &Mirror{client: client, config: cfg}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid mirror base URL %q", raw)
	}
	return u, nil
}

// Enabled reports whether the mirror talks to GitHub
func (m *Mirror) Enabled() bool {
	return m.config.Token != ""
}

// Branch returns the branch commits are written to
func (m *Mirror) Branch() string {
	return m.config.Branch
}

// APIError is a non-success answer from the contents API. Body is the raw
// response body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (%d): %s", e.StatusCode, e.Body)
}

// IsConflict reports whether err is a 409 from the contents API
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// apiError converts a go-github failure into an APIError. go-github restores
// the response body after decoding it, so the raw text is still readable.
func apiError(resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return errors.Wrap(err, "GitHub request failed")
	}

	body := ""
	if resp.Body != nil {
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			body = string(data)
		}
	}
	if body == "" {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) {
			body = errResp.Message
		} else if err != nil {
			body = err.Error()
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Body: body}
}
