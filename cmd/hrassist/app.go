package main

import (
	"context"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/chat"
	"github.com/skillsys/hrassist/pkg/config"
	"github.com/skillsys/hrassist/pkg/cvparse"
	"github.com/skillsys/hrassist/pkg/db"
	"github.com/skillsys/hrassist/pkg/db/migrations"
	"github.com/skillsys/hrassist/pkg/github"
	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/llm"
	"github.com/skillsys/hrassist/pkg/skills"
)

// newMirror creates the GitHub mirror described by c. An empty token gives
// a disabled mirror.
func newMirror(ctx context.Context, c config.MirrorConfig) (*github.Mirror, error) {
	mc := github.Config{
		Token:             c.Token,
		Branch:            c.Branch,
		BaseURL:           c.BaseURL,
		Timeout:           c.Timeout,
		DeleteConcurrency: c.DeleteConcurrency,
	}
	if c.Enabled() {
		owner, repo, err := c.OwnerRepo()
		if err != nil {
			return nil, err
		}
		mc.Owner, mc.Repo = owner, repo
	}
	return github.NewMirror(ctx, mc)
}

// newSkillService creates the skill service, creating the skills root if
// it does not exist yet
func newSkillService(ctx context.Context, c *config.Config) (*skills.Service, error) {
	if err := os.MkdirAll(c.Skills.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create skills directory")
	}

	opts := []skills.Option{
		skills.WithManifestName(c.Skills.Manifest),
		skills.WithMirrorPrefix(c.Mirror.Prefix),
	}

	mirror, err := newMirror(ctx, c.Mirror)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mirror")
	}
	if mirror.Enabled() {
		opts = append(opts, skills.WithMirror(mirror))
	}

	return skills.NewService(c.Skills.Dir, opts...)
}

// openDatabase opens the HR database and applies pending migrations
func openDatabase(ctx context.Context, c *config.Config) (*sqlx.DB, error) {
	return db.OpenMigrated(ctx, c.Database.Path, migrations.All())
}

// anthropicClient returns the Messages API client, or false when no API key
// is configured
func anthropicClient(c *config.Config) (anthropic.Client, bool) {
	if c.Anthropic.APIKey == "" {
		return anthropic.Client{}, false
	}
	return llm.NewClient(llm.Options{APIKey: c.Anthropic.APIKey, BaseURL: c.Anthropic.BaseURL}), true
}

func newCVParser(client *anthropic.Client, store *hr.Store, c *config.Config) *cvparse.Parser {
	return cvparse.NewParser(&client.Messages, store, cvparse.Config{
		Model:       c.CV.Model,
		MaxTokens:   c.CV.MaxTokens,
		Temperature: c.CV.Temperature,
		MaxInput:    c.CV.MaxInput,
	})
}

func newChatService(client anthropic.Client, conn *sqlx.DB, svc *skills.Service, store *hr.Store, c *config.Config) *chat.Service {
	return chat.NewService(
		chat.NewAnthropicStreamer(client),
		chat.NewStore(conn),
		svc,
		chat.DefaultTools(svc, store),
		chat.Config{
			Model:        c.Anthropic.Model,
			MaxTokens:    c.Anthropic.MaxTokens,
			SystemPrompt: c.Chat.SystemPrompt,
			MaxHistory:   c.Chat.MaxHistory,
		},
	)
}

// requireAnthropic is used by commands that cannot run without the model
func requireAnthropic(c *config.Config) (anthropic.Client, error) {
	client, ok := anthropicClient(c)
	if !ok {
		return client, errors.New("anthropic API key is not configured (set ANTHROPIC_API_KEY or HRASSIST_ANTHROPIC_API_KEY)")
	}
	return client, nil
}
