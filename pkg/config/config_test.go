package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T) (*Config, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	require.NoError(t, Init(v))
	return Load(v)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "./.claude/skills", cfg.Skills.Dir)
	assert.Equal(t, "SKILL.md", cfg.Skills.Manifest)
	assert.False(t, cfg.Mirror.Enabled())
	assert.Equal(t, "main", cfg.Mirror.Branch)
	assert.Equal(t, ".claude/skills", cfg.Mirror.Prefix)
	assert.Equal(t, 30*time.Second, cfg.Mirror.Timeout)
	assert.Equal(t, 1, cfg.Mirror.DeleteConcurrency)
	assert.Equal(t, 4000, cfg.CV.MaxTokens)
	assert.InDelta(t, 0.3, cfg.CV.Temperature, 1e-9)
	assert.Equal(t, 80000, cfg.CV.MaxInput)
	assert.Equal(t, cfg.Anthropic.Model, cfg.CV.Model)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadLegacyEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_legacy")
	t.Setenv("GITHUB_REPO", "acme/hr-skills")
	t.Setenv("GITHUB_BRANCH", "skills")
	t.Setenv("PORT", "8088")
	t.Setenv("ALLOWED_ORIGIN", "https://hr.example.com")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := load(t)
	require.NoError(t, err)

	assert.True(t, cfg.Mirror.Enabled())
	assert.Equal(t, "ghp_legacy", cfg.Mirror.Token)
	assert.Equal(t, "skills", cfg.Mirror.Branch)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, []string{"https://hr.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sk-test", cfg.Anthropic.APIKey)

	owner, repo, err := cfg.Mirror.OwnerRepo()
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "hr-skills", repo)
}

func TestPrefixedEnvironmentWins(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("HRASSIST_SERVER_PORT", "9090")
	t.Setenv("HRASSIST_MIRROR_TIMEOUT", "5s")
	t.Setenv("HRASSIST_CV_MODEL", "claude-haiku")

	cfg, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Mirror.Timeout)
	assert.Equal(t, "claude-haiku", cfg.CV.Model)
}

func TestConfigFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".hrassist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".hrassist", "config.yaml"), []byte(`
server:
  port: 4000
  allowed_origins:
    - https://*.example.com
database:
  path: /var/lib/hrassist/hr.db
mirror:
  delete_concurrency: 4
`), 0o644))
	t.Setenv("HOME", home)

	v := viper.New()
	require.NoError(t, Init(v))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, []string{"https://*.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/var/lib/hrassist/hr.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.Mirror.DeleteConcurrency)
}

func TestValidate(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_x")
	t.Setenv("GITHUB_REPO", "not-a-repo")
	_, err := load(t)
	assert.ErrorContains(t, err, "owner/name")

	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("PORT", "70000")
	_, err = load(t)
	assert.ErrorContains(t, err, "port must be between")
}

func TestOwnerRepo(t *testing.T) {
	for _, repo := range []string{"", "acme", "/x", "acme/", "a/b/c"} {
		_, _, err := MirrorConfig{Repo: repo}.OwnerRepo()
		assert.Error(t, err, repo)
	}
}
