// Package config resolves hrassist settings from defaults, an optional
// config.yaml, HRASSIST_* environment variables and bound command flags.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "HRASSIST"

// Config is the resolved application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Skills    SkillsConfig    `mapstructure:"skills"`
	Mirror    MirrorConfig    `mapstructure:"mirror"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Chat      ChatConfig      `mapstructure:"chat"`
	CV        CVConfig        `mapstructure:"cv"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SkillsConfig locates the local skill tree
type SkillsConfig struct {
	Dir      string `mapstructure:"dir"`
	Manifest string `mapstructure:"manifest"`
}

// MirrorConfig describes the GitHub repository mirroring the skill tree.
// An empty token disables mirroring.
type MirrorConfig struct {
	Token             string        `mapstructure:"token"`
	Repo              string        `mapstructure:"repo"`
	Branch            string        `mapstructure:"branch"`
	Prefix            string        `mapstructure:"prefix"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	DeleteConcurrency int           `mapstructure:"delete_concurrency"`
}

// Enabled reports whether mirroring is configured
func (m MirrorConfig) Enabled() bool {
	return m.Token != ""
}

// OwnerRepo splits Repo of the form owner/name
func (m MirrorConfig) OwnerRepo() (string, string, error) {
	owner, name, ok := strings.Cut(m.Repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", errors.Errorf("mirror repo must be owner/name, got %q", m.Repo)
	}
	return owner, name, nil
}

// DatabaseConfig locates the HR database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AnthropicConfig configures the Messages API client shared by chat and CV
// parsing
type AnthropicConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// ChatConfig configures the chat proxy
type ChatConfig struct {
	SystemPrompt string `mapstructure:"system_prompt"`
	MaxHistory   int    `mapstructure:"max_history"`
}

// CVConfig configures CV parsing
type CVConfig struct {
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	MaxInput    int     `mapstructure:"max_input"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TracingConfig configures OpenTelemetry
type TracingConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Sampler string  `mapstructure:"sampler"`
	Ratio   float64 `mapstructure:"ratio"`
}

var defaults = map[string]any{
	"server.host":               "0.0.0.0",
	"server.port":               3000,
	"server.allowed_origins":    []string{"*"},
	"skills.dir":                "./.claude/skills",
	"skills.manifest":           "SKILL.md",
	"mirror.token":              "",
	"mirror.repo":               "",
	"mirror.branch":             "main",
	"mirror.prefix":             ".claude/skills",
	"mirror.base_url":           "",
	"mirror.timeout":            30 * time.Second,
	"mirror.delete_concurrency": 1,
	"database.path":             "./hrassist.db",
	"anthropic.api_key":         "",
	"anthropic.base_url":        "",
	"anthropic.model":           "claude-sonnet-4-5-20250929",
	"anthropic.max_tokens":      8192,
	"chat.system_prompt":        "",
	"chat.max_history":          40,
	"cv.model":                  "",
	"cv.max_tokens":             4000,
	"cv.temperature":            0.3,
	"cv.max_input":              80000,
	"log.level":                 "info",
	"log.format":                "fmt",
	"tracing.enabled":           false,
	"tracing.sampler":           "ratio",
	"tracing.ratio":             1.0,
}

// legacyEnv maps keys to the unprefixed variables older deployments set
var legacyEnv = map[string]string{
	"mirror.token":           "GITHUB_TOKEN",
	"mirror.repo":            "GITHUB_REPO",
	"mirror.branch":          "GITHUB_BRANCH",
	"server.port":            "PORT",
	"server.allowed_origins": "ALLOWED_ORIGIN",
	"anthropic.api_key":      "ANTHROPIC_API_KEY",
}

// Init registers defaults, environment bindings and config file locations
// on v and reads the config file if one exists.
func Init(v *viper.Viper) error {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return errors.Wrapf(err, "failed to bind %s", key)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.hrassist")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}

	return nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}

	if cfg.CV.Model == "" {
		cfg.CV.Model = cfg.Anthropic.Model
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Skills.Dir == "" {
		return errors.New("skills directory cannot be empty")
	}
	if c.Mirror.Enabled() {
		if _, _, err := c.Mirror.OwnerRepo(); err != nil {
			return err
		}
	}
	if c.Mirror.DeleteConcurrency < 1 {
		return errors.Errorf("mirror delete concurrency must be at least 1, got %d", c.Mirror.DeleteConcurrency)
	}
	if c.CV.MaxInput < 1 {
		return errors.Errorf("cv max input must be positive, got %d", c.CV.MaxInput)
	}
	return nil
}
