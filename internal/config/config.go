// Package config loads rview settings from YAML or HCL files.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kk-code-lab/rview/internal/source"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultOwner      = "denoland"
	DefaultRepository = "deno"
	DefaultTokenEnv   = "GITHUB_TOKEN"
	DefaultTimeout    = 30 * time.Second
	DefaultStyle      = "github"
	DefaultLogLevel   = "info"
)

// SourceConfig names the remote repository to browse.
type SourceConfig struct {
	Owner      string
	Repository string
	// Ref is a branch, tag or commit. Empty means the default branch.
	Ref string
}

// Config is the resolved configuration.
type Config struct {
	Source SourceConfig
	// Local is a directory to browse instead of the remote repository.
	Local         string
	SearchEnabled bool
	APIBaseURL    string
	TokenEnv      string
	Timeout       time.Duration
	// Style is a chroma style name used for code highlighting.
	Style    string
	Hide     []string
	LogLevel string
	LogFile  string

	location string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Owner:      DefaultOwner,
			Repository: DefaultRepository,
		},
		SearchEnabled: true,
		TokenEnv:      DefaultTokenEnv,
		Timeout:       DefaultTimeout,
		Style:         DefaultStyle,
		LogLevel:      DefaultLogLevel,
	}
}

// Location returns the file the config was loaded from, if any.
func (c *Config) Location() string {
	return c.location
}

// IsLocal reports whether a local directory is browsed. Local wins over a
// configured remote repository.
func (c *Config) IsLocal() bool {
	return c.Local != ""
}

// Identity returns the configured remote repository.
func (c *Config) Identity() (source.Identity, error) {
	if c.Source.Owner == "" || c.Source.Repository == "" {
		return source.Identity{}, errors.New("no repository configured")
	}
	return source.ParseIdentity(c.Source.Owner + "/" + c.Source.Repository)
}

// SetIdentity overrides the remote repository from an "owner/repository"
// string.
func (c *Config) SetIdentity(s string) error {
	id, err := source.ParseIdentity(s)
	if err != nil {
		return err
	}
	c.Source.Owner = id.Owner
	c.Source.Repository = id.Repository
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, errors.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Validate checks the configuration for values the browser cannot use.
func Validate(ctx context.Context, cfg *Config) error {
	if cfg.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	if err := source.ValidatePatterns(cfg.Hide); err != nil {
		return err
	}
	if !cfg.IsLocal() {
		if _, err := cfg.Identity(); err != nil {
			return errors.Errorf("remote mode: %w", err)
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("location", cfg.location).
		Bool("local", cfg.IsLocal()).
		Dur("timeout", cfg.Timeout).
		Msg("config validated")
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rview", "config.yaml")
}

// Load reads and validates the config file at path. The format follows the
// extension: .yaml/.yml or .hcl.
func Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var f *file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = parseYAML(data)
	case ".hcl":
		f, err = parseHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported config extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	cfg, err := f.resolve()
	if err != nil {
		return nil, err
	}
	cfg.location = path

	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when given. Without a path the per-user file is
// used when it exists, else the defaults.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	def := DefaultPath()
	if def != "" {
		if _, err := os.Stat(def); err == nil {
			return Load(ctx, def)
		}
	}
	zerolog.Ctx(ctx).Debug().Msg("no config file, using defaults")
	return Default(), nil
}
