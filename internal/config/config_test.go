package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	id, err := cfg.Identity()
	require.NoError(t, err)
	assert.Equal(t, "denoland/deno", id.String())
	assert.True(t, cfg.SearchEnabled)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "GITHUB_TOKEN", cfg.TokenEnv)
	assert.Equal(t, "github", cfg.Style)
	assert.NoError(t, Validate(testContext(t), cfg))
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "rview.yaml", `
source:
  owner: golang
  repository: go
  ref: release-branch.go1.22
search_enabled: false
timeout: 5s
style: monokai
hide: [".*", "vendor"]
log_level: debug
`)

	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, "golang", cfg.Source.Owner)
	assert.Equal(t, "go", cfg.Source.Repository)
	assert.Equal(t, "release-branch.go1.22", cfg.Source.Ref)
	assert.False(t, cfg.SearchEnabled)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "monokai", cfg.Style)
	assert.Equal(t, []string{".*", "vendor"}, cfg.Hide)
	assert.Equal(t, path, cfg.Location())

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	// Unset fields keep their defaults.
	assert.Equal(t, "GITHUB_TOKEN", cfg.TokenEnv)
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "rview.yml", "colour: blue\n")
	_, err := Load(testContext(t), path)
	assert.Error(t, err)
}

func TestLoadEmptyYAMLIsDefault(t *testing.T) {
	path := writeConfig(t, "rview.yaml", "")
	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, DefaultOwner, cfg.Source.Owner)
}

func TestLoadHCL(t *testing.T) {
	t.Setenv("RVIEW_TEST_DIR", "/srv/snapshot")
	path := writeConfig(t, "rview.hcl", `
source {
  owner      = "denoland"
  repository = "std"
}
local     = env.RVIEW_TEST_DIR
timeout   = "45s"
token_env = "GH_TOKEN"
hide      = ["*.lock"]
`)

	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, "std", cfg.Source.Repository)
	assert.Equal(t, "/srv/snapshot", cfg.Local)
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "GH_TOKEN", cfg.TokenEnv)
	assert.Equal(t, []string{"*.lock"}, cfg.Hide)
	assert.True(t, cfg.SearchEnabled)
}

func TestLoadHCLSyntaxError(t *testing.T) {
	path := writeConfig(t, "rview.hcl", "source {\n")
	_, err := Load(testContext(t), path)
	assert.Error(t, err)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "rview.toml", "")
	_, err := Load(testContext(t), path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad hide pattern", func(c *Config) { c.Hide = []string{"[x"} }},
		{"missing repository", func(c *Config) { c.Source.Repository = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(testContext(t), cfg))
		})
	}

	local := Default()
	local.Source = SourceConfig{}
	local.Local = t.TempDir()
	assert.NoError(t, Validate(testContext(t), local), "local mode needs no repository")
}

func TestInvalidTimeoutString(t *testing.T) {
	path := writeConfig(t, "rview.yaml", "timeout: soon\n")
	_, err := Load(testContext(t), path)
	assert.Error(t, err)
}

func TestSetIdentity(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetIdentity("golang/tools"))
	assert.Equal(t, "golang", cfg.Source.Owner)
	assert.Equal(t, "tools", cfg.Source.Repository)
	assert.Error(t, cfg.SetIdentity("bad"))
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadOrDefault(testContext(t), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOwner, cfg.Source.Owner)
}
