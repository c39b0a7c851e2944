package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, 60*time.Second, cfg.RaceTimeout)
	assert.Equal(t, []string{"mymemory", "lingua"}, cfg.Services)
	assert.Equal(t, "http://localhost:11434", cfg.Backend("ollama").BaseURL)
	assert.NotEmpty(t, cfg.Backend("ollama").Models)
	assert.Equal(t, "polytran-translator", cfg.Backend("marian").FunctionPrefix)
	assert.Empty(t, cfg.Backend("nope").APIKey)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("POLYTRAN_LOG_LEVEL", "DEBUG")
	t.Setenv("POLYTRAN_SERVICES", "Google, mymemory,google")
	t.Setenv("POLYTRAN_RACE_TIMEOUT", "5s")
	t.Setenv("POLYTRAN_BACKENDS_SYSTRAN_API_KEY", "sys-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"google", "mymemory"}, cfg.Services)
	assert.Equal(t, 5*time.Second, cfg.RaceTimeout)
	assert.Equal(t, "sys-key", cfg.Backend("systran").APIKey)
	assert.Equal(t, "or-key", cfg.Backend("openrouter").APIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
cache_size: 16
services: [ollama, lingua]
backends:
  ollama:
    base_url: http://gpu-box:11434
    models: [llama3.1:8b]
`), 0o600))

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, []string{"ollama", "lingua"}, cfg.Services)
	assert.Equal(t, "http://gpu-box:11434", cfg.Backend("ollama").BaseURL)
	assert.Equal(t, []string{"llama3.1:8b"}, cfg.Backend("ollama").Models)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(Options{ConfigFile: filepath.Join(dir, "absent.yaml")})
	require.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("POLYTRAN_BACKENDS_MYMEMORY_EMAIL=me@example.com\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("POLYTRAN_BACKENDS_MYMEMORY_EMAIL") })

	cfg, err := Load(Options{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", cfg.Backend("mymemory").Email)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Env: "local", LogLevel: "info", DBPath: "x.db"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing env", func(c *Config) { c.Env = "" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"negative cache", func(c *Config) { c.CacheSize = -1 }, true},
		{"negative timeout", func(c *Config) { c.RaceTimeout = -time.Second }, true},
		{"no db path", func(c *Config) { c.DBPath = "" }, true},
		{"no db path without cache", func(c *Config) { c.DBPath = ""; c.NoCache = true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
