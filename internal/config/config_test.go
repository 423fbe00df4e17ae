package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-lookup/internal/strategy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lookup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, strategy.Names(), cfg.EnabledStrategies())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
lookup:
  file: /data/codes.txt
  reread_on_query: true
  strategies: [linear, mmap]
server:
  addr: 127.0.0.1:9090
  api_key: secret-api-key
index:
  path: /var/lib/lookup/index.db
tools:
  grep: /usr/bin/grep
logging:
  level: debug
  json: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/codes.txt", cfg.Lookup.File)
	assert.True(t, cfg.Lookup.RereadOnQuery)
	assert.Equal(t, []string{"linear", "mmap"}, cfg.EnabledStrategies())
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "secret-api-key", cfg.Server.APIKey)
	assert.Equal(t, "/var/lib/lookup/index.db", cfg.Index.Path)
	assert.Equal(t, "/usr/bin/grep", cfg.Tools.Grep)
	assert.Equal(t, "awk", cfg.Tools.Awk, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)
	assert.Len(t, cfg.StrategyOptions(), 4)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOOKUP_FILE", "/env/codes.txt")
	t.Setenv("LOOKUP_REREAD", "true")
	t.Setenv("LOOKUP_ADDR", ":7070")
	t.Setenv("LOOKUP_API_KEY", "env-key")
	t.Setenv("LOOKUP_INDEX_PATH", "/env/index.db")
	t.Setenv("LOOKUP_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "lookup:\n  file: /file/codes.txt\n"))
	require.NoError(t, err)

	assert.Equal(t, "/env/codes.txt", cfg.Lookup.File)
	assert.True(t, cfg.Lookup.RereadOnQuery)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "env-key", cfg.Server.APIKey)
	assert.Equal(t, "/env/index.db", cfg.Index.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		invalid bool
	}{
		{
			name:    "malformed yaml",
			content: "lookup: [unclosed",
		},
		{
			name:    "empty file path",
			content: "lookup:\n  file: \"\"\n",
			invalid: true,
		},
		{
			name:    "unknown strategy",
			content: "lookup:\n  strategies: [linear, ripgrep]\n",
			invalid: true,
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: loud\n",
			invalid: true,
		},
		{
			name:    "bad reread env",
			content: "",
			env:     map[string]string{"LOOKUP_REREAD": "sometimes"},
			invalid: true,
		},
		{
			name:    "negative max line size",
			content: "lookup:\n  max_line_size: -1\n",
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
