package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "/animals/facts", cfg.FactsPath)
	assert.Equal(t, "/animals", cfg.QueryPath)
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetVerbose())
	assert.True(t, cfg.IsDefault())
	assert.NoError(t, cfg.Validate())
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
}

func TestFindAndLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	content := `baseUrl: http://facts.internal:5000
timeout: 5000
validateSSL: false
headers:
  User-Agent: factform/1.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "factform.yaml"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, "http://facts.internal:5000", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.TimeoutDuration())
	assert.False(t, cfg.GetValidateSSL())
	assert.Equal(t, "factform/1.0", cfg.Headers["User-Agent"])
	// unset keys keep their defaults
	assert.Equal(t, "/animals/facts", cfg.FactsPath)
	assert.False(t, cfg.IsDefault())
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"baseUrl":"https://api.example.com","output":"json"}`), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"baseUrl":`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Merge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1"}

	merged := base.Merge(&Config{
		BaseURL: "http://other:9000",
		Timeout: 1000,
		NoColor: BoolPtr(true),
		Headers: map[string]string{"B": "2"},
	})

	assert.Equal(t, "http://other:9000", merged.BaseURL)
	assert.Equal(t, 1000, merged.Timeout)
	assert.True(t, merged.GetNoColor())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)
	// the receiver is untouched
	assert.Equal(t, map[string]string{"A": "1"}, base.Headers)
	assert.Same(t, base, base.Merge(nil))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"missing base url", func(c *Config) { c.BaseURL = "" }, "baseUrl is required"},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://x" }, "unsupported URL scheme"},
		{"no host", func(c *Config) { c.BaseURL = "http://" }, "must have a host"},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }, "timeout"},
		{"bad output", func(c *Config) { c.Output = "xml" }, "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.BaseURL = "http://saved:1234"

	for _, name := range []string{"factform.yaml", "factform.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.SaveConfig(path))

		loaded, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "http://saved:1234", loaded.BaseURL, name)
	}
}
