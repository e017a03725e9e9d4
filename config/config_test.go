package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv(envBaseURL, "")
	t.Setenv(envFixtureCount, "")
	t.Setenv(envHTTPTimeout, "")
	t.Setenv(envResetURL, "")
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", cfg.BaseURL)
	assert.Equal(t, 100, cfg.FixtureCount)
	assert.Equal(t, 1, cfg.Checks.ReadID)
	assert.Equal(t, "I'm a new album", cfg.Checks.Create.Title)
	assert.Equal(t, 142, cfg.Checks.Update.UserID)
	assert.Equal(t, 500, cfg.Checks.UpdateBodyID)
	assert.Equal(t, "I'm a new title! Yo-ho-ho", cfg.Checks.PatchTitle)
	assert.Equal(t, 666, cfg.Checks.PatchUserID)
	assert.Equal(t, 7, cfg.Checks.DeleteID)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "albums.yaml", `
base_url: http://localhost:3000
fixture_count: 10
request_timeout: 2s
checks:
  delete_id: 3
  create:
    title: other
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 10, cfg.FixtureCount)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.Checks.DeleteID)
	assert.Equal(t, "other", cfg.Checks.Create.Title)
	assert.Equal(t, 1, cfg.Checks.Create.UserID)
	assert.Equal(t, 5, cfg.Checks.UpdateID)
}

func TestEnvironmentOverridesYAML(t *testing.T) {
	path := writeFile(t, "albums.yaml", "base_url: http://localhost:3000\nfixture_count: 10\n")
	t.Setenv(envBaseURL, "http://localhost:4000")
	t.Setenv(envFixtureCount, "20")
	t.Setenv(envHTTPTimeout, "5")
	t.Setenv(envResetURL, "http://localhost:4000/admin/reset")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/admin/reset", cfg.FixtureResetURL)
	assert.Equal(t, "http://localhost:4000", cfg.BaseURL)
	assert.Equal(t, 20, cfg.FixtureCount)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "reading config")
	})

	t.Run("bad YAML", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeFile(t, "bad.yaml", "fixture_count: [1"))
		assert.ErrorContains(t, err, "parsing config")
	})

	t.Run("bad fixture count in environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envFixtureCount, "lots")
		_, err := Load("")
		assert.ErrorContains(t, err, envFixtureCount)
	})

	t.Run("bad timeout in environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envHTTPTimeout, "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, envHTTPTimeout)
	})

	t.Run("empty fixture", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envFixtureCount, "0")
		_, err := Load("")
		assert.ErrorContains(t, err, "fixture count must be at least 1")
	})

	t.Run("invalid URL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envBaseURL, "ftp://example.com")
		_, err := Load("")
		assert.ErrorContains(t, err, "base URL")
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("sets variables that are not already set", func(t *testing.T) {
		clearEnv(t)
		require.NoError(t, os.Unsetenv(envFixtureCount))
		t.Setenv(envBaseURL, "http://already-set")
		path := writeFile(t, ".env", "ALBUMS_BASE_URL=http://from-dotenv\nALBUMS_FIXTURE_COUNT=42\n")

		require.NoError(t, LoadDotEnv(path))
		defer os.Unsetenv(envFixtureCount)

		assert.Equal(t, "http://already-set", os.Getenv(envBaseURL))
		assert.Equal(t, "42", os.Getenv(envFixtureCount))
	})
}
