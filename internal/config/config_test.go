package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vars = []string{
	"FOLIO_API_BASE_URL",
	"FOLIO_REQUEST_TIMEOUT",
	"FOLIO_LOG_LEVEL",
	"FOLIO_LOG_FORMAT",
	"FOLIO_LOG_FILE",
}

// clearEnv unsets every folio variable for the test and restores them after.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v) //nolint:errcheck
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, cfg.HasAPI())
	assert.Equal(t, 20*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, filepath.Join(os.TempDir(), "folio.log"), cfg.LogPath())
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOLIO_API_BASE_URL", " https://api.example.com/// ")
	t.Setenv("FOLIO_REQUEST_TIMEOUT", "5s")
	t.Setenv("FOLIO_LOG_FILE", "off")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.True(t, cfg.HasAPI())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.LogPath())
}

func TestLoad_DotenvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FOLIO_API_BASE_URL=http://from-file\nFOLIO_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("FOLIO_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file", cfg.APIBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOLIO_REQUEST_TIMEOUT", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLogPath_Custom(t *testing.T) {
	cfg := &Config{LogFile: "/var/log/folio.log"}
	assert.Equal(t, "/var/log/folio.log", cfg.LogPath())
}
