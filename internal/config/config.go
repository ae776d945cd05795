// Package config loads folio settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// LogFileOff disables log output.
const LogFileOff = "off"

// Config is the runtime configuration.
type Config struct {
	// APIBaseURL is the portfolio API root. Empty means unconfigured.
	APIBaseURL     string        `env:"FOLIO_API_BASE_URL"`
	RequestTimeout time.Duration `env:"FOLIO_REQUEST_TIMEOUT,default=20s,strict"`
	LogLevel       string        `env:"FOLIO_LOG_LEVEL,default=info"`
	LogFormat      string        `env:"FOLIO_LOG_FORMAT,default=json"`
	// LogFile is where logs go; the TUI owns stdout. "off" discards.
	LogFile string `env:"FOLIO_LOG_FILE"`
}

// Load reads the given .env files (".env" when none are named) without
// overriding variables already set, then decodes the environment. Missing
// files are not an error.
func Load(files ...string) (*Config, error) {
	for _, f := range dotenvFiles(files) {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config.Load: %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 20 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	return &cfg, nil
}

func dotenvFiles(files []string) []string {
	if len(files) == 0 {
		return []string{".env"}
	}
	return files
}

// HasAPI reports whether a base URL is configured.
func (c *Config) HasAPI() bool {
	return c.APIBaseURL != ""
}

// LogPath resolves LogFile: empty is folio.log in the temp dir, "off" is "".
func (c *Config) LogPath() string {
	switch strings.TrimSpace(c.LogFile) {
	case "":
		return filepath.Join(os.TempDir(), "folio.log")
	case LogFileOff:
		return ""
	default:
		return c.LogFile
	}
}
