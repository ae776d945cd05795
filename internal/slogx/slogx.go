// Package slogx builds the process logger. The TUI owns the terminal, so
// logs go to a file or nowhere.
package slogx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config selects the handler.
type Config struct {
	Version string
	Level   string // "debug", "info", "warn", "error"
	Format  string // "json", "text"
	Output  io.Writer
}

// New returns a configured logger and installs it as the slog default.
// A nil Output discards everything.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		logger := slog.New(slog.DiscardHandler)
		slog.SetDefault(logger)
		return logger
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(cfg.Output, opts)
	default:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}

	logger := slog.New(handler).With("service", "folio", "version", cfg.Version)
	slog.SetDefault(logger)
	return logger
}

// OpenFile opens path for appending, creating parent directories. An empty
// path returns a nil writer and a no-op closer.
func OpenFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("slogx.OpenFile: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("slogx.OpenFile: %w", err)
	}
	return f, f.Close, nil
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
