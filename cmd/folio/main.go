package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/config"
	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/internal/route"
	"github.com/naveenspark/folio/internal/session"
	"github.com/naveenspark/folio/internal/slogx"
	"github.com/naveenspark/folio/internal/tui"
	"github.com/naveenspark/folio/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const missingAPIBanner = "Missing FOLIO_API_BASE_URL. Set it in the environment or a .env file."

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(stdout, "folio "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(stdout)
			return nil
		case "config":
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			printConfig(stdout, cfg)
			return nil
		}
	}

	start, err := startPath(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logOut, closeLog, err := slogx.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // best-effort close
	logger := slogx.New(slogx.Config{
		Version: version,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  logOut,
	})

	api := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
	)
	queue := &notify.Recorder{}
	store := session.New(api, queue, session.WithLogger(logger))

	opts := tui.Options{StartPath: start, Version: version}
	if !cfg.HasAPI() {
		opts.Banner = missingAPIBanner
		logger.Warn("api_base_url_missing")
	}
	logger.Info("startup", "api", cfg.APIBaseURL, "start_path", start, "timeout", cfg.RequestTimeout)

	p := tea.NewProgram(tui.NewApp(api, store, queue, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	logger.Info("shutdown")
	return nil
}

// startPath returns the view to open first. A bare invocation opens "/".
func startPath(args []string) (string, error) {
	if len(args) == 0 {
		return route.Root, nil
	}
	if len(args) > 1 {
		return "", fmt.Errorf("too many arguments (try folio help)")
	}
	if !strings.HasPrefix(args[0], "/") {
		return "", fmt.Errorf("unknown command %q (try folio help)", args[0])
	}
	return route.Clean(args[0]), nil
}
