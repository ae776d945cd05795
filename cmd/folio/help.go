package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/folio/internal/config"
	"github.com/naveenspark/folio/internal/route"
)

var (
	helpTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#38bdf8")).Bold(true)
	helpCmdStyle   = lipgloss.NewStyle().Bold(true)
	helpDescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printHelp(w io.Writer) {
	commands := []struct{ cmd, desc string }{
		{"folio", "Open the dashboard (interactive TUI)"},
		{"folio <path>", "Open at a view, e.g. folio " + route.Projects},
		{"folio config", "Show the resolved configuration"},
		{"folio --version", "Show version"},
		{"folio help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n",
		helpTitleStyle.Render("F O L I O"),
		helpDescStyle.Render("Portfolio dashboard for the terminal."))
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", helpCmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), helpDescStyle.Render(c.desc))
	}

	fmt.Fprintf(w, "\n  Views:\n")
	for _, r := range route.Table {
		fmt.Fprintf(w, "    %s  %s\n", helpCmdStyle.Render(fmt.Sprintf("%-28s", r.Path)), helpDescStyle.Render(r.Title))
	}

	fmt.Fprintf(w, "\n  Environment:\n")
	env := []struct{ name, desc string }{
		{"FOLIO_API_BASE_URL", "API root, e.g. http://localhost:8000"},
		{"FOLIO_REQUEST_TIMEOUT", "Per-request timeout (default 20s)"},
		{"FOLIO_LOG_LEVEL", "debug, info, warn, error"},
		{"FOLIO_LOG_FORMAT", "json or text"},
		{"FOLIO_LOG_FILE", "Log path, or \"off\""},
	}
	for _, e := range env {
		fmt.Fprintf(w, "    %s  %s\n", helpCmdStyle.Render(fmt.Sprintf("%-24s", e.name)), helpDescStyle.Render(e.desc))
	}
	fmt.Fprintln(w)
}

func printConfig(w io.Writer, cfg *config.Config) {
	api := cfg.APIBaseURL
	if api == "" {
		api = "(not set)"
	}
	logPath := cfg.LogPath()
	if logPath == "" {
		logPath = "(off)"
	}
	rows := []struct{ k, v string }{
		{"api", api},
		{"timeout", cfg.RequestTimeout.String()},
		{"log level", cfg.LogLevel},
		{"log format", cfg.LogFormat},
		{"log file", logPath},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %s\n", r.k, r.v)
	}
}
