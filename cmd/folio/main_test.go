package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/naveenspark/folio/internal/route"
)

func TestRunVersion(t *testing.T) {
	for _, arg := range []string{"version", "--version", "-v"} {
		t.Run(arg, func(t *testing.T) {
			var out bytes.Buffer
			if err := run([]string{arg}, &out); err != nil {
				t.Fatalf("run(%q) error: %v", arg, err)
			}
			if got := strings.TrimSpace(out.String()); got != "folio "+version {
				t.Errorf("output = %q, want %q", got, "folio "+version)
			}
		})
	}
}

func TestRunHelpListsCommandsAndViews(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"help"}, &out); err != nil {
		t.Fatalf("run(help) error: %v", err)
	}
	for _, want := range []string{"folio config", "FOLIO_API_BASE_URL", route.Projects, route.Users} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunConfigShowsResolvedValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOLIO_API_BASE_URL", "http://localhost:8000/")
	t.Setenv("FOLIO_LOG_FILE", "off")
	t.Setenv("FOLIO_REQUEST_TIMEOUT", "5s")

	var out bytes.Buffer
	if err := run([]string{"config"}, &out); err != nil {
		t.Fatalf("run(config) error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"http://localhost:8000\n", "5s", "(off)"} {
		if !strings.Contains(got, want) {
			t.Errorf("config output missing %q:\n%s", want, got)
		}
	}
}

func TestRunConfigReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FOLIO_API_BASE_URL", "")
	os.Unsetenv("FOLIO_API_BASE_URL")
	if err := os.WriteFile(".env", []byte("FOLIO_API_BASE_URL=https://api.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("FOLIO_API_BASE_URL") })

	var out bytes.Buffer
	if err := run([]string{"config"}, &out); err != nil {
		t.Fatalf("run(config) error: %v", err)
	}
	if !strings.Contains(out.String(), "https://api.example.com") {
		t.Errorf("dotenv value not used:\n%s", out.String())
	}
}

func TestStartPath(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"no args", nil, route.Root, false},
		{"view path", []string{route.Projects}, route.Projects, false},
		{"trailing slash", []string{route.Skills + "/"}, route.Skills, false},
		{"unknown command", []string{"logn"}, "", true},
		{"too many", []string{"/a", "/b"}, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := startPath(tc.args)
			if (err != nil) != tc.wantErr {
				t.Fatalf("startPath(%v) error = %v, wantErr %v", tc.args, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("startPath(%v) = %q, want %q", tc.args, got, tc.want)
			}
		})
	}
}
