// Package browser opens project links in the user's default browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsafeURL is returned for anything other than an absolute http(s) URL.
var ErrUnsafeURL = errors.New("browser: only http and https URLs can be opened")

// command is swapped in tests.
var command = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Validate checks that raw is an absolute http(s) URL with a host.
func Validate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrUnsafeURL
	}
	return nil
}

// Open opens the specified URL in the user's default browser.
func Open(raw string) error {
	if err := Validate(raw); err != nil {
		return err
	}
	switch runtime.GOOS {
	case "darwin":
		return command("open", raw)
	case "linux", "freebsd", "openbsd":
		return command("xdg-open", raw)
	case "windows":
		return command("rundll32", "url.dll,FileProtocolHandler", raw)
	default:
		return fmt.Errorf("browser: unsupported OS: %s", runtime.GOOS)
	}
}
