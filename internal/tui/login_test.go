package tui

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/route"
	"github.com/naveenspark/folio/pkg/domain"
)

func fillLogin(m loginModel, username, password string) loginModel {
	m, _ = m.Update(runes(username))
	m, _ = m.Update(keyOf(tea.KeyTab))
	m, _ = m.Update(runes(password))
	return m
}

func TestLoginValidationBlocksSubmit(t *testing.T) {
	h := offlineHarness()
	m := newLoginModel(h.deps(), "")

	m, cmd := m.Update(keyOf(tea.KeyCtrlS))
	if cmd != nil {
		t.Fatal("expected no command for an invalid form")
	}
	if m.form.errs["username"] == "" || m.form.errs["password"] == "" {
		t.Errorf("expected username and password errors, got %v", m.form.errs)
	}
}

func TestLoginSuccessNavigatesToDestination(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("ada", "secret-pass", domain.RoleUser)
	m := fillLogin(newLoginModel(h.deps(), route.Projects), "ada", "secret-pass")

	m, cmd := m.Update(keyOf(tea.KeyEnter))
	if !m.submitting {
		t.Fatal("expected submitting after enter on last field")
	}
	done, ok := run(cmd).(loginDoneMsg)
	if !ok || !done.ok {
		t.Fatalf("expected successful loginDoneMsg, got %#v", done)
	}
	m, cmd = m.Update(done)
	nav, ok := run(cmd).(navigateMsg)
	if !ok || nav.path != route.Projects {
		t.Errorf("expected navigate to %s, got %#v", route.Projects, nav)
	}
	if !h.store.IsAuthenticated() {
		t.Error("expected store to be authenticated")
	}
}

func TestLoginFailureStaysPut(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("ada", "secret-pass", domain.RoleUser)
	m := fillLogin(newLoginModel(h.deps(), ""), "ada", "wrong-pass")

	m, cmd := m.Update(keyOf(tea.KeyCtrlS))
	m, cmd = m.Update(run(cmd))
	if cmd != nil {
		t.Error("expected no navigation after a failed login")
	}
	if m.submitting {
		t.Error("expected submitting cleared")
	}
	titles := h.queue.Titles()
	if len(titles) != 1 || titles[0] != "Login failed" {
		t.Errorf("expected one Login failed toast, got %v", titles)
	}
	if n := h.srv.Count(http.MethodGet, "/profile/me"); n != 0 {
		t.Errorf("profile fetched %d times after failed login", n)
	}
}

func TestLoginDestination(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"", route.Dashboard},
		{route.Login, route.Dashboard},
		{route.Register, route.Dashboard},
		{route.Inbox, route.Inbox},
		{route.Users, route.Users},
	}
	for _, tc := range tests {
		t.Run(tc.from, func(t *testing.T) {
			m := newLoginModel(deps{}, tc.from)
			if got := m.destination(); got != tc.want {
				t.Errorf("destination() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoginViewMentionsReturnPath(t *testing.T) {
	h := offlineHarness()
	view := newLoginModel(h.deps(), route.Inbox).View()
	if !strings.Contains(view, route.Inbox) {
		t.Errorf("expected return path in view, got:\n%s", view)
	}
}

func TestLoginEscReleasesKeys(t *testing.T) {
	h := offlineHarness()
	m := newLoginModel(h.deps(), "")
	m, _ = m.Update(keyOf(tea.KeyEsc))
	if m.active {
		t.Fatal("expected form inactive after esc")
	}
	m, _ = m.Update(runes("q"))
	if got := m.form.get("username"); got != "" {
		t.Errorf("inactive form accepted input: %q", got)
	}
	m, _ = m.Update(runes("i"))
	if !m.active {
		t.Error("expected i to focus the form again")
	}
}
