package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/route"
	"github.com/naveenspark/folio/pkg/domain"
)

func fillRegister(m registerModel, email, username, password string) registerModel {
	m.form.set("email", email)
	m.form.set("username", username)
	m.form.set("password", password)
	return m
}

func TestRegisterValidationMessages(t *testing.T) {
	h := offlineHarness()
	m := fillRegister(newRegisterModel(h.deps()), "not-an-email", "ab", "123")

	m, cmd := m.Update(keyOf(tea.KeyCtrlS))
	if cmd != nil {
		t.Fatal("expected no command for an invalid form")
	}
	want := map[string]string{
		"email":    "A valid email is required.",
		"username": "Username must be at least 3 characters.",
		"password": "Password must be at least 6 characters.",
	}
	for k, v := range want {
		if got := m.form.errs[k]; got != v {
			t.Errorf("errs[%s] = %q, want %q", k, got, v)
		}
	}
}

func TestRegisterSuccessGoesToLogin(t *testing.T) {
	h := newHarness(t)
	m := fillRegister(newRegisterModel(h.deps()), " new@example.com ", "newbie", "secret-pass")

	m, cmd := m.Update(keyOf(tea.KeyCtrlS))
	m, cmd = m.Update(run(cmd))
	nav, ok := run(cmd).(navigateMsg)
	if !ok || nav.path != route.Login {
		t.Fatalf("expected navigate to login, got %#v", nav)
	}
	if h.store.IsAuthenticated() {
		t.Error("registering must not sign in")
	}
	if titles := h.queue.Titles(); len(titles) != 1 || titles[0] != "Account created" {
		t.Errorf("expected Account created toast, got %v", titles)
	}
}

func TestRegisterDuplicateShowsServerDetail(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("taken", "whatever", domain.RoleUser)
	m := fillRegister(newRegisterModel(h.deps()), "t@example.com", "taken", "secret-pass")

	m, cmd := m.Update(keyOf(tea.KeyCtrlS))
	_, cmd = m.Update(run(cmd))
	if cmd != nil {
		t.Error("expected no navigation after a failed registration")
	}
	events := h.queue.Events()
	if len(events) != 1 || events[0].Message != "Username already registered" {
		t.Errorf("expected server detail in toast, got %+v", events)
	}
}
