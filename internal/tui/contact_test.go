package tui

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestContactSubmitsTrimmedMessageOnce(t *testing.T) {
	h := newHarness(t)
	m := newContactModel(h.deps())
	m.form.set("sender_name", "  Grace Hopper ")
	m.form.set("sender_email", " grace@example.com")
	m.form.set("subject", "   ")
	m.form.set("message", "  I'd like to chat about COBOL.  ")

	m, cmd := m.Update(keyOf(tea.KeyCtrlS))
	if !m.submitting {
		t.Fatal("expected submitting after ctrl+s")
	}
	// A second submit while in flight is ignored.
	m, again := m.Update(keyOf(tea.KeyCtrlS))
	if again != nil {
		t.Error("expected duplicate submit to be ignored")
	}
	m, _ = m.Update(run(cmd))

	if n := h.srv.Count(http.MethodPost, "/contact/messages"); n != 1 {
		t.Fatalf("POST /contact/messages count = %d, want 1", n)
	}
	var body map[string]any
	if err := h.srv.Requests()[0].JSON(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["sender_name"] != "Grace Hopper" || body["sender_email"] != "grace@example.com" {
		t.Errorf("fields not trimmed: %v", body)
	}
	if body["message"] != "I'd like to chat about COBOL." {
		t.Errorf("message = %q", body["message"])
	}
	if v, ok := body["subject"]; !ok || v != nil {
		t.Errorf("blank subject should be sent as null, got %v (present=%v)", v, ok)
	}
	if auth := h.srv.Requests()[0].Auth; auth != "" {
		t.Errorf("anonymous submit sent Authorization %q", auth)
	}

	if titles := h.queue.Titles(); len(titles) != 1 || titles[0] != "Message sent" {
		t.Errorf("expected Message sent toast, got %v", titles)
	}
	if got := m.form.get("sender_name"); got != "" {
		t.Errorf("form not reset after send, name = %q", got)
	}
}

func TestContactInvalidSendsNothing(t *testing.T) {
	h := newHarness(t)
	m := newContactModel(h.deps())
	m.form.set("sender_name", "G")
	m.form.set("sender_email", "nope")
	m.form.set("message", "short")

	m, cmd := m.Update(keyOf(tea.KeyCtrlS))
	if cmd != nil {
		t.Fatal("expected no command for an invalid form")
	}
	for _, k := range []string{"sender_name", "sender_email", "message"} {
		if m.form.errs[k] == "" {
			t.Errorf("expected error for %s", k)
		}
	}
	if _, ok := m.form.errs["subject"]; ok {
		t.Error("subject is optional")
	}
	if n := len(h.srv.Requests()); n != 0 {
		t.Errorf("sent %d requests for an invalid form", n)
	}
}

func TestContactFailureKeepsInput(t *testing.T) {
	h := offlineHarness()
	m := newContactModel(h.deps())
	m.form.set("sender_name", "Grace")
	m.form.set("sender_email", "grace@example.com")
	m.form.set("message", "Hello there, world")

	m, cmd := m.Update(keyOf(tea.KeyCtrlS))
	m, _ = m.Update(run(cmd))
	if got := m.form.get("sender_name"); got != "Grace" {
		t.Errorf("input lost after failure: %q", got)
	}
	events := h.queue.Events()
	if len(events) != 1 || events[0].Title != "Send failed" {
		t.Fatalf("expected Send failed toast, got %+v", events)
	}
}
