package tui

import (
	"context"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/apitest"
	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/internal/session"
	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
)

// harness wires views to a fake backend.
type harness struct {
	srv   *apitest.Server
	api   *client.Client
	store *session.Store
	queue *notify.Recorder
}

func newHarness(t *testing.T) harness {
	t.Helper()
	srv := apitest.New(t)
	api := client.New(srv.URL)
	queue := &notify.Recorder{}
	return harness{srv: srv, api: api, store: session.New(api, queue), queue: queue}
}

// offlineHarness has no backend; every request fails with a config error.
func offlineHarness() harness {
	api := client.New("")
	queue := &notify.Recorder{}
	return harness{api: api, store: session.New(api, queue), queue: queue}
}

func (h harness) deps() deps {
	return deps{api: h.api, store: h.store, events: h.queue}
}

// signIn creates an account and logs in, discarding the welcome toast and
// the recorded setup requests.
func (h harness) signIn(t *testing.T, username string, role domain.Role) {
	t.Helper()
	h.srv.AddUser(username, "secret-pass", role)
	if !h.store.Login(context.Background(), username, "secret-pass") {
		t.Fatalf("login as %s failed: %v", username, h.queue.Titles())
	}
	h.queue.Drain()
	h.srv.Reset()
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// run executes cmd synchronously and returns its message, or nil.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
