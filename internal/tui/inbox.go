package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
)

type inboxLoadedMsg struct {
	messages []domain.ContactMessage
	err      error
}

type inboxUpdatedMsg struct {
	err    error
	reload inboxLoadedMsg
}

type inboxCopyMsg struct{ err error }

// inboxModel triages contact messages.
type inboxModel struct {
	deps
	messages  []domain.ContactMessage
	cursor    int
	loading   bool
	updating  bool
	err       string
	statusMsg string
	width     int
	height    int
}

func newInboxModel(d deps) inboxModel {
	return inboxModel{deps: d, loading: true}
}

func (m inboxModel) Init() tea.Cmd {
	return m.load()
}

func (m inboxModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg { return fetchInbox(api) }
}

func fetchInbox(api *client.Client) inboxLoadedMsg {
	msgs, err := api.ListContactMessages(context.Background())
	return inboxLoadedMsg{messages: msgs, err: err}
}

func (m *inboxModel) applyLoaded(msg inboxLoadedMsg) {
	m.loading = false
	if msg.err != nil {
		m.err = client.Message(msg.err, "unable to load messages")
		return
	}
	m.err = ""
	m.messages = msg.messages
	if m.cursor >= len(m.messages) {
		m.cursor = max(0, len(m.messages)-1)
	}
}

func (m inboxModel) selected() (domain.ContactMessage, bool) {
	if m.cursor < 0 || m.cursor >= len(m.messages) {
		return domain.ContactMessage{}, false
	}
	return m.messages[m.cursor], true
}

func (m inboxModel) Update(msg tea.Msg) (inboxModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case inboxLoadedMsg:
		m.applyLoaded(msg)

	case inboxUpdatedMsg:
		m.updating = false
		if msg.err == nil {
			m.applyLoaded(msg.reload)
		}

	case inboxCopyMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "email copied"
		}

	case tea.KeyMsg:
		m.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.messages)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.load()
		case "s", "enter":
			return m.advance()
		case "e":
			if cm, ok := m.selected(); ok {
				email := cm.SenderEmail
				return m, func() tea.Msg {
					return inboxCopyMsg{err: clipboard.WriteAll(email)}
				}
			}
		}
	}
	return m, nil
}

// advance moves the selected message to its next triage status.
func (m inboxModel) advance() (inboxModel, tea.Cmd) {
	cm, ok := m.selected()
	if !ok || m.updating {
		return m, nil
	}
	m.updating = true
	next := cm.Status.Next()
	api, events := m.api, m.events
	return m, func() tea.Msg {
		if err := api.UpdateContactMessage(context.Background(), cm.ID, next); err != nil {
			events.Notify(notify.New(notify.Error, "Update failed", client.Message(err, "Unable to update status.")))
			return inboxUpdatedMsg{err: err}
		}
		events.Notify(notify.New(notify.Success, "Updated", "Message status updated."))
		return inboxUpdatedMsg{reload: fetchInbox(api)}
	}
}

func statusLabel(s domain.MessageStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func (m inboxModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Contact inbox") + "\n\n")
	if m.loading && len(m.messages) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + fieldErrorStyle.Render("error: "+m.err) + "\n")
	}
	if len(m.messages) == 0 {
		b.WriteString(" " + dimStyle.Render("inbox is empty") + "\n")
		return b.String()
	}

	for i, cm := range m.messages {
		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		subject := cm.Subject
		if subject == "" {
			subject = "(no subject)"
		}
		fmt.Fprintf(&b, " %s %s  %s  %s  %s\n",
			cursor,
			MessageStyle(cm.Status).Render(fmt.Sprintf("%-11s", statusLabel(cm.Status))),
			style.Render(fmt.Sprintf("%-20s", truncStr(cm.SenderName, 20))),
			dimStyle.Render(truncStr(subject, 32)),
			metaStyle.Render(formatTime(cm.CreatedAt)),
		)
	}

	if cm, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(" " + metaStyle.Render("from ") + normalStyle.Render(cm.SenderName) + " " + dimStyle.Render("<"+cm.SenderEmail+">") + "\n")
		b.WriteString(" " + metaStyle.Render("next ") + MessageStyle(cm.Status.Next()).Render(statusLabel(cm.Status.Next())) + "\n\n")
		b.WriteString(" " + normalStyle.Render(truncStr(cm.Message, 600)) + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + successStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m inboxModel) helpKeys() string {
	return helpBar("j/k", "nav", "s", "advance status", "e", "copy email", "r", "refresh")
}
