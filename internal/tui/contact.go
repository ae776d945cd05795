package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
)

type contactSentMsg struct{ err error }

type contactModel struct {
	deps
	form       form
	active     bool
	submitting bool
}

func newContactForm() form {
	return newForm(
		formField{key: "sender_name", label: "Name"},
		formField{key: "sender_email", label: "Email", hint: "you@example.com"},
		formField{key: "subject", label: "Subject", hint: "optional"},
		formField{key: "message", label: "Message", hint: "at least 10 characters"},
	)
}

func newContactModel(d deps) contactModel {
	return contactModel{deps: d, active: true, form: newContactForm()}
}

func (m contactModel) Init() tea.Cmd { return nil }

func (m contactModel) Update(msg tea.Msg) (contactModel, tea.Cmd) {
	switch msg := msg.(type) {
	case contactSentMsg:
		m.submitting = false
		if msg.err == nil {
			m.form = newContactForm()
		}
		return m, nil

	case tea.KeyMsg:
		if !m.active {
			if k := msg.String(); k == "enter" || k == "i" {
				m.active = true
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.active = false
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.form.onLast() {
				return m.submit()
			}
			m.form.next()
		default:
			m.form.handleKey(msg)
		}
	}
	return m, nil
}

func (m contactModel) submit() (contactModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	f := domain.ContactForm{
		SenderName:  m.form.get("sender_name"),
		SenderEmail: m.form.get("sender_email"),
		Subject:     m.form.get("subject"),
		Message:     m.form.get("message"),
	}
	m.form.errs = f.Validate()
	if len(m.form.errs) > 0 {
		return m, nil
	}
	m.submitting = true
	sub := f.Submission()
	api, events := m.api, m.events
	return m, func() tea.Msg {
		_, err := api.SubmitContactMessage(context.Background(), sub)
		if err != nil {
			events.Notify(notify.New(notify.Error, "Send failed", client.Message(err, "Unable to submit message.")))
		} else {
			events.Notify(notify.New(notify.Success, "Message sent", "Thanks! We'll get back to you soon."))
		}
		return contactSentMsg{err: err}
	}
}

func (m contactModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Contact") + "\n")
	b.WriteString(" " + dimStyle.Render("Send a message. No account needed.") + "\n\n")
	b.WriteString(m.form.View())
	if m.submitting {
		b.WriteString("\n " + dimStyle.Render("sending...") + "\n")
	}
	return b.String()
}

func (m contactModel) helpKeys() string {
	if m.active {
		return helpBar("tab", "next", "enter", "send", "esc", "nav")
	}
	return helpBar("enter", "edit")
}
