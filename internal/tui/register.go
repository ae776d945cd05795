package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/route"
	"github.com/naveenspark/folio/pkg/domain"
)

type registerDoneMsg struct{ ok bool }

type registerModel struct {
	deps
	form       form
	active     bool
	submitting bool
}

func newRegisterModel(d deps) registerModel {
	return registerModel{
		deps:   d,
		active: true,
		form: newForm(
			formField{key: "email", label: "Email", hint: "you@example.com"},
			formField{key: "username", label: "Username", hint: "at least 3 characters"},
			formField{key: "password", label: "Password", secret: true, hint: "at least 6 characters"},
		),
	}
}

func (m registerModel) Init() tea.Cmd { return nil }

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.submitting = false
		if msg.ok {
			return m, navigate(route.Login)
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

func (m registerModel) submit() (registerModel, tea.Cmd) {
	if m.submitting || m.store.Loading() {
		return m, nil
	}
	f := domain.RegisterForm{
		Email:    m.form.get("email"),
		Username: m.form.get("username"),
		Password: m.form.get("password"),
	}
	m.form.errs = f.Validate()
	if len(m.form.errs) > 0 {
		return m, nil
	}
	m.submitting = true
	req := f.Request()
	store := m.store
	return m, func() tea.Msg {
		return registerDoneMsg{ok: store.Register(context.Background(), req.Email, req.Username, req.Password)}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Create account") + "\n")
	b.WriteString(" " + dimStyle.Render("You'll sign in once the account exists.") + "\n\n")
	b.WriteString(m.form.View())
	if m.submitting {
		b.WriteString("\n " + dimStyle.Render("creating account...") + "\n")
	}
	return b.String()
}

func (m registerModel) helpKeys() string {
	if m.active {
		return helpBar("tab", "next", "enter", "register", "esc", "nav")
	}
	return helpBar("enter", "edit")
}
