package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/route"
	"github.com/naveenspark/folio/pkg/domain"
)

type loginDoneMsg struct{ ok bool }

type loginModel struct {
	deps
	form       form
	from       string // path a guard turned away, if any
	active     bool
	submitting bool
}

func newLoginModel(d deps, from string) loginModel {
	return loginModel{
		deps:   d,
		from:   from,
		active: true,
		form: newForm(
			formField{key: "username", label: "Username"},
			formField{key: "password", label: "Password", secret: true},
		),
	}
}

func (m loginModel) Init() tea.Cmd { return nil }

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.ok {
			return m, navigate(m.destination())
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

// destination is where to go after signing in.
func (m loginModel) destination() string {
	if m.from == "" || m.from == route.Login || m.from == route.Register {
		return route.Dashboard
	}
	return m.from
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.submitting || m.store.Loading() {
		return m, nil
	}
	f := domain.LoginForm{Username: m.form.get("username"), Password: m.form.get("password")}
	m.form.errs = f.Validate()
	if len(m.form.errs) > 0 {
		return m, nil
	}
	m.submitting = true
	req := f.Request()
	store := m.store
	return m, func() tea.Msg {
		return loginDoneMsg{ok: store.Login(context.Background(), req.Username, req.Password)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Sign in") + "\n")
	b.WriteString(" " + dimStyle.Render("Use your portfolio account to manage projects and your profile.") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	}
	if m.from != "" && m.destination() != route.Dashboard {
		b.WriteString(" " + metaStyle.Render("you'll return to "+m.from) + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	if m.active {
		return helpBar("tab", "next", "enter", "sign in", "esc", "nav")
	}
	return helpBar("enter", "edit")
}
