package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
)

type usersLoadedMsg struct {
	users []domain.User
	err   error
}

// usersModel is the read-only admin user table.
type usersModel struct {
	deps
	users   []domain.User
	cursor  int
	loading bool
	err     string
}

func newUsersModel(d deps) usersModel {
	return usersModel{deps: d, loading: true}
}

func (m usersModel) Init() tea.Cmd {
	return m.load()
}

func (m usersModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		users, err := api.ListUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m usersModel) Update(msg tea.Msg) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err, "unable to load users")
			return m, nil
		}
		m.err = ""
		m.users = msg.users
		if m.cursor >= len(m.users) {
			m.cursor = max(0, len(m.users)-1)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.users)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m usersModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Users") + "\n\n")
	if m.loading && len(m.users) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + fieldErrorStyle.Render("error: "+m.err) + "\n")
	}
	if len(m.users) == 0 {
		b.WriteString(" " + dimStyle.Render("no users") + "\n")
		return b.String()
	}

	header := fmt.Sprintf("   %-6s %-28s %-18s %-8s %s", "ID", "Email", "Username", "Role", "Created")
	b.WriteString(" " + sectionHeaderStyle.Render(header) + "\n")
	for i, u := range m.users {
		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		row := fmt.Sprintf("%-6d %-28s %-18s", u.ID, truncStr(u.Email, 28), truncStr(u.Username, 18))
		badge := RoleBadge(domain.ParseRole(u.Role))
		fmt.Fprintf(&b, " %s %s %s %s\n", cursor, style.Render(row), badge, metaStyle.Render(orDash(formatTimePtr(u.CreatedAt))))
	}
	return b.String()
}

func (m usersModel) helpKeys() string {
	return helpBar("j/k", "nav", "r", "refresh")
}
