package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/route"
)

type quickAction struct {
	label string
	path  string
}

var quickActions = []quickAction{
	{"Manage projects", route.Projects},
	{"Edit profile", route.Profile},
	{"View skills", route.Skills},
	{"Public contact form", route.Contact},
	{"Contact inbox", route.Inbox},
}

// homeModel is the dashboard overview: a welcome card and quick actions.
type homeModel struct {
	deps
	cursor int
	width  int
	height int
}

func newHomeModel(d deps) homeModel {
	return homeModel{deps: d}
}

func (m homeModel) Init() tea.Cmd { return nil }

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(quickActions)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			return m, navigate(quickActions[m.cursor].path)
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	st := m.store.State()
	var b strings.Builder

	name := "Your profile"
	headline := ""
	if st.Profile != nil {
		if st.Profile.DisplayName != "" {
			name = st.Profile.DisplayName
		}
		headline = st.Profile.Headline
	}

	fmt.Fprintf(&b, "\n %s  %s\n", titleStyle.Render("Welcome"), RoleBadge(st.Role))
	b.WriteString(" " + dimStyle.Render("Manage your portfolio content and publish projects.") + "\n\n")
	b.WriteString(" " + selectedStyle.Render(name) + "\n")
	if headline != "" {
		b.WriteString(" " + normalStyle.Render(headline) + "\n")
	}
	b.WriteString(" " + metaStyle.Render("Tip: keep your profile headline and bio updated for a polished public portfolio.") + "\n\n")

	b.WriteString(" " + sectionHeaderStyle.Render("Quick actions") + "\n")
	for i, qa := range quickActions {
		cursor := " "
		style := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		fmt.Fprintf(&b, " %s %s\n", cursor, style.Render(qa.label))
	}
	return b.String()
}

func (m homeModel) helpKeys() string {
	return helpBar("j/k", "nav", "enter", "open")
}
