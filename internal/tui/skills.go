package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
)

type skillsState int

const (
	skNormal skillsState = iota
	skEditing
	skDeleting
)

type skillsLoadedMsg struct {
	skills []domain.Skill
	err    error
}

type skillSavedMsg struct {
	err    error
	reload skillsLoadedMsg
}

type skillDeletedMsg struct {
	err    error
	reload skillsLoadedMsg
}

// skillsModel lists skills grouped by category. Admins can manage them.
type skillsModel struct {
	deps
	admin  bool
	groups []domain.SkillGroup
	flat   []domain.Skill // display order, for the cursor
	cursor int
	state  skillsState

	editingID int64
	form      form

	loading bool
	saving  bool
	err     string
	width   int
	height  int
}

func newSkillsModel(d deps, admin bool) skillsModel {
	return skillsModel{deps: d, admin: admin, loading: true}
}

func (m skillsModel) Init() tea.Cmd {
	return m.load()
}

func (m skillsModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg { return fetchSkills(api) }
}

func fetchSkills(api *client.Client) skillsLoadedMsg {
	skills, err := api.ListSkills(context.Background())
	return skillsLoadedMsg{skills: skills, err: err}
}

func (m skillsModel) editing() bool {
	return m.state == skEditing
}

func (m *skillsModel) applyLoaded(msg skillsLoadedMsg) {
	m.loading = false
	if msg.err != nil {
		m.err = client.Message(msg.err, "unable to load skills")
		return
	}
	m.err = ""
	m.groups = domain.GroupSkills(msg.skills)
	m.flat = nil
	for _, g := range m.groups {
		m.flat = append(m.flat, g.Skills...)
	}
	if m.cursor >= len(m.flat) {
		m.cursor = max(0, len(m.flat)-1)
	}
}

func (m skillsModel) selected() (domain.Skill, bool) {
	if m.cursor < 0 || m.cursor >= len(m.flat) {
		return domain.Skill{}, false
	}
	return m.flat[m.cursor], true
}

func (m skillsModel) Update(msg tea.Msg) (skillsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case skillsLoadedMsg:
		m.applyLoaded(msg)

	case skillSavedMsg:
		m.saving = false
		if msg.err == nil {
			m.state = skNormal
			m.applyLoaded(msg.reload)
		}

	case skillDeletedMsg:
		m.state = skNormal
		if msg.err == nil {
			m.applyLoaded(msg.reload)
		}

	case tea.KeyMsg:
		switch m.state {
		case skEditing:
			return m.handleKeyEditing(msg)
		case skDeleting:
			return m.handleKeyDeleting(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m skillsModel) handleKey(msg tea.KeyMsg) (skillsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.flat)-1 {
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
	if !m.admin {
		return m, nil
	}
	switch msg.String() {
	case "a":
		m.startEdit(nil)
	case "e", "enter":
		if s, ok := m.selected(); ok {
			m.startEdit(&s)
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.state = skDeleting
		}
	}
	return m, nil
}

func (m *skillsModel) startEdit(s *domain.Skill) {
	m.state = skEditing
	f := domain.NewSkillForm()
	m.editingID = 0
	if s != nil {
		f = domain.SkillFormFrom(*s)
		m.editingID = s.ID
	}
	m.form = newForm(
		formField{key: "name", label: "Name", value: f.Name},
		formField{key: "category", label: "Category", value: f.Category, hint: "optional"},
		formField{key: "level", label: "Level", value: f.Level, hint: "1-5"},
	)
}

func (m skillsModel) handleKeyEditing(msg tea.KeyMsg) (skillsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = skNormal
		m.form.errs = nil
	case "ctrl+s":
		return m.save()
	case "enter":
		if m.form.onLast() {
			return m.save()
		}
		m.form.next()
	default:
		m.form.handleKey(msg)
	}
	return m, nil
}

func (m skillsModel) save() (skillsModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	f := domain.SkillForm{
		Name:     m.form.get("name"),
		Category: m.form.get("category"),
		Level:    m.form.get("level"),
	}
	m.form.errs = f.Validate()
	if len(m.form.errs) > 0 {
		return m, nil
	}
	in := f.Input()
	id := m.editingID
	api, events := m.api, m.events
	m.saving = true
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if id == 0 {
			_, err = api.CreateSkill(ctx, in)
		} else {
			_, err = api.UpdateSkill(ctx, id, in)
		}
		if err != nil {
			events.Notify(notify.New(notify.Error, "Save failed", client.Message(err, "Unable to save skill.")))
			return skillSavedMsg{err: err}
		}
		if id == 0 {
			events.Notify(notify.New(notify.Success, "Skill created", "New skill added."))
		} else {
			events.Notify(notify.New(notify.Success, "Skill updated", "Skill saved."))
		}
		return skillSavedMsg{reload: fetchSkills(api)}
	}
}

func (m skillsModel) handleKeyDeleting(msg tea.KeyMsg) (skillsModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		s, ok := m.selected()
		if !ok {
			m.state = skNormal
			return m, nil
		}
		api, events := m.api, m.events
		return m, func() tea.Msg {
			if err := api.DeleteSkill(context.Background(), s.ID); err != nil {
				events.Notify(notify.New(notify.Error, "Delete failed", client.Message(err, "Unable to delete skill.")))
				return skillDeletedMsg{err: err}
			}
			events.Notify(notify.New(notify.Success, "Skill deleted", "Skill removed."))
			return skillDeletedMsg{reload: fetchSkills(api)}
		}
	case "n", "N", "esc":
		m.state = skNormal
	}
	return m, nil
}

func (m skillsModel) View() string {
	if m.state == skEditing {
		heading := "New skill"
		if m.editingID != 0 {
			heading = "Edit skill"
		}
		s := "\n " + titleStyle.Render(heading) + "\n\n" + m.form.View()
		if m.saving {
			s += "\n " + dimStyle.Render("saving...") + "\n"
		}
		return s
	}

	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Skills") + "\n\n")
	if m.loading && len(m.flat) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + fieldErrorStyle.Render("error: "+m.err) + "\n")
	}
	if len(m.flat) == 0 {
		hint := "no skills yet"
		if m.admin {
			hint += ". press a to add one"
		}
		b.WriteString(" " + dimStyle.Render(hint) + "\n")
		return b.String()
	}

	i := 0
	for _, g := range m.groups {
		b.WriteString(" " + sectionHeaderStyle.Render(strings.ToUpper(g.Category)) + "\n")
		for _, s := range g.Skills {
			cursor := " "
			style := normalStyle
			if i == m.cursor {
				cursor = accentStyle.Render("▸")
				style = selectedStyle
			}
			fmt.Fprintf(&b, " %s %s %s\n", cursor, style.Render(fmt.Sprintf("%-24s", truncStr(s.Name, 24))), levelBar(s.DisplayLevel()))
			i++
		}
		b.WriteString("\n")
	}

	if m.state == skDeleting {
		if s, ok := m.selected(); ok {
			b.WriteString(" " + warnStyle.Render(fmt.Sprintf("Delete %q? y/n", s.Name)) + "\n")
		}
	}
	return b.String()
}

func (m skillsModel) helpKeys() string {
	switch m.state {
	case skEditing:
		return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
	case skDeleting:
		return helpBar("y", "delete", "n", "cancel")
	}
	if m.admin {
		return helpBar("j/k", "nav", "a", "add", "e", "edit", "d", "delete", "r", "refresh")
	}
	return helpBar("j/k", "nav", "r", "refresh")
}
