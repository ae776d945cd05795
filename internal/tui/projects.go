package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/browser"
	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
)

// projectsState is the state machine for project CRUD interactions.
type projectsState int

const (
	prNormal   projectsState = iota
	prEditing                // create or edit form open
	prDeleting               // delete confirmation
)

// -- messages --

type projectsLoadedMsg struct {
	projects []domain.Project
	skills   []domain.Skill
	err      error
}

// projectSavedMsg carries the mutation outcome and, on success, the reloaded list.
type projectSavedMsg struct {
	err    error
	reload projectsLoadedMsg
}

type projectDeletedMsg struct {
	err    error
	reload projectsLoadedMsg
}

type projectCopyMsg struct{ err error }

type projectOpenMsg struct{ err error }

// projectFilters is the filter cycle; "" shows every status.
var projectFilters = append([]domain.ProjectStatus{""}, domain.ProjectStatuses...)

// -- model --

type projectsModel struct {
	deps
	projects []domain.Project
	skills   []domain.Skill
	cursor   int
	filter   int
	state    projectsState

	// editor
	editingID   int64 // 0 when creating
	form        form
	draft       domain.ProjectForm
	focus       int // text fields first, then status, then skills
	skillCursor int

	loading   bool
	saving    bool
	err       string
	statusMsg string
	width     int
	height    int
}

func newProjectsModel(d deps) projectsModel {
	return projectsModel{deps: d, loading: true}
}

func (m projectsModel) Init() tea.Cmd {
	return m.load()
}

func (m projectsModel) load() tea.Cmd {
	api := m.api
	status := projectFilters[m.filter]
	return func() tea.Msg {
		return fetchProjects(api, status)
	}
}

// fetchProjects loads the filtered projects and the skill catalog used by
// the editor.
func fetchProjects(api *client.Client, status domain.ProjectStatus) projectsLoadedMsg {
	ctx := context.Background()
	projects, err := api.ListProjects(ctx, status)
	if err != nil {
		return projectsLoadedMsg{err: err}
	}
	skills, err := api.ListSkills(ctx)
	if err != nil {
		return projectsLoadedMsg{err: err}
	}
	return projectsLoadedMsg{projects: projects, skills: skills}
}

func (m projectsModel) editing() bool {
	return m.state == prEditing
}

func (m *projectsModel) applyLoaded(msg projectsLoadedMsg) {
	m.loading = false
	if msg.err != nil {
		m.err = client.Message(msg.err, "unable to load projects")
		return
	}
	m.err = ""
	m.projects = msg.projects
	m.skills = msg.skills
	if m.cursor >= len(m.projects) {
		m.cursor = max(0, len(m.projects)-1)
	}
}

func (m projectsModel) selected() (domain.Project, bool) {
	if m.cursor < 0 || m.cursor >= len(m.projects) {
		return domain.Project{}, false
	}
	return m.projects[m.cursor], true
}

func (m projectsModel) Update(msg tea.Msg) (projectsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case projectsLoadedMsg:
		m.applyLoaded(msg)

	case projectSavedMsg:
		m.saving = false
		if msg.err != nil {
			return m, nil
		}
		m.state = prNormal
		m.applyLoaded(msg.reload)

	case projectDeletedMsg:
		m.state = prNormal
		if msg.err == nil {
			m.applyLoaded(msg.reload)
		}

	case projectCopyMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "repo url copied"
		}

	case projectOpenMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("open failed: %v", msg.err)
		}

	case tea.KeyMsg:
		m.statusMsg = ""
		switch m.state {
		case prEditing:
			return m.handleKeyEditing(msg)
		case prDeleting:
			return m.handleKeyDeleting(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m projectsModel) handleKey(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "f":
		m.filter = (m.filter + 1) % len(projectFilters)
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "r":
		m.loading = true
		return m, m.load()
	case "a":
		m.startEdit(nil)
	case "e", "enter":
		if p, ok := m.selected(); ok {
			m.startEdit(&p)
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.state = prDeleting
		}
	case "c":
		if p, ok := m.selected(); ok {
			if p.RepoURL == "" {
				m.statusMsg = "no repo url"
				return m, nil
			}
			url := p.RepoURL
			return m, func() tea.Msg {
				return projectCopyMsg{err: clipboard.WriteAll(url)}
			}
		}
	case "o":
		if p, ok := m.selected(); ok {
			url := p.LiveURL
			if url == "" {
				url = p.RepoURL
			}
			if url == "" {
				m.statusMsg = "no link to open"
				return m, nil
			}
			return m, func() tea.Msg {
				return projectOpenMsg{err: browser.Open(url)}
			}
		}
	}
	return m, nil
}

// startEdit opens the editor, prefilled from p or empty for a new project.
func (m *projectsModel) startEdit(p *domain.Project) {
	m.state = prEditing
	m.focus = 0
	m.skillCursor = 0
	if p == nil {
		m.editingID = 0
		m.draft = domain.NewProjectForm()
	} else {
		m.editingID = p.ID
		m.draft = domain.ProjectFormFrom(*p)
	}
	m.form = newForm(
		formField{key: "title", label: "Title", value: m.draft.Title},
		formField{key: "description", label: "Description", value: m.draft.Description, hint: "optional"},
		formField{key: "repo_url", label: "Repo URL", value: m.draft.RepoURL, hint: "optional"},
		formField{key: "live_url", label: "Live URL", value: m.draft.LiveURL, hint: "optional"},
	)
}

func (m projectsModel) statusFocus() int { return len(m.form.fields) }
func (m projectsModel) skillsFocus() int { return len(m.form.fields) + 1 }

func (m *projectsModel) moveFocus(delta int) {
	n := len(m.form.fields) + 2
	m.focus = (m.focus + delta + n) % n
	if m.focus < len(m.form.fields) {
		m.form.focus = m.focus
	} else {
		m.form.focus = -1
	}
}

func (m projectsModel) handleKeyEditing(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		m.state = prNormal
		m.form.errs = nil
		return m, nil
	case "ctrl+s":
		return m.save()
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "enter":
		if m.focus == m.skillsFocus() {
			return m.save()
		}
		m.moveFocus(1)
		return m, nil
	}

	switch m.focus {
	case m.statusFocus():
		switch key {
		case "left", "h":
			m.draft.Status = cycleStatus(m.draft.Status, -1)
		case "right", "l", " ":
			m.draft.Status = cycleStatus(m.draft.Status, 1)
		}
	case m.skillsFocus():
		switch key {
		case "left", "h":
			if m.skillCursor > 0 {
				m.skillCursor--
			}
		case "right", "l":
			if m.skillCursor < len(m.skills)-1 {
				m.skillCursor++
			}
		case " ", "x":
			if m.skillCursor < len(m.skills) {
				m.draft.ToggleSkill(m.skills[m.skillCursor].ID)
			}
		}
	default:
		m.form.handleKey(msg)
	}
	return m, nil
}

func cycleStatus(s domain.ProjectStatus, delta int) domain.ProjectStatus {
	n := len(domain.ProjectStatuses)
	for i, v := range domain.ProjectStatuses {
		if v == s {
			return domain.ProjectStatuses[(i+delta+n)%n]
		}
	}
	return domain.ProjectDraft
}

func (m projectsModel) save() (projectsModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	draft := m.draft
	draft.Title = m.form.get("title")
	draft.Description = m.form.get("description")
	draft.RepoURL = m.form.get("repo_url")
	draft.LiveURL = m.form.get("live_url")
	m.draft = draft

	m.form.errs = draft.Validate()
	if len(m.form.errs) > 0 {
		return m, nil
	}

	creating := m.editingID == 0
	in := draft.Input(creating)
	id := m.editingID
	api, events := m.api, m.events
	status := projectFilters[m.filter]
	m.saving = true
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if creating {
			_, err = api.CreateProject(ctx, in)
		} else {
			_, err = api.UpdateProject(ctx, id, in)
		}
		if err != nil {
			events.Notify(notify.New(notify.Error, "Save failed", client.Message(err, "Unable to save project.")))
			return projectSavedMsg{err: err}
		}
		if creating {
			events.Notify(notify.New(notify.Success, "Project created", "Your project was created."))
		} else {
			events.Notify(notify.New(notify.Success, "Project updated", "Your changes were saved."))
		}
		return projectSavedMsg{reload: fetchProjects(api, status)}
	}
}

func (m projectsModel) handleKeyDeleting(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		p, ok := m.selected()
		if !ok {
			m.state = prNormal
			return m, nil
		}
		api, events := m.api, m.events
		status := projectFilters[m.filter]
		return m, func() tea.Msg {
			if err := api.DeleteProject(context.Background(), p.ID); err != nil {
				events.Notify(notify.New(notify.Error, "Delete failed", client.Message(err, "Unable to delete project.")))
				return projectDeletedMsg{err: err}
			}
			events.Notify(notify.New(notify.Success, "Project deleted", "Project removed."))
			return projectDeletedMsg{reload: fetchProjects(api, status)}
		}
	case "n", "N", "esc":
		m.state = prNormal
	}
	return m, nil
}

func (m projectsModel) skillNames(p domain.Project) string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func (m projectsModel) View() string {
	if m.state == prEditing {
		return m.editorView()
	}

	var b strings.Builder
	filter := "all"
	if f := projectFilters[m.filter]; f != "" {
		filter = StatusStyle(f).Render(string(f))
	}
	fmt.Fprintf(&b, "\n %s  %s\n\n", titleStyle.Render("Projects"), dimStyle.Render("filter: ")+filter)

	if m.loading && len(m.projects) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + fieldErrorStyle.Render("error: "+m.err) + "\n")
	}
	if len(m.projects) == 0 {
		b.WriteString(" " + dimStyle.Render("no projects yet. press a to add one") + "\n")
		return b.String()
	}

	titleWidth := max(20, min(40, m.width-40))
	for i, p := range m.projects {
		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		title := fmt.Sprintf("%-*s", titleWidth, truncStr(p.Title, titleWidth))
		row := fmt.Sprintf(" %s %s  %s", cursor, style.Render(title), StatusStyle(p.Status).Render(fmt.Sprintf("%-9s", p.Status)))
		if names := m.skillNames(p); names != "" {
			row += "  " + metaStyle.Render(truncStr(names, 30))
		}
		if ts := formatTimePtr(p.UpdatedAt); ts != "" {
			row += "  " + metaStyle.Render(ts)
		}
		b.WriteString(row + "\n")
	}

	if p, ok := m.selected(); ok {
		b.WriteString("\n")
		if p.Description != "" {
			b.WriteString(" " + normalStyle.Render(truncStr(p.Description, 200)) + "\n")
		}
		b.WriteString(" " + metaStyle.Render("repo ") + dimStyle.Render(orDash(p.RepoURL)) + "\n")
		b.WriteString(" " + metaStyle.Render("live ") + dimStyle.Render(orDash(p.LiveURL)) + "\n")
	}

	if m.state == prDeleting {
		if p, ok := m.selected(); ok {
			b.WriteString("\n " + warnStyle.Render(fmt.Sprintf("Delete %q? y/n", p.Title)) + "\n")
		}
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + successStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m projectsModel) editorView() string {
	var b strings.Builder
	heading := "New project"
	if m.editingID != 0 {
		heading = "Edit project"
	}
	b.WriteString("\n " + titleStyle.Render(heading) + "\n\n")
	b.WriteString(m.form.View())

	cursor, style := " ", metaStyle
	if m.focus == m.statusFocus() {
		cursor, style = accentStyle.Render(">"), selectedStyle
	}
	fmt.Fprintf(&b, " %s %s %s  %s\n", cursor, style.Render(fmt.Sprintf("%-12s", "Status")),
		StatusStyle(m.draft.Status).Render(string(m.draft.Status)), metaStyle.Render("(h/l to cycle)"))

	cursor, style = " ", metaStyle
	if m.focus == m.skillsFocus() {
		cursor, style = accentStyle.Render(">"), selectedStyle
	}
	fmt.Fprintf(&b, " %s %s ", cursor, style.Render(fmt.Sprintf("%-12s", "Skills")))
	if len(m.skills) == 0 {
		b.WriteString(dimStyle.Render("no skills available"))
	}
	for i, s := range m.skills {
		mark := "[ ]"
		if m.draft.HasSkill(s.ID) {
			mark = "[x]"
		}
		label := mark + " " + s.Name
		switch {
		case m.focus == m.skillsFocus() && i == m.skillCursor:
			label = selectedStyle.Underline(true).Render(label)
		case m.draft.HasSkill(s.ID):
			label = accentStyle.Render(label)
		default:
			label = dimStyle.Render(label)
		}
		b.WriteString(label + "  ")
	}
	b.WriteString("\n")

	if m.saving {
		b.WriteString("\n " + dimStyle.Render("saving...") + "\n")
	}
	return b.String()
}

func (m projectsModel) helpKeys() string {
	switch m.state {
	case prEditing:
		return helpBar("tab", "next", "h/l", "status/skill", "space", "toggle", "ctrl+s", "save", "esc", "cancel")
	case prDeleting:
		return helpBar("y", "delete", "n", "cancel")
	}
	return helpBar("j/k", "nav", "a", "add", "e", "edit", "d", "delete", "f", "filter", "c", "copy repo", "o", "open", "r", "refresh")
}
